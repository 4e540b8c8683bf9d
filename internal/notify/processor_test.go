package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mwangikc/orderdesk/internal/models"
	"github.com/mwangikc/orderdesk/internal/sms"
)

// fixedOrderRepo serves a single order and rejects every other id.
type fixedOrderRepo struct {
	order *models.Order
}

func (r *fixedOrderRepo) Create(ctx context.Context, order *models.Order) error { return nil }

func (r *fixedOrderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	if r.order != nil && r.order.ID == id {
		return r.order, nil
	}
	return nil, models.ErrNotFoundWithMsg("order not found")
}

func (r *fixedOrderRepo) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, int64, error) {
	return nil, 0, nil
}

func (r *fixedOrderRepo) Update(ctx context.Context, order *models.Order) error { return nil }

func (r *fixedOrderRepo) Delete(ctx context.Context, id int64) error { return nil }

// fixedCustomerRepo serves a single customer and rejects every other id.
type fixedCustomerRepo struct {
	customer *models.Customer
}

func (r *fixedCustomerRepo) Create(ctx context.Context, customer *models.Customer) error { return nil }

func (r *fixedCustomerRepo) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	if r.customer != nil && r.customer.ID == id {
		return r.customer, nil
	}
	return nil, models.ErrCustomerNotFound(id)
}

func (r *fixedCustomerRepo) GetByCode(ctx context.Context, code string) (*models.Customer, error) {
	return nil, models.ErrNotFoundWithMsg("customer not found")
}

func (r *fixedCustomerRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return r.customer != nil && r.customer.ID == id, nil
}

func (r *fixedCustomerRepo) List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int64, error) {
	return nil, 0, nil
}

func (r *fixedCustomerRepo) Update(ctx context.Context, customer *models.Customer) error { return nil }

func (r *fixedCustomerRepo) Delete(ctx context.Context, id int64) error { return nil }

func TestProcessorSendsQueuedNotification(t *testing.T) {
	order, customer := testOrder()
	gateway := &mockGateway{}
	channel := sms.NewNotificationChannel(gateway, time.Second, testLogger())

	processor := NewProcessor(
		&fixedOrderRepo{order: order},
		&fixedCustomerRepo{customer: customer},
		channel,
		testLogger(),
	)

	err := processor.Process(context.Background(), &models.NotificationJob{OrderID: order.ID})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if gateway.calls != 1 {
		t.Fatalf("gateway called %d times, want 1", gateway.calls)
	}
	if gateway.lastTo != "+254712345678" {
		t.Errorf("gateway called with %q, want +254712345678", gateway.lastTo)
	}
	if !strings.Contains(gateway.lastMsg, "Widget x3") {
		t.Errorf("message missing item line:\n%s", gateway.lastMsg)
	}
}

func TestProcessorOrderDeletedBeforeProcessing(t *testing.T) {
	_, customer := testOrder()
	gateway := &mockGateway{}
	channel := sms.NewNotificationChannel(gateway, time.Second, testLogger())

	processor := NewProcessor(
		&fixedOrderRepo{},
		&fixedCustomerRepo{customer: customer},
		channel,
		testLogger(),
	)

	err := processor.Process(context.Background(), &models.NotificationJob{OrderID: 99})
	if err == nil {
		t.Fatal("expected error for missing order")
	}
	if gateway.calls != 0 {
		t.Errorf("gateway called %d times, want 0", gateway.calls)
	}
}

func TestProcessorSendFailureIsNotRetried(t *testing.T) {
	order, customer := testOrder()
	gateway := &mockGateway{err: context.DeadlineExceeded}
	channel := sms.NewNotificationChannel(gateway, time.Second, testLogger())

	processor := NewProcessor(
		&fixedOrderRepo{order: order},
		&fixedCustomerRepo{customer: customer},
		channel,
		testLogger(),
	)

	// Delivery is at-most-once: a failed send is logged, not requeued.
	err := processor.Process(context.Background(), &models.NotificationJob{OrderID: order.ID})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
}
