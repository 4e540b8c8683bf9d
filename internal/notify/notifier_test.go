package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mwangikc/orderdesk/internal/models"
	"github.com/mwangikc/orderdesk/internal/queue"
	"github.com/mwangikc/orderdesk/internal/sms"
)

// mockGateway implements sms.Gateway for notifier tests
type mockGateway struct {
	calls   int
	lastTo  string
	lastMsg string
	err     error
}

func (m *mockGateway) Send(ctx context.Context, to, message string) (*sms.SendResponse, error) {
	m.calls++
	m.lastTo = to
	m.lastMsg = message
	if m.err != nil {
		return nil, m.err
	}
	resp := &sms.SendResponse{}
	resp.MessageData.Recipients = []sms.Recipient{
		{Number: to, Status: sms.RecipientStatusSuccess},
	}
	return resp, nil
}

// mockQueueClient implements queue.Client for notifier tests
type mockQueueClient struct {
	published []*models.NotificationJob
	err       error
}

func (m *mockQueueClient) Publish(ctx context.Context, job *models.NotificationJob) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, job)
	return nil
}

func (m *mockQueueClient) Consume(ctx context.Context, handler queue.JobHandler, concurrency int) error {
	return nil
}

func (m *mockQueueClient) Close() error { return nil }

func (m *mockQueueClient) Health(ctx context.Context) error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOrder() (*models.Order, *models.Customer) {
	order := &models.Order{
		ID:            7,
		CustomerID:    1,
		Item:          "Widget",
		Quantity:      3,
		Amount:        decimal.RequireFromString("150.00"),
		PaymentMethod: "M-Pesa",
	}
	customer := &models.Customer{
		ID:    1,
		Name:  "Jane",
		Code:  "C1",
		Phone: "0712345678",
	}
	return order, customer
}

func TestRenderOrderMessage(t *testing.T) {
	order, customer := testOrder()
	message := RenderOrderMessage(order, customer, decimal.RequireFromString("450.00"))

	for _, want := range []string{"Dear Jane", "#7", "Widget x3", "450.00", "M-Pesa"} {
		if !strings.Contains(message, want) {
			t.Errorf("message missing %q:\n%s", want, message)
		}
	}
}

func TestDirectNotifierSendsOnce(t *testing.T) {
	gateway := &mockGateway{}
	channel := sms.NewNotificationChannel(gateway, time.Second, testLogger())
	notifier := NewDirectNotifier(channel, time.Second, testLogger())

	order, customer := testOrder()
	notifier.Notify(context.Background(), order, customer)

	if gateway.calls != 1 {
		t.Fatalf("gateway called %d times, want 1", gateway.calls)
	}
	if gateway.lastTo != "+254712345678" {
		t.Errorf("gateway called with %q, want normalized +254712345678", gateway.lastTo)
	}
	if !strings.Contains(gateway.lastMsg, "Widget x3") || !strings.Contains(gateway.lastMsg, "450.00") {
		t.Errorf("message missing order details:\n%s", gateway.lastMsg)
	}
}

func TestDirectNotifierAbsorbsGatewayFailure(t *testing.T) {
	gateway := &mockGateway{err: errors.New("gateway down")}
	channel := sms.NewNotificationChannel(gateway, time.Second, testLogger())
	notifier := NewDirectNotifier(channel, time.Second, testLogger())

	order, customer := testOrder()
	// Must not panic or propagate.
	notifier.Notify(context.Background(), order, customer)
}

func TestDirectNotifierSurvivesCanceledRequest(t *testing.T) {
	gateway := &mockGateway{}
	channel := sms.NewNotificationChannel(gateway, time.Second, testLogger())
	notifier := NewDirectNotifier(channel, time.Second, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	order, customer := testOrder()
	notifier.Notify(ctx, order, customer)

	if gateway.calls != 1 {
		t.Errorf("gateway called %d times, want 1 despite canceled request context", gateway.calls)
	}
}

func TestQueueNotifierPublishesJob(t *testing.T) {
	client := &mockQueueClient{}
	notifier := NewQueueNotifier(client, testLogger())

	order, customer := testOrder()
	notifier.Notify(context.Background(), order, customer)

	if len(client.published) != 1 {
		t.Fatalf("published %d jobs, want 1", len(client.published))
	}
	if client.published[0].OrderID != order.ID {
		t.Errorf("job OrderID = %d, want %d", client.published[0].OrderID, order.ID)
	}
}

func TestQueueNotifierAbsorbsPublishFailure(t *testing.T) {
	client := &mockQueueClient{err: errors.New("redis down")}
	notifier := NewQueueNotifier(client, testLogger())

	order, customer := testOrder()
	// Must not panic or propagate.
	notifier.Notify(context.Background(), order, customer)
}
