package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mwangikc/orderdesk/internal/models"
	"github.com/mwangikc/orderdesk/internal/notify"
	"github.com/mwangikc/orderdesk/internal/pricing"
	"github.com/mwangikc/orderdesk/internal/repository"
)

// OrderService handles the order workflow: validate, persist, price,
// notify. Persistence and notification have independent outcomes; a
// notification failure never fails the request.
type OrderService interface {
	Create(ctx context.Context, req *CreateOrderRequest) (*OrderResult, error)
	GetByID(ctx context.Context, id int64) (*OrderResult, error)
	List(ctx context.Context, filter models.OrderFilter) (*OrderListResult, error)
	Update(ctx context.Context, id int64, req *CreateOrderRequest) (*OrderResult, error)
	Delete(ctx context.Context, id int64) error
}

type orderService struct {
	orderRepo      repository.OrderRepository
	customerRepo   repository.CustomerRepository
	notifier       notify.Notifier
	notifyOnUpdate bool
	logger         *slog.Logger
}

// NewOrderService creates a new order service. notifyOnUpdate controls
// whether full-record updates re-trigger a notification (off by default).
func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	notifier notify.Notifier,
	notifyOnUpdate bool,
	logger *slog.Logger,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		customerRepo:   customerRepo,
		notifier:       notifier,
		notifyOnUpdate: notifyOnUpdate,
		logger:         logger,
	}
}

// result attaches the derived total cost to a persisted order.
func result(order *models.Order) *OrderResult {
	return &OrderResult{
		Order:     order,
		TotalCost: pricing.TotalCost(order.Amount, order.Quantity),
	}
}

// Create runs the order creation workflow: validate input and customer
// reference, persist, compute total cost, then fire the post-commit
// notification hook. Nothing is written when validation fails.
func (s *orderService) Create(ctx context.Context, req *CreateOrderRequest) (*OrderResult, error) {
	order := req.ToOrder()

	if err := order.Validate(); err != nil {
		return nil, err
	}

	// Customer lookup is part of validation; a miss means nothing is
	// persisted. The store's FK constraint re-checks at write time.
	customer, err := s.customerRepo.GetByID(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("failed to create order",
			slog.Int64("customer_id", order.CustomerID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("order created",
		slog.Int64("order_id", order.ID),
		slog.Int64("customer_id", customer.ID),
		slog.String("item", order.Item),
		slog.Int("quantity", order.Quantity),
	)

	// Post-commit hook. The order is durable at this point; the notifier
	// absorbs every failure and only logs the outcome.
	s.notifier.Notify(ctx, order, customer)

	return result(order), nil
}

// GetByID retrieves an order with its derived total cost
func (s *orderService) GetByID(ctx context.Context, id int64) (*OrderResult, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return result(order), nil
}

// List retrieves orders with pagination, optionally filtered by customer
func (s *orderService) List(ctx context.Context, filter models.OrderFilter) (*OrderListResult, error) {
	orders, totalCount, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	results := make([]*OrderResult, 0, len(orders))
	for _, order := range orders {
		results = append(results, result(order))
	}

	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)
	pagination := models.NewPaginationResult(filter.Page, filter.PageSize, totalCount)

	return &OrderListResult{
		Data:       results,
		Pagination: pagination,
	}, nil
}

// Update replaces an existing order with the same validation rules as
// creation. Re-notification only happens when configured.
func (s *orderService) Update(ctx context.Context, id int64, req *CreateOrderRequest) (*OrderResult, error) {
	order := req.ToOrder()
	order.ID = id

	if err := order.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		s.logger.Error("failed to update order",
			slog.Int64("order_id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	// Re-read so created_at reflects the stored row.
	order, err = s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order updated",
		slog.Int64("order_id", id),
		slog.Int64("customer_id", customer.ID),
	)

	if s.notifyOnUpdate {
		s.notifier.Notify(ctx, order, customer)
	}

	return result(order), nil
}

// Delete removes an order; no side effects beyond the row removal
func (s *orderService) Delete(ctx context.Context, id int64) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete order",
			slog.Int64("order_id", id),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("order deleted",
		slog.Int64("order_id", id),
	)

	return nil
}
