package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mwangikc/orderdesk/internal/models"
	"github.com/mwangikc/orderdesk/internal/pricing"
	"github.com/mwangikc/orderdesk/internal/repository"
	"github.com/mwangikc/orderdesk/internal/sms"
)

// Processor handles queued notification jobs in the worker process. A job
// carries only the order id; the order and customer are loaded fresh so
// the message reflects the persisted state.
type Processor struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	channel      *sms.NotificationChannel
	logger       *slog.Logger
}

// NewProcessor creates a notification job processor.
func NewProcessor(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	channel *sms.NotificationChannel,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		channel:      channel,
		logger:       logger,
	}
}

// Process handles a single notification job. Send failures are logged and
// dropped: notification is at-most-once and the order itself is already
// durable.
func (p *Processor) Process(ctx context.Context, job *models.NotificationJob) error {
	order, err := p.orderRepo.GetByID(ctx, job.OrderID)
	if err != nil {
		// The order may have been deleted between enqueue and processing.
		p.logger.Warn("order not found for queued notification",
			slog.Int64("order_id", job.OrderID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to fetch order: %w", err)
	}

	customer, err := p.customerRepo.GetByID(ctx, order.CustomerID)
	if err != nil {
		p.logger.Warn("customer not found for queued notification",
			slog.Int64("order_id", order.ID),
			slog.Int64("customer_id", order.CustomerID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to fetch customer: %w", err)
	}

	totalCost := pricing.TotalCost(order.Amount, order.Quantity)
	message := RenderOrderMessage(order, customer, totalCost)

	if p.channel.SendOrderNotification(ctx, customer.Phone, message) {
		p.logger.Info("queued order notification sent",
			slog.Int64("order_id", order.ID),
			slog.Int64("customer_id", customer.ID),
		)
		return nil
	}

	p.logger.Error("queued order notification failed",
		slog.Int64("order_id", order.ID),
		slog.Int64("customer_id", customer.ID),
	)
	return nil
}
