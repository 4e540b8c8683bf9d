// Package notify dispatches order notifications after the order has been
// durably written. It is the post-commit hook of the order workflow: the
// transactional path never waits on delivery guarantees, and a dispatch
// failure is logged, never returned.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mwangikc/orderdesk/internal/models"
	"github.com/mwangikc/orderdesk/internal/pricing"
	"github.com/mwangikc/orderdesk/internal/queue"
	"github.com/mwangikc/orderdesk/internal/sms"
)

// Notifier is invoked by the order workflow after a successful write,
// on create and, when configured, on update. Implementations must be
// best-effort: they never return an error and never panic into the caller.
type Notifier interface {
	Notify(ctx context.Context, order *models.Order, customer *models.Customer)
}

// RenderOrderMessage produces the fixed SMS template for an order.
func RenderOrderMessage(order *models.Order, customer *models.Customer, totalCost decimal.Decimal) string {
	return fmt.Sprintf(
		"Dear %s,\nThank you for your order (#%d) of %s x%d.\nTotal: KES %s\nPayment Method: %s\nWe'll contact you shortly.",
		customer.Name,
		order.ID,
		order.Item,
		order.Quantity,
		totalCost.StringFixed(2),
		order.PaymentMethod,
	)
}

// DirectNotifier sends the SMS inline, bounded by a timeout so a slow
// gateway never hangs the request.
type DirectNotifier struct {
	channel *sms.NotificationChannel
	timeout time.Duration
	logger  *slog.Logger
}

// NewDirectNotifier creates a synchronous notifier.
func NewDirectNotifier(channel *sms.NotificationChannel, timeout time.Duration, logger *slog.Logger) *DirectNotifier {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DirectNotifier{
		channel: channel,
		timeout: timeout,
		logger:  logger,
	}
}

// Notify renders the notification and sends it through the channel. The
// boolean outcome is recorded for observability only. The parent context
// is detached: the order is already committed, so a client disconnect
// must not cancel the send.
func (n *DirectNotifier) Notify(ctx context.Context, order *models.Order, customer *models.Customer) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	totalCost := pricing.TotalCost(order.Amount, order.Quantity)
	message := RenderOrderMessage(order, customer, totalCost)

	if n.channel.SendOrderNotification(ctx, customer.Phone, message) {
		n.logger.Info("order notification sent",
			slog.Int64("order_id", order.ID),
			slog.Int64("customer_id", customer.ID),
		)
		return
	}

	n.logger.Error("order notification failed",
		slog.Int64("order_id", order.ID),
		slog.Int64("customer_id", customer.ID),
	)
}

// QueueNotifier hands the notification to a queue so delivery happens in a
// separate worker process. Swapping this in requires no change to the
// transactional workflow.
type QueueNotifier struct {
	queueClient queue.Client
	logger      *slog.Logger
}

// NewQueueNotifier creates an asynchronous notifier.
func NewQueueNotifier(queueClient queue.Client, logger *slog.Logger) *QueueNotifier {
	return &QueueNotifier{
		queueClient: queueClient,
		logger:      logger,
	}
}

// Notify publishes a notification job. Publish failure is absorbed: the
// order is already durable and must not be affected.
func (n *QueueNotifier) Notify(ctx context.Context, order *models.Order, customer *models.Customer) {
	job := &models.NotificationJob{OrderID: order.ID}

	if err := n.queueClient.Publish(ctx, job); err != nil {
		n.logger.Error("failed to queue order notification",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	n.logger.Info("order notification queued",
		slog.Int64("order_id", order.ID),
	)
}
