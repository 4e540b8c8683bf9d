// Package sms sends order notifications through an external SMS gateway.
//
// The notification channel is strictly best-effort: every failure mode
// (bad phone number, transport error, auth error, timeout) is logged and
// collapsed to a false return. It never propagates an error to the caller,
// so an SMS outage can never block order processing.
package sms

import (
	"context"
	"log/slog"
	"time"

	"github.com/mwangikc/orderdesk/internal/metrics"
	"github.com/mwangikc/orderdesk/internal/phone"
)

// NotificationChannel delivers order notifications over SMS.
type NotificationChannel struct {
	gateway Gateway
	timeout time.Duration
	logger  *slog.Logger
}

// NewNotificationChannel creates a notification channel. timeout bounds each
// gateway call so a slow provider never hangs the request.
func NewNotificationChannel(gateway Gateway, timeout time.Duration, logger *slog.Logger) *NotificationChannel {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NotificationChannel{
		gateway: gateway,
		timeout: timeout,
		logger:  logger,
	}
}

// SendOrderNotification normalizes the destination phone and sends message
// through the gateway. It returns true iff at least one recipient entry in
// the gateway response reports a success status.
func (c *NotificationChannel) SendOrderNotification(ctx context.Context, rawPhone, message string) bool {
	normalized, err := phone.Normalize(rawPhone)
	if err != nil {
		c.logger.Warn("skipping notification, phone number invalid",
			slog.String("phone", rawPhone),
		)
		metrics.NotificationsFailed.Inc()
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.gateway.Send(ctx, normalized, message)
	if err != nil {
		c.logger.Error("sms gateway call failed",
			slog.String("phone", normalized),
			slog.String("error", err.Error()),
		)
		metrics.NotificationsFailed.Inc()
		return false
	}

	for _, recipient := range resp.MessageData.Recipients {
		if recipient.Status == RecipientStatusSuccess {
			metrics.NotificationsSent.Inc()
			return true
		}
	}

	c.logger.Warn("sms gateway accepted no recipients",
		slog.String("phone", normalized),
		slog.Int("recipients", len(resp.MessageData.Recipients)),
	)
	metrics.NotificationsFailed.Inc()
	return false
}
