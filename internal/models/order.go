package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPaymentMethod is applied when a request omits payment_method.
const DefaultPaymentMethod = "M-Pesa"

// minAmount is the smallest accepted unit price.
var minAmount = decimal.RequireFromString("0.01")

// Order represents a customer order
type Order struct {
	ID            int64           `json:"id"`
	CustomerID    int64           `json:"customer_id"`
	Item          string          `json:"item"`
	Quantity      int             `json:"quantity"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderFilter holds filtering options for listing orders
type OrderFilter struct {
	CustomerID int64
	Page       int
	PageSize   int
}

// Validate checks order fields against the data-model invariants and
// reports every failing field. The customer reference is checked by the
// service against the store, not here.
func (o *Order) Validate() error {
	var fields []FieldError

	if o.CustomerID <= 0 {
		fields = append(fields, FieldError{Field: "customer_id", Reason: "customer_id is required"})
	}
	if o.Item == "" {
		fields = append(fields, FieldError{Field: "item", Reason: "item is required"})
	}
	if o.Quantity < 1 {
		fields = append(fields, FieldError{Field: "quantity", Reason: "quantity must be at least 1"})
	}
	if o.Amount.LessThan(minAmount) {
		fields = append(fields, FieldError{Field: "amount", Reason: "amount must be at least 0.01"})
	}

	if len(fields) > 0 {
		return ErrValidation(fields)
	}
	return nil
}

// NotificationJob is queued for asynchronous order-notification delivery.
type NotificationJob struct {
	OrderID int64 `json:"order_id"`
}
