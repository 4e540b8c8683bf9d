package service

import (
	"github.com/shopspring/decimal"

	"github.com/mwangikc/orderdesk/internal/models"
)

// CreateCustomerRequest represents a request to create or replace a customer
type CreateCustomerRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone"`
	Location string `json:"location,omitempty"`
}

// ToCustomer builds the customer record from the request. Validation and
// phone normalization happen in the service.
func (r *CreateCustomerRequest) ToCustomer() *models.Customer {
	return &models.Customer{
		Name:     r.Name,
		Code:     r.Code,
		Email:    r.Email,
		Phone:    r.Phone,
		Location: r.Location,
	}
}

// CreateOrderRequest represents a request to create or replace an order.
// Quantity is a pointer so an omitted field defaults to 1 while an explicit
// zero still fails validation.
type CreateOrderRequest struct {
	CustomerID    int64           `json:"customer_id"`
	Item          string          `json:"item"`
	Quantity      *int            `json:"quantity,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
}

// ToOrder builds the order record from the request, applying defaults for
// omitted fields.
func (r *CreateOrderRequest) ToOrder() *models.Order {
	order := &models.Order{
		CustomerID:    r.CustomerID,
		Item:          r.Item,
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
	}
	if r.Quantity != nil {
		order.Quantity = *r.Quantity
	} else {
		order.Quantity = 1
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.DefaultPaymentMethod
	}
	return order
}

// OrderResult is the API representation of an order, including the derived
// total cost (never stored, computed on read).
type OrderResult struct {
	Order     *models.Order   `json:"order"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// OrderListResult represents paginated order list results
type OrderListResult struct {
	Data       []*OrderResult          `json:"data"`
	Pagination models.PaginationResult `json:"pagination"`
}

// CustomerListResult represents paginated customer list results
type CustomerListResult struct {
	Data       []*models.Customer      `json:"data"`
	Pagination models.PaginationResult `json:"pagination"`
}
