package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mwangikc/orderdesk/internal/models"
	"github.com/mwangikc/orderdesk/internal/phone"
	"github.com/mwangikc/orderdesk/internal/repository"
)

// CustomerService handles customer business logic
type CustomerService interface {
	Create(ctx context.Context, req *CreateCustomerRequest) (*models.Customer, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	List(ctx context.Context, filter models.CustomerFilter) (*CustomerListResult, error)
	Update(ctx context.Context, id int64, req *CreateCustomerRequest) (*models.Customer, error)
	Delete(ctx context.Context, id int64) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	logger       *slog.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	logger *slog.Logger,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// prepare validates the customer and normalizes its phone for storage.
// Every failing field is reported, including an unparseable phone.
func (s *customerService) prepare(customer *models.Customer) error {
	err := customer.Validate()

	var fields []models.FieldError
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok {
			fields = appErr.Fields
		} else {
			return err
		}
	}

	if customer.Phone != "" {
		normalized, phoneErr := phone.Normalize(customer.Phone)
		if phoneErr != nil {
			fields = append(fields, models.FieldError{
				Field:  "phone",
				Reason: "phone must be a valid Kenyan number",
			})
		} else {
			customer.Phone = normalized
		}
	}

	if len(fields) > 0 {
		return models.ErrValidation(fields)
	}
	return nil
}

// Create validates, normalizes and persists a new customer
func (s *customerService) Create(ctx context.Context, req *CreateCustomerRequest) (*models.Customer, error) {
	customer := req.ToCustomer()

	if err := s.prepare(customer); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		s.logger.Error("failed to create customer",
			slog.String("code", customer.Code),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("customer created",
		slog.Int64("customer_id", customer.ID),
		slog.String("code", customer.Code),
		slog.String("phone", customer.Phone),
	)

	return customer, nil
}

// GetByID retrieves a customer by ID
func (s *customerService) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

// List retrieves customers with pagination
func (s *customerService) List(ctx context.Context, filter models.CustomerFilter) (*CustomerListResult, error) {
	customers, totalCount, err := s.customerRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)
	pagination := models.NewPaginationResult(filter.Page, filter.PageSize, totalCount)

	return &CustomerListResult{
		Data:       customers,
		Pagination: pagination,
	}, nil
}

// Update replaces an existing customer record
func (s *customerService) Update(ctx context.Context, id int64, req *CreateCustomerRequest) (*models.Customer, error) {
	customer := req.ToCustomer()
	customer.ID = id

	if err := s.prepare(customer); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		s.logger.Error("failed to update customer",
			slog.Int64("customer_id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("customer updated",
		slog.Int64("customer_id", id),
	)

	return s.customerRepo.GetByID(ctx, id)
}

// Delete removes a customer; its orders are removed by the store cascade
func (s *customerService) Delete(ctx context.Context, id int64) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete customer",
			slog.Int64("customer_id", id),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("customer deleted",
		slog.Int64("customer_id", id),
	)

	return nil
}
