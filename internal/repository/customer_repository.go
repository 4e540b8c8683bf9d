package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/mwangikc/orderdesk/internal/models"
)

// Postgres error codes surfaced by constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// isPGError reports whether err is a Postgres error with the given code.
func isPGError(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	GetByCode(ctx context.Context, code string) (*models.Customer, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int64, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id int64) error
}

// customerRepository implements CustomerRepository using PostgreSQL
type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Create inserts a new customer. The store assigns id and joined_at.
func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (name, code, email, phone, location)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, joined_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		customer.Name,
		customer.Code,
		customer.Email,
		customer.Phone,
		customer.Location,
	).Scan(&customer.ID, &customer.JoinedAt)

	if isPGError(err, pgUniqueViolation) {
		return models.ErrConflictWithMsg(fmt.Sprintf("customer with code %s already exists", customer.Code))
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by ID
func (r *customerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `
		SELECT id, name, code, email, phone, location, joined_at
		FROM customers
		WHERE id = $1`

	customer := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Code,
		&customer.Email,
		&customer.Phone,
		&customer.Location,
		&customer.JoinedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrCustomerNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// GetByCode retrieves a customer by its unique code
func (r *customerRepository) GetByCode(ctx context.Context, code string) (*models.Customer, error) {
	query := `
		SELECT id, name, code, email, phone, location, joined_at
		FROM customers
		WHERE code = $1`

	customer := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Code,
		&customer.Email,
		&customer.Phone,
		&customer.Location,
		&customer.JoinedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with code %s not found", code))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by code: %w", err)
	}

	return customer, nil
}

// Exists reports whether a customer with the given ID is present
func (r *customerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check customer existence: %w", err)
	}
	return exists, nil
}

// List retrieves customers with pagination and filtering
func (r *customerRepository) List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int64, error) {
	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	query := `
		SELECT id, name, code, email, phone, location, joined_at
		FROM customers
		WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM customers WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Phone != "" {
		query += fmt.Sprintf(" AND phone LIKE $%d", argPos)
		countQuery += fmt.Sprintf(" AND phone LIKE $%d", argPos)
		args = append(args, "%"+filter.Phone+"%")
		argPos++
	}

	if filter.Location != "" {
		query += fmt.Sprintf(" AND location = $%d", argPos)
		countQuery += fmt.Sprintf(" AND location = $%d", argPos)
		args = append(args, filter.Location)
		argPos++
	}

	var totalCount int64
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	offset := models.CalculateOffset(filter.Page, filter.PageSize)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		customer := &models.Customer{}
		err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Code,
			&customer.Email,
			&customer.Phone,
			&customer.Location,
			&customer.JoinedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, totalCount, nil
}

// Update replaces an existing customer record. joined_at is never mutated.
func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, code = $2, email = $3, phone = $4, location = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(
		ctx,
		query,
		customer.Name,
		customer.Code,
		customer.Email,
		customer.Phone,
		customer.Location,
		customer.ID,
	)
	if isPGError(err, pgUniqueViolation) {
		return models.ErrConflictWithMsg(fmt.Sprintf("customer with code %s already exists", customer.Code))
	}
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrCustomerNotFound(customer.ID)
	}

	return nil
}

// Delete removes a customer. Orders referencing it are removed by the
// ON DELETE CASCADE constraint on the orders table.
func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrCustomerNotFound(id)
	}

	return nil
}
