package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mwangikc/orderdesk/internal/models"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, int64, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id int64) error
}

// orderRepository implements OrderRepository using PostgreSQL
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts a new order. The store assigns id and created_at. A
// foreign-key violation means the customer disappeared between validation
// and write; it is surfaced as a conflict, not retried.
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (customer_id, item, quantity, amount, payment_method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		order.CustomerID,
		order.Item,
		order.Quantity,
		order.Amount,
		order.PaymentMethod,
	).Scan(&order.ID, &order.CreatedAt)

	if isPGError(err, pgForeignKeyViolation) {
		return models.ErrConflictWithMsg(
			fmt.Sprintf("customer %d no longer exists", order.CustomerID),
		)
	}
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by ID
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `
		SELECT id, customer_id, item, quantity, amount, payment_method, created_at
		FROM orders
		WHERE id = $1`

	order := &models.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerID,
		&order.Item,
		&order.Quantity,
		&order.Amount,
		&order.PaymentMethod,
		&order.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

// List retrieves orders with pagination, optionally filtered by customer
func (r *orderRepository) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, int64, error) {
	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	query := `
		SELECT id, customer_id, item, quantity, amount, payment_method, created_at
		FROM orders
		WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM orders WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.CustomerID > 0 {
		query += fmt.Sprintf(" AND customer_id = $%d", argPos)
		countQuery += fmt.Sprintf(" AND customer_id = $%d", argPos)
		args = append(args, filter.CustomerID)
		argPos++
	}

	var totalCount int64
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := models.CalculateOffset(filter.Page, filter.PageSize)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{}
		err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&order.Item,
			&order.Quantity,
			&order.Amount,
			&order.PaymentMethod,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, totalCount, nil
}

// Update replaces an existing order record. created_at is never mutated.
func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET customer_id = $1, item = $2, quantity = $3, amount = $4, payment_method = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(
		ctx,
		query,
		order.CustomerID,
		order.Item,
		order.Quantity,
		order.Amount,
		order.PaymentMethod,
		order.ID,
	)
	if isPGError(err, pgForeignKeyViolation) {
		return models.ErrConflictWithMsg(
			fmt.Sprintf("customer %d no longer exists", order.CustomerID),
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", order.ID))
	}

	return nil
}

// Delete removes an order
func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", id))
	}

	return nil
}
