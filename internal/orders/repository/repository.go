// Package repository stores checkout orders and their contact phones.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"checkout_phone_backend/platform/apperr"
)

// Order is a stored checkout order.
type Order struct {
	ID              uuid.UUID `db:"id"`
	Reference       string    `db:"reference"`
	BillingCountry  string    `db:"billing_country"`
	BillingPhone    string    `db:"billing_phone"`
	ShippingCountry string    `db:"shipping_country"`
	ShippingPhone   string    `db:"shipping_phone"`

	// Canonical numbers behind the display phones; empty when the phone was
	// never validated.
	BillingPhoneE164  string `db:"billing_phone_e164"`
	ShippingPhoneE164 string `db:"shipping_phone_e164"`

	Locale    string    `db:"locale"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CreateParams contains data for creating an order.
type CreateParams struct {
	Reference         string
	BillingCountry    string
	BillingPhone      string
	BillingPhoneE164  string
	ShippingCountry   string
	ShippingPhone     string
	ShippingPhoneE164 string
	Locale            string
}

// PhoneUpdate rewrites the stored phones of one order.
type PhoneUpdate struct {
	ID                uuid.UUID
	BillingPhone      string
	BillingPhoneE164  string
	ShippingPhone     string
	ShippingPhoneE164 string
}

// Repository persists orders.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Order, error)
	// ListAfter returns up to limit orders with an ID greater than after,
	// ordered by ID. Pass uuid.Nil to start from the beginning.
	ListAfter(ctx context.Context, after uuid.UUID, limit int) ([]Order, error)
	UpdatePhones(ctx context.Context, updates []PhoneUpdate) error
}

// PostgresRepository implements Repository with pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// New creates an orders repository.
func New(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Compile-time check that PostgresRepository implements Repository.
var _ Repository = (*PostgresRepository)(nil)

const orderColumns = `id, reference, billing_country, billing_phone, billing_phone_e164, shipping_country, shipping_phone, shipping_phone_e164, locale, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Reference, &o.BillingCountry, &o.BillingPhone, &o.BillingPhoneE164, &o.ShippingCountry, &o.ShippingPhone, &o.ShippingPhoneE164, &o.Locale, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// Create inserts a new order with a time-ordered ID.
func (r *PostgresRepository) Create(ctx context.Context, params CreateParams) (Order, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Order{}, fmt.Errorf("generate order id: %w", err)
	}

	order, err := scanOrder(r.pool.QueryRow(ctx, `
		INSERT INTO orders (id, reference, billing_country, billing_phone, billing_phone_e164, shipping_country, shipping_phone, shipping_phone_e164, locale)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+orderColumns,
		id, params.Reference,
		params.BillingCountry, params.BillingPhone, params.BillingPhoneE164,
		params.ShippingCountry, params.ShippingPhone, params.ShippingPhoneE164,
		params.Locale,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return Order{}, apperr.Conflict("order reference already exists").WithCode("duplicate_reference")
		}
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// ListAfter implements keyset pagination over order IDs.
func (r *PostgresRepository) ListAfter(ctx context.Context, after uuid.UUID, limit int) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id > $1
		ORDER BY id
		LIMIT $2
	`, after, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0, limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdatePhones applies all updates in one batch.
func (r *PostgresRepository) UpdatePhones(ctx context.Context, updates []PhoneUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(`
			UPDATE orders
			SET billing_phone = $2, billing_phone_e164 = $3,
			    shipping_phone = $4, shipping_phone_e164 = $5,
			    updated_at = now()
			WHERE id = $1
		`, u.ID, u.BillingPhone, u.BillingPhoneE164, u.ShippingPhone, u.ShippingPhoneE164)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("update order phones: %w", err)
	}
	return nil
}
