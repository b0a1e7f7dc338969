package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlanRepository handles subscription plan database operations.
type PlanRepository struct {
	pool *pgxpool.Pool
}

// ListActive returns all active plans, cheapest first.
func (r *PlanRepository) ListActive(ctx context.Context) ([]Plan, error) {
	query := `
		SELECT code, name, price_kes, duration_days, active, created_at
		FROM plans
		WHERE active
		ORDER BY price_kes
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.Code, &p.Name, &p.PriceKES, &p.DurationDays, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

// GetActive retrieves an active plan by code.
func (r *PlanRepository) GetActive(ctx context.Context, code string) (*Plan, error) {
	query := `
		SELECT code, name, price_kes, duration_days, active, created_at
		FROM plans
		WHERE code = $1 AND active
	`
	var p Plan
	err := r.pool.QueryRow(ctx, query, code).Scan(&p.Code, &p.Name, &p.PriceKES, &p.DurationDays, &p.Active, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan: %w", err)
	}
	return &p, nil
}

// PaymentRepository handles payment database operations.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new payment record.
func (r *PaymentRepository) Create(ctx context.Context, payment *Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	query := `
		INSERT INTO payments (id, user_id, plan_code, amount_kes, currency, status, provider_reference, checkout_payload, webhook_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		payment.ID,
		payment.UserID,
		payment.PlanCode,
		payment.AmountKES,
		payment.Currency,
		payment.Status,
		payment.ProviderReference,
		payment.CheckoutPayload,
		payment.WebhookData,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}
	return nil
}

// Get retrieves a payment by ID.
func (r *PaymentRepository) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return r.getWhere(ctx, "id = $1", id)
}

// GetByProviderReference retrieves a payment by the provider's reference.
func (r *PaymentRepository) GetByProviderReference(ctx context.Context, ref string) (*Payment, error) {
	return r.getWhere(ctx, "provider_reference = $1", ref)
}

func (r *PaymentRepository) getWhere(ctx context.Context, where string, arg any) (*Payment, error) {
	query := `
		SELECT id, user_id, plan_code, amount_kes, currency, status, provider_reference, checkout_payload, webhook_data, created_at, updated_at
		FROM payments
		WHERE ` + where
	var p Payment
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&p.ID,
		&p.UserID,
		&p.PlanCode,
		&p.AmountKES,
		&p.Currency,
		&p.Status,
		&p.ProviderReference,
		&p.CheckoutPayload,
		&p.WebhookData,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying payment: %w", err)
	}
	return &p, nil
}

// ListForUser returns a user's payments, newest first.
func (r *PaymentRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Payment, error) {
	query := `
		SELECT id, user_id, plan_code, amount_kes, currency, status, provider_reference, checkout_payload, webhook_data, created_at, updated_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.PlanCode,
			&p.AmountKES,
			&p.Currency,
			&p.Status,
			&p.ProviderReference,
			&p.CheckoutPayload,
			&p.WebhookData,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}
	return payments, nil
}

// SetCheckout records the provider reference and raw checkout payload.
func (r *PaymentRepository) SetCheckout(ctx context.Context, id uuid.UUID, providerRef string, payload []byte) error {
	query := `
		UPDATE payments
		SET provider_reference = $2, checkout_payload = $3, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, providerRef, payload)
	if err != nil {
		return fmt.Errorf("updating payment checkout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus updates the payment status and stores the raw webhook data.
func (r *PaymentRepository) SetStatus(ctx context.Context, id uuid.UUID, status string, webhookData []byte) error {
	query := `
		UPDATE payments
		SET status = $2, webhook_data = $3, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, status, webhookData)
	if err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
