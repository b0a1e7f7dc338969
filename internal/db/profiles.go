package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moodmate/moodmate-backend/internal/quota"
)

// ProfileRepository handles profile database operations. It implements
// quota.Store.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// Get retrieves a profile by user ID.
func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query := `
		SELECT user_id, plan, premium_expires_at, daily_ai_calls, last_ai_calls_reset, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var p Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.Plan,
		&p.PremiumExpiresAt,
		&p.DailyAICalls,
		&p.LastAICallsReset,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return &p, nil
}

// State returns the quota counters for a user.
func (r *ProfileRepository) State(ctx context.Context, userID uuid.UUID) (quota.State, error) {
	p, err := r.Get(ctx, userID)
	if err != nil {
		return quota.State{}, err
	}
	return quota.State{
		Plan:             p.Plan,
		PremiumExpiresAt: p.PremiumExpiresAt,
		DailyCalls:       p.DailyAICalls,
		LastReset:        p.LastAICallsReset,
	}, nil
}

// Reset zeroes the daily counter for a new calendar day. The WHERE clause
// makes it idempotent: a concurrent request that already reset for day
// leaves the row untouched.
func (r *ProfileRepository) Reset(ctx context.Context, userID uuid.UUID, day time.Time) error {
	query := `
		UPDATE profiles
		SET daily_ai_calls = 0, last_ai_calls_reset = $2, updated_at = NOW()
		WHERE user_id = $1 AND (last_ai_calls_reset IS NULL OR last_ai_calls_reset < $2)
	`
	if _, err := r.pool.Exec(ctx, query, userID, day); err != nil {
		return fmt.Errorf("resetting daily calls: %w", err)
	}
	return nil
}

// Increment adds one to the daily counter. The single-statement update
// serializes concurrent increments at the row level; there is no
// read-modify-write to lose.
func (r *ProfileRepository) Increment(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE profiles
		SET daily_ai_calls = daily_ai_calls + 1, updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("incrementing daily calls: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Upgrade switches a profile to PREMIUM with the given expiry and zeroes
// the daily counter. Called only by the payment subsystem.
func (r *ProfileRepository) Upgrade(ctx context.Context, userID uuid.UUID, expiresAt time.Time) error {
	query := `
		UPDATE profiles
		SET plan = $2, premium_expires_at = $3, daily_ai_calls = 0, updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := r.pool.Exec(ctx, query, userID, quota.PlanPremium, expiresAt)
	if err != nil {
		return fmt.Errorf("upgrading profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
