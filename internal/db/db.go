// Package db provides PostgreSQL database access for the MoodMate backend.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Common errors.
var (
	ErrNotFound = errors.New("not found")
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Pool returns the underlying connection pool for advanced operations.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Users returns a UserRepository.
func (db *DB) Users() *UserRepository {
	return &UserRepository{pool: db.pool}
}

// Profiles returns a ProfileRepository.
func (db *DB) Profiles() *ProfileRepository {
	return &ProfileRepository{pool: db.pool}
}

// MoodLogs returns a MoodLogRepository.
func (db *DB) MoodLogs() *MoodLogRepository {
	return &MoodLogRepository{pool: db.pool}
}

// Plans returns a PlanRepository.
func (db *DB) Plans() *PlanRepository {
	return &PlanRepository{pool: db.pool}
}

// Payments returns a PaymentRepository.
func (db *DB) Payments() *PaymentRepository {
	return &PaymentRepository{pool: db.pool}
}

// RecordAnalysis persists a mood log entry and consumes one quota unit in
// a single transaction, so a failed insert cannot charge the user and a
// concurrent request cannot slip past the daily ceiling unaccounted.
func (db *DB) RecordAnalysis(ctx context.Context, entry *MoodLog) (uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE profiles
		SET daily_ai_calls = daily_ai_calls + 1, updated_at = NOW()
		WHERE user_id = $1
	`, entry.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("incrementing daily calls: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return uuid.Nil, ErrNotFound
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO mood_logs (id, user_id, mood, intensity, note, detected_emotion, detected_confidence, advice, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`,
		entry.ID,
		entry.UserID,
		entry.Mood,
		entry.Intensity,
		entry.Note,
		entry.DetectedEmotion,
		entry.DetectedConfidence,
		entry.Advice,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting mood log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("committing transaction: %w", err)
	}
	return entry.ID, nil
}
