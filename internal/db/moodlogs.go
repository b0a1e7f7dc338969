package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MoodLogRepository handles mood log database operations.
type MoodLogRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new mood log entry.
func (r *MoodLogRepository) Create(ctx context.Context, entry *MoodLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := `
		INSERT INTO mood_logs (id, user_id, mood, intensity, note, detected_emotion, detected_confidence, advice, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
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
		return fmt.Errorf("inserting mood log: %w", err)
	}
	return nil
}

// Get retrieves a mood log entry owned by userID.
func (r *MoodLogRepository) Get(ctx context.Context, userID, id uuid.UUID) (*MoodLog, error) {
	query := `
		SELECT id, user_id, mood, intensity, note, detected_emotion, detected_confidence, advice, created_at
		FROM mood_logs
		WHERE id = $1 AND user_id = $2
	`
	var entry MoodLog
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Mood,
		&entry.Intensity,
		&entry.Note,
		&entry.DetectedEmotion,
		&entry.DetectedConfidence,
		&entry.Advice,
		&entry.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying mood log: %w", err)
	}
	return &entry, nil
}

// ListForUser returns a user's mood logs, newest first.
func (r *MoodLogRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]MoodLog, error) {
	query := `
		SELECT id, user_id, mood, intensity, note, detected_emotion, detected_confidence, advice, created_at
		FROM mood_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying mood logs: %w", err)
	}
	defer rows.Close()

	var entries []MoodLog
	for rows.Next() {
		var entry MoodLog
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Mood,
			&entry.Intensity,
			&entry.Note,
			&entry.DetectedEmotion,
			&entry.DetectedConfidence,
			&entry.Advice,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning mood log: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mood logs: %w", err)
	}
	return entries, nil
}

// Delete removes a mood log entry owned by userID.
func (r *MoodLogRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM mood_logs WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deleting mood log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
