package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"artschool-backend/internal/model"
)

type ProgressRepository struct {
	pool *pgxpool.Pool
}

func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// Upsert writes the completion flag for (userID, lessonID), creating the
// record on first report. The unique constraint makes this idempotent.
func (r *ProgressRepository) Upsert(ctx context.Context, userID int64, lessonID int, isCompleted bool) error {
	completed := int16(0)
	if isCompleted {
		completed = 1
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_progress (user_id, lesson_id, is_completed)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, lesson_id) DO UPDATE SET is_completed = EXCLUDED.is_completed`,
		userID, lessonID, completed)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID int64) ([]model.ProgressRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, lesson_id, is_completed
		 FROM user_progress WHERE user_id = $1 ORDER BY lesson_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	records := make([]model.ProgressRecord, 0)
	for rows.Next() {
		var rec model.ProgressRecord
		var completed int16
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.LessonID, &completed); err != nil {
			return nil, fmt.Errorf("scan progress record: %w", err)
		}
		rec.IsCompleted = completed != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CompletedCountsByUser returns, for every user with at least one completed
// lesson, how many lessons they completed. Users absent from the map have
// completed none.
func (r *ProgressRepository) CompletedCountsByUser(ctx context.Context) (map[int64]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, COUNT(*)
		 FROM user_progress WHERE is_completed <> 0
		 GROUP BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("count completed lessons: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var count int
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, fmt.Errorf("scan completed count: %w", err)
		}
		counts[userID] = count
	}
	return counts, rows.Err()
}
