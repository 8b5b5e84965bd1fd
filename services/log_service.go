package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habitStopperAPI/internal/habitlog"
)

// LogService owns the daily-log records. Writes go through SetStatus, which
// upserts on the (user_id, date) natural key so "log today for the first
// time" and "correct today's earlier entry" are the same operation.
type LogService struct {
	db *pgxpool.Pool
}

func NewLogService(db *pgxpool.Pool) *LogService {
	return &LogService{db: db}
}

// ListLogs returns every log owned by the user behind clerkID. Order follows
// the date key; callers re-sort implicitly via grid position anyway.
func (s *LogService) ListLogs(ctx context.Context, clerkID string) ([]*habitlog.DailyLog, error) {
	userID, err := s.resolveUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT date, status
		FROM habit_logs
		WHERE user_id = $1
		ORDER BY date
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs: %w", err)
	}
	defer rows.Close()

	logs := []*habitlog.DailyLog{}
	for rows.Next() {
		entry := &habitlog.DailyLog{}
		if err := rows.Scan(&entry.Date, &entry.Status); err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read logs: %w", err)
	}

	return logs, nil
}

// SetStatus idempotently writes the record for (user, date). Concurrent
// writes for the same key serialize on the primary key at the store; the
// later commit wins and exactly one row survives. Input is validated before
// the store is touched.
func (s *LogService) SetStatus(ctx context.Context, clerkID string, date string, status habitlog.Status) (*habitlog.DailyLog, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be %q or %q", ErrInvalidArgument, habitlog.StatusSuccess, habitlog.StatusFailed)
	}

	userID, err := s.resolveUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	entry := &habitlog.DailyLog{}
	err = s.db.QueryRow(ctx, `
		INSERT INTO habit_logs (user_id, date, status, logged_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, date)
		DO UPDATE SET status = $3, logged_at = NOW()
		RETURNING date, status
	`, userID, date, status).Scan(&entry.Date, &entry.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to write log: %w", err)
	}

	return entry, nil
}

func (s *LogService) resolveUserID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrUserNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return userID, nil
}

// validateDate accepts exactly the canonical zero-padded "YYYY-MM-DD" form.
func validateDate(date string) error {
	parsed, err := time.Parse(habitlog.DateLayout, date)
	if err != nil || parsed.Format(habitlog.DateLayout) != date {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidArgument)
	}
	return nil
}
