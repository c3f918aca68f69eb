package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"playpoint/backend/services/rental-coordinator/internal/models"
)

// SessionRepository handles persistence of rental sessions.
type SessionRepository struct {
	db DB
}

// NewSessionRepository returns repository.
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, console_id, member_uid, status, payment_status, start_time, end_time, duration_minutes, hourly_rate, per_minute_rate, accumulated_deducted, created_at, updated_at`

func scanSession(row pgx.Row, s *models.Session) error {
	return row.Scan(
		&s.ID,
		&s.ConsoleID,
		&s.MemberUID,
		&s.Status,
		&s.PaymentStatus,
		&s.StartTime,
		&s.EndTime,
		&s.DurationMinutes,
		&s.HourlyRate,
		&s.PerMinuteRate,
		&s.AccumulatedDeducted,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
}

// ListActive returns all currently active sessions.
func (r *SessionRepository) ListActive(ctx context.Context) ([]models.Session, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM rental_sessions
		WHERE status = 'active'
		ORDER BY start_time
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := scanSession(rows, &s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetByID returns a single session.
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM rental_sessions
		WHERE id = $1
	`
	var s models.Session
	if err := scanSession(r.db.QueryRow(ctx, query, id), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// AccumulatedDeducted reads the authoritative billed-so-far counter fresh
// from the store.
func (r *SessionRepository) AccumulatedDeducted(ctx context.Context, id int64) (int64, error) {
	const query = `
		SELECT accumulated_deducted
		FROM rental_sessions
		WHERE id = $1
	`
	var acc int64
	if err := r.db.QueryRow(ctx, query, id).Scan(&acc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	return acc, nil
}

// CASAccumulatedDeducted advances the billed-so-far counter to next, but only
// if it still equals observed. Returns false when another writer got there
// first (zero rows affected).
func (r *SessionRepository) CASAccumulatedDeducted(ctx context.Context, id int64, observed, next int64) (bool, error) {
	const query = `
		UPDATE rental_sessions
		SET accumulated_deducted = $3,
		    updated_at = NOW()
		WHERE id = $1 AND accumulated_deducted = $2
	`
	tag, err := r.db.Exec(ctx, query, id, observed, next)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Complete transitions the session active -> completed. Returns false when the
// session was already completed, which is a harmless no-op for callers.
func (r *SessionRepository) Complete(ctx context.Context, id int64, endTime time.Time) (bool, error) {
	const query = `
		UPDATE rental_sessions
		SET status = 'completed',
		    end_time = $2,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`
	tag, err := r.db.Exec(ctx, query, id, endTime)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
