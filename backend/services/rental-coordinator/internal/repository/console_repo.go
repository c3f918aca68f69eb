package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"playpoint/backend/services/rental-coordinator/internal/models"
)

// ConsoleRepository handles console lookups and the guarded status release.
type ConsoleRepository struct {
	db DB
}

// NewConsoleRepository returns repository.
func NewConsoleRepository(db DB) *ConsoleRepository {
	return &ConsoleRepository{db: db}
}

const consoleColumns = `id, name, status, min_billable_minutes, auto_shutdown, power_on_url, power_off_url, status_url`

// Get returns a single console.
func (r *ConsoleRepository) Get(ctx context.Context, id string) (*models.Console, error) {
	const query = `
		SELECT ` + consoleColumns + `
		FROM consoles
		WHERE id = $1
	`
	var c models.Console
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Status,
		&c.MinBillableMinutes,
		&c.AutoShutdown,
		&c.PowerOnURL,
		&c.PowerOffURL,
		&c.StatusURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConsoleNotFound
		}
		return nil, err
	}
	return &c, nil
}

// MinBillableMinutes batch-fetches the minimum billable minutes for the given
// console ids in one query.
func (r *ConsoleRepository) MinBillableMinutes(ctx context.Context, ids []string) (map[string]int, error) {
	if len(ids) == 0 {
		return map[string]int{}, nil
	}
	const query = `
		SELECT id, min_billable_minutes
		FROM consoles
		WHERE id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	minutes := make(map[string]int, len(ids))
	for rows.Next() {
		var id string
		var m int
		if err := rows.Scan(&id, &m); err != nil {
			return nil, err
		}
		minutes[id] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return minutes, nil
}

// ListAutoShutdown returns consoles eligible for the idle sweep: auto-shutdown
// enabled and not currently rented.
func (r *ConsoleRepository) ListAutoShutdown(ctx context.Context) ([]models.Console, error) {
	const query = `
		SELECT ` + consoleColumns + `
		FROM consoles
		WHERE auto_shutdown = true AND status <> 'rented'
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var consoles []models.Console
	for rows.Next() {
		var c models.Console
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Status,
			&c.MinBillableMinutes,
			&c.AutoShutdown,
			&c.PowerOnURL,
			&c.PowerOffURL,
			&c.StatusURL,
		); err != nil {
			return nil, err
		}
		consoles = append(consoles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return consoles, nil
}

// ReleaseIfUnused marks the console available only when no active session
// still references it. The predicate runs inside the statement so a console
// re-rented in the race window between read and write is left untouched.
func (r *ConsoleRepository) ReleaseIfUnused(ctx context.Context, id string) (bool, error) {
	const query = `
		UPDATE consoles
		SET status = 'available'
		WHERE id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM rental_sessions
			WHERE console_id = $1 AND status = 'active'
		  )
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
