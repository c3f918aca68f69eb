package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"playpoint/backend/services/rental-coordinator/internal/models"
)

// MemberRepository handles member balance reads and conditional deductions.
type MemberRepository struct {
	db DB
}

// NewMemberRepository returns repository.
func NewMemberRepository(db DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Get reads the member row fresh from the store.
func (r *MemberRepository) Get(ctx context.Context, uid string) (*models.Member, error) {
	const query = `
		SELECT uid, name, balance_points, status
		FROM members
		WHERE uid = $1
	`
	var m models.Member
	if err := r.db.QueryRow(ctx, query, uid).Scan(&m.UID, &m.Name, &m.BalancePoints, &m.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

// CASBalance sets the member balance to next, but only if it still equals
// observed. Returns false when the balance moved under us (zero rows
// affected); callers abandon the attempt and re-read next cycle.
func (r *MemberRepository) CASBalance(ctx context.Context, uid string, observed, next int64) (bool, error) {
	const query = `
		UPDATE members
		SET balance_points = $3
		WHERE uid = $1 AND balance_points = $2
	`
	tag, err := r.db.Exec(ctx, query, uid, observed, next)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
