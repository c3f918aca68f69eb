package repository

import (
	"context"

	"playpoint/backend/services/rental-coordinator/internal/models"
)

// LedgerRepository appends deduction audit records. Entries are never updated
// or deleted.
type LedgerRepository struct {
	db DB
}

// NewLedgerRepository returns repository.
func NewLedgerRepository(db DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Insert appends a new ledger entry.
func (r *LedgerRepository) Insert(ctx context.Context, entry *models.LedgerEntry) error {
	const query = `
		INSERT INTO ledger_entries (session_id, member_uid, amount, balance_before, balance_after, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query,
		entry.SessionID,
		entry.MemberUID,
		entry.Amount,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt)
}
