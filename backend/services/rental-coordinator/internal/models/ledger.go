package models

import "time"

// LedgerEntry is an immutable audit record of one deduction or finalization
// event. Entries are only ever inserted.
type LedgerEntry struct {
	ID            int64     `db:"id" json:"id"`
	SessionID     int64     `db:"session_id" json:"session_id"`
	MemberUID     string    `db:"member_uid" json:"member_uid"`
	Amount        int64     `db:"amount" json:"amount"`
	BalanceBefore int64     `db:"balance_before" json:"balance_before"`
	BalanceAfter  int64     `db:"balance_after" json:"balance_after"`
	Note          string    `db:"note" json:"note"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
