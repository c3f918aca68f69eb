package models

// Session item status values.
const (
	ItemStatusPending   = "pending"
	ItemStatusCompleted = "completed"
)

// SessionItem is an ancillary product charge attached to a session
// (snacks, extra controllers). Pending items are finalized when the
// session completes.
type SessionItem struct {
	ID        int64  `db:"id" json:"id"`
	SessionID int64  `db:"session_id" json:"session_id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	Quantity  int    `db:"quantity" json:"quantity"`
	Status    string `db:"status" json:"status"`
}
