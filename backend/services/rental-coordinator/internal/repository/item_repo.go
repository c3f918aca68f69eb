package repository

import "context"

// ItemRepository finalizes ancillary product charges attached to a session.
type ItemRepository struct {
	db DB
}

// NewItemRepository returns repository.
func NewItemRepository(db DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// FinalizePending decrements product stock for this session's pending line
// items and marks them completed. The stock update runs first so a failure in
// either statement leaves items pending for a later retry.
func (r *ItemRepository) FinalizePending(ctx context.Context, sessionID int64) error {
	const stockQuery = `
		UPDATE products p
		SET stock = p.stock - si.quantity
		FROM session_items si
		WHERE si.product_id = p.id
		  AND si.session_id = $1
		  AND si.status = 'pending'
	`
	if _, err := r.db.Exec(ctx, stockQuery, sessionID); err != nil {
		return err
	}

	const itemsQuery = `
		UPDATE session_items
		SET status = 'completed'
		WHERE session_id = $1 AND status = 'pending'
	`
	_, err := r.db.Exec(ctx, itemsQuery, sessionID)
	return err
}
