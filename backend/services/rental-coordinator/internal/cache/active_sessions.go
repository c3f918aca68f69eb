package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"playpoint/backend/services/rental-coordinator/internal/models"
)

// SessionLister loads active sessions from the store.
type SessionLister interface {
	ListActive(ctx context.Context) ([]models.Session, error)
}

// ActiveSessions is the in-memory snapshot of currently active sessions the
// periodic monitors read each cycle. It is purely a working set: billing
// decisions always re-read authoritative counters from the store.
type ActiveSessions struct {
	repo   SessionLister
	logger *zap.Logger

	mu          sync.RWMutex
	sessions    []models.Session
	refreshedAt time.Time
}

// NewActiveSessions builds an empty cache.
func NewActiveSessions(repo SessionLister, logger *zap.Logger) *ActiveSessions {
	return &ActiveSessions{repo: repo, logger: logger}
}

// Refresh reloads the snapshot from the store.
func (c *ActiveSessions) Refresh(ctx context.Context) error {
	sessions, err := c.repo.ListActive(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.sessions = sessions
	c.refreshedAt = time.Now().UTC()
	c.mu.Unlock()

	c.logger.Debug("active session cache refreshed", zap.Int("count", len(sessions)))
	return nil
}

// Snapshot returns a copy of the cached sessions.
func (c *ActiveSessions) Snapshot() []models.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Session, len(c.sessions))
	copy(out, c.sessions)
	return out
}

// RefreshedAt reports when the snapshot was last reloaded.
func (c *ActiveSessions) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}
