package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"playpoint/backend/services/rental-coordinator/internal/models"
)

// TimeoutMonitor finalizes fixed-duration sessions whose allotted time has
// elapsed. Due sessions are finalized in parallel with errors isolated per
// session.
type TimeoutMonitor struct {
	cache     SnapshotSource
	finalizer *Finalizer
	now       func() time.Time
	logger    *zap.Logger
}

// NewTimeoutMonitor builds monitor.
func NewTimeoutMonitor(cache SnapshotSource, finalizer *Finalizer, logger *zap.Logger) *TimeoutMonitor {
	return &TimeoutMonitor{
		cache:     cache,
		finalizer: finalizer,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// RunCycle executes one timeout pass.
func (m *TimeoutMonitor) RunCycle(ctx context.Context) error {
	now := m.now()

	var due []models.Session
	for _, s := range m.cache.Snapshot() {
		if s.Status != models.SessionStatusActive || !s.FixedDuration() {
			continue
		}
		if !now.Before(s.Deadline()) {
			due = append(due, s)
		}
	}
	if len(due) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	for _, s := range due {
		wg.Add(1)
		go func(session models.Session) {
			defer wg.Done()
			if err := m.finalizer.Complete(ctx, session, "allotted time elapsed"); err != nil {
				m.logger.Warn("timeout: session finalization failed",
					zap.Int64("session_id", session.ID),
					zap.Error(err),
				)
			}
		}(s)
	}
	wg.Wait()
	return nil
}
