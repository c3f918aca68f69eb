package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"playpoint/backend/services/rental-coordinator/internal/cache"
	"playpoint/backend/services/rental-coordinator/internal/models"
)

// ErrSessionNotActive is returned when a manual end targets a session that is
// not currently active.
var ErrSessionNotActive = errors.New("session not active")

// FeedListener blocks consuming the store change feed until ctx is cancelled.
type FeedListener interface {
	Run(ctx context.Context)
}

// Intervals configures the periodic loops.
type Intervals struct {
	Billing time.Duration
	Timeout time.Duration
	Idle    time.Duration
}

// Coordinator is the long-lived owner of the three periodic loops (billing,
// timeout, idle) and the change-feed subscription. Each loop runs immediately
// on start, then on its interval; cancelling the start context tears
// everything down.
type Coordinator struct {
	billing   *BillingPoller
	timeout   *TimeoutMonitor
	idle      *IdleMonitor
	finalizer *Finalizer
	sessions  SessionStore
	cache     *cache.ActiveSessions
	listener  FeedListener
	intervals Intervals
	logger    *zap.Logger
}

// NewCoordinator builds coordinator.
func NewCoordinator(
	billing *BillingPoller,
	timeout *TimeoutMonitor,
	idle *IdleMonitor,
	finalizer *Finalizer,
	sessions SessionStore,
	sessionCache *cache.ActiveSessions,
	listener FeedListener,
	intervals Intervals,
	logger *zap.Logger,
) *Coordinator {
	if intervals.Billing <= 0 {
		intervals.Billing = 30 * time.Second
	}
	if intervals.Timeout <= 0 {
		intervals.Timeout = 30 * time.Second
	}
	if intervals.Idle <= 0 {
		intervals.Idle = 60 * time.Second
	}
	return &Coordinator{
		billing:   billing,
		timeout:   timeout,
		idle:      idle,
		finalizer: finalizer,
		sessions:  sessions,
		cache:     sessionCache,
		listener:  listener,
		intervals: intervals,
		logger:    logger,
	}
}

// Start launches the loops and the change-feed listener. It returns
// immediately; the loops stop when ctx is cancelled.
func (c *Coordinator) Start(ctx context.Context) {
	if err := c.cache.Refresh(ctx); err != nil {
		c.logger.Warn("initial session cache refresh failed", zap.Error(err))
	}

	go c.runEvery(ctx, "billing_cycle", c.intervals.Billing, c.billing.RunCycle)
	go c.runEvery(ctx, "timeout_check", c.intervals.Timeout, c.timeout.RunCycle)
	go c.runEvery(ctx, "idle_sweep", c.intervals.Idle, c.idle.RunCycle)

	if c.listener != nil {
		go c.listener.Run(ctx)
	}
}

func (c *Coordinator) runEvery(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	c.runOnce(ctx, name, fn)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("loop stopped", zap.String("loop", name))
			return
		case <-ticker.C:
			c.runOnce(ctx, name, fn)
		}
	}
}

func (c *Coordinator) runOnce(ctx context.Context, name string, fn func(context.Context) error) {
	start := time.Now()
	if err := fn(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Warn("cycle failed",
			zap.String("loop", name),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	c.logger.Debug("cycle done",
		zap.String("loop", name),
		zap.Duration("took", time.Since(start)),
	)
}

// ActiveSessions returns the read-only snapshot exposed to the rest of the
// application.
func (c *Coordinator) ActiveSessions() []models.Session {
	return c.cache.Snapshot()
}

// RefreshCache reloads the active-session cache on demand.
func (c *Coordinator) RefreshCache(ctx context.Context) error {
	return c.cache.Refresh(ctx)
}

// RunIdleSweep runs one idle-equipment sweep on demand.
func (c *Coordinator) RunIdleSweep(ctx context.Context) error {
	return c.idle.RunCycle(ctx)
}

// EndSession manually finalizes an active session.
func (c *Coordinator) EndSession(ctx context.Context, id int64) error {
	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if session.Status != models.SessionStatusActive {
		return ErrSessionNotActive
	}
	return c.finalizer.Complete(ctx, *session, "manual end")
}
