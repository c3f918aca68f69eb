package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"playpoint/backend/services/rental-coordinator/internal/models"
)

// Change feed event names.
const (
	EventSessionCompleted = "session.completed"
)

// Finalizer drives a session through its terminal active -> completed
// transition: best-effort hardware power-off, status update, guarded console
// release, ancillary item finalization and a completion notification. The
// same path serves the timeout monitor, balance exhaustion and manual ends.
type Finalizer struct {
	sessions SessionStore
	consoles ConsoleStore
	items    ItemStore
	ledger   LedgerStore
	commands ConsoleCommander
	notifier Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewFinalizer builds finalizer.
func NewFinalizer(
	sessions SessionStore,
	consoles ConsoleStore,
	items ItemStore,
	ledger LedgerStore,
	commands ConsoleCommander,
	notifier Notifier,
	logger *zap.Logger,
) *Finalizer {
	return &Finalizer{
		sessions: sessions,
		consoles: consoles,
		items:    items,
		ledger:   ledger,
		commands: commands,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// Complete finalizes one session. Re-running against an already-completed
// session is a no-op. Only the status transition itself can fail the call;
// power-off, console release, item finalization and the notification are
// best-effort and merely logged.
func (f *Finalizer) Complete(ctx context.Context, session models.Session, reason string) error {
	_, err := f.complete(ctx, session, reason)
	return err
}

func (f *Finalizer) complete(ctx context.Context, session models.Session, reason string) (bool, error) {
	console, err := f.consoles.Get(ctx, session.ConsoleID)
	if err != nil {
		f.logger.Warn("finalize: console lookup failed, skipping power-off",
			zap.Int64("session_id", session.ID),
			zap.String("console_id", session.ConsoleID),
			zap.Error(err),
		)
	} else {
		f.commands.DispatchPowerOff(*console)
	}

	done, err := f.sessions.Complete(ctx, session.ID, f.now())
	if err != nil {
		return false, err
	}
	if !done {
		f.logger.Debug("finalize: session already completed", zap.Int64("session_id", session.ID))
		return false, nil
	}

	released, err := f.consoles.ReleaseIfUnused(ctx, session.ConsoleID)
	if err != nil {
		f.logger.Warn("finalize: console release failed",
			zap.String("console_id", session.ConsoleID),
			zap.Error(err),
		)
	} else if !released {
		f.logger.Info("finalize: console still in use, release skipped",
			zap.String("console_id", session.ConsoleID),
		)
	}

	if err := f.items.FinalizePending(ctx, session.ID); err != nil {
		f.logger.Warn("finalize: item finalization failed",
			zap.Int64("session_id", session.ID),
			zap.Error(err),
		)
	}

	if err := f.notifier.Publish(ctx, EventSessionCompleted, session.ID); err != nil {
		f.logger.Warn("finalize: completion notification failed",
			zap.Int64("session_id", session.ID),
			zap.Error(err),
		)
	}

	f.logger.Info("session completed",
		zap.Int64("session_id", session.ID),
		zap.String("console_id", session.ConsoleID),
		zap.String("reason", reason),
	)
	return true, nil
}

// CompleteExhausted finalizes a metered session whose balance ran out and
// appends the zero-amount closing ledger entry. The closing entry is written
// only when this call performed the status transition, so re-runs against an
// already-completed session add nothing.
func (f *Finalizer) CompleteExhausted(ctx context.Context, session models.Session, memberUID string) error {
	done, err := f.complete(ctx, session, "balance exhausted")
	if err != nil {
		return err
	}
	if !done {
		return nil
	}

	closing := &models.LedgerEntry{
		SessionID:     session.ID,
		MemberUID:     memberUID,
		Amount:        0,
		BalanceBefore: 0,
		BalanceAfter:  0,
		Note:          "session closed: balance exhausted",
	}
	if err := f.ledger.Insert(ctx, closing); err != nil {
		f.logger.Warn("finalize: closing ledger entry failed",
			zap.Int64("session_id", session.ID),
			zap.Error(err),
		)
	}
	return nil
}
