package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"playpoint/backend/services/rental-coordinator/internal/models"
)

// SnapshotSource yields the cached active-session working set.
type SnapshotSource interface {
	Snapshot() []models.Session
}

// BillingPoller applies usage-based deductions to metered sessions. Every
// cycle it recomputes the expected charge per session and advances the two
// contended counters (member balance, accumulated deduction) through
// compare-and-set updates. A lost CAS is abandoned, never retried within the
// cycle; the next cycle re-reads fresh state and re-decides.
type BillingPoller struct {
	arbiter   *Arbiter
	cache     SnapshotSource
	sessions  SessionStore
	members   MemberStore
	consoles  ConsoleStore
	ledger    LedgerStore
	finalizer *Finalizer
	now       func() time.Time
	logger    *zap.Logger
}

// NewBillingPoller builds poller.
func NewBillingPoller(
	arbiter *Arbiter,
	cache SnapshotSource,
	sessions SessionStore,
	members MemberStore,
	consoles ConsoleStore,
	ledger LedgerStore,
	finalizer *Finalizer,
	logger *zap.Logger,
) *BillingPoller {
	return &BillingPoller{
		arbiter:   arbiter,
		cache:     cache,
		sessions:  sessions,
		members:   members,
		consoles:  consoles,
		ledger:    ledger,
		finalizer: finalizer,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// RunCycle executes one billing pass. When this instance is not the
// designated billing writer the cycle performs no reads-for-mutation and no
// writes at all.
func (p *BillingPoller) RunCycle(ctx context.Context) error {
	authorized, err := p.arbiter.IsAuthorized(ctx)
	if err != nil {
		return fmt.Errorf("billing: authorization check: %w", err)
	}
	if !authorized {
		p.logger.Debug("billing cycle skipped: instance not authorized")
		return nil
	}

	var metered []models.Session
	for _, s := range p.cache.Snapshot() {
		if s.Metered() {
			metered = append(metered, s)
		}
	}
	if len(metered) == 0 {
		return nil
	}

	minutes, err := p.consoles.MinBillableMinutes(ctx, distinctConsoleIDs(metered))
	if err != nil {
		return fmt.Errorf("billing: batch min-billable fetch: %w", err)
	}

	for _, s := range metered {
		if err := p.billSession(ctx, s, minutes[s.ConsoleID]); err != nil {
			p.logger.Warn("billing: session skipped this cycle",
				zap.Int64("session_id", s.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (p *BillingPoller) billSession(ctx context.Context, s models.Session, minBillable int) error {
	if s.HourlyRate <= 0 && s.PerMinuteRate <= 0 {
		return fmt.Errorf("billing: session %d has no rate snapshot", s.ID)
	}

	expected := ExpectedCharge(p.now(), *s.StartTime, s.HourlyRate, s.PerMinuteRate, minBillable)
	if expected <= 0 {
		return nil
	}

	// Authoritative counters are always re-read fresh, never trusted from
	// the cache.
	acc, err := p.sessions.AccumulatedDeducted(ctx, s.ID)
	if err != nil {
		return err
	}
	member, err := p.members.Get(ctx, *s.MemberUID)
	if err != nil {
		return err
	}

	delta := expected - acc
	if delta <= 0 {
		return nil
	}
	if member.Status != models.MemberStatusActive {
		p.logger.Debug("billing: member not active, skipping",
			zap.Int64("session_id", s.ID),
			zap.String("member_uid", member.UID),
			zap.String("status", member.Status),
		)
		return nil
	}

	balance := member.BalancePoints
	if balance == 0 {
		return p.finalizer.CompleteExhausted(ctx, s, member.UID)
	}

	deduct := delta
	exhausted := false
	if delta > balance {
		deduct = balance
		exhausted = true
	}

	ok, err := p.members.CASBalance(ctx, member.UID, balance, balance-deduct)
	if err != nil {
		return err
	}
	if !ok {
		p.logger.Debug("billing: balance moved, attempt abandoned",
			zap.Int64("session_id", s.ID),
			zap.String("member_uid", member.UID),
		)
		return nil
	}

	ok, err = p.sessions.CASAccumulatedDeducted(ctx, s.ID, acc, acc+deduct)
	if err != nil || !ok {
		// Another writer advanced the counter between our read and write.
		// Compensate by restoring the balance we just took, then abandon.
		restored, restoreErr := p.members.CASBalance(ctx, member.UID, balance-deduct, balance)
		if restoreErr != nil || !restored {
			p.logger.Error("billing: balance compensation failed, next cycle re-reads fresh state",
				zap.Int64("session_id", s.ID),
				zap.String("member_uid", member.UID),
				zap.Int64("amount", deduct),
				zap.Error(restoreErr),
			)
		}
		return err
	}

	entry := &models.LedgerEntry{
		SessionID:     s.ID,
		MemberUID:     member.UID,
		Amount:        deduct,
		BalanceBefore: balance,
		BalanceAfter:  balance - deduct,
		Note:          "usage deduction",
	}
	if err := p.ledger.Insert(ctx, entry); err != nil {
		p.logger.Warn("billing: ledger append failed",
			zap.Int64("session_id", s.ID),
			zap.Error(err),
		)
	}

	p.logger.Info("billing: deduction applied",
		zap.Int64("session_id", s.ID),
		zap.String("member_uid", member.UID),
		zap.Int64("amount", deduct),
		zap.Int64("balance_after", balance-deduct),
	)

	if exhausted {
		return p.finalizer.CompleteExhausted(ctx, s, member.UID)
	}
	return nil
}

func distinctConsoleIDs(sessions []models.Session) []string {
	seen := make(map[string]struct{}, len(sessions))
	var ids []string
	for _, s := range sessions {
		if _, ok := seen[s.ConsoleID]; ok {
			continue
		}
		seen[s.ConsoleID] = struct{}{}
		ids = append(ids, s.ConsoleID)
	}
	return ids
}
