package service

import (
	"context"
	"time"

	"playpoint/backend/services/rental-coordinator/internal/models"
)

// Store interfaces consumed by the coordinator services. The repository
// package provides the postgres implementations; tests substitute fakes.

// SessionStore reads and conditionally mutates rental sessions.
type SessionStore interface {
	ListActive(ctx context.Context) ([]models.Session, error)
	GetByID(ctx context.Context, id int64) (*models.Session, error)
	AccumulatedDeducted(ctx context.Context, id int64) (int64, error)
	CASAccumulatedDeducted(ctx context.Context, id int64, observed, next int64) (bool, error)
	Complete(ctx context.Context, id int64, endTime time.Time) (bool, error)
}

// MemberStore reads member balances and applies conditional deductions.
type MemberStore interface {
	Get(ctx context.Context, uid string) (*models.Member, error)
	CASBalance(ctx context.Context, uid string, observed, next int64) (bool, error)
}

// ConsoleStore reads consoles and applies the guarded status release.
type ConsoleStore interface {
	Get(ctx context.Context, id string) (*models.Console, error)
	MinBillableMinutes(ctx context.Context, ids []string) (map[string]int, error)
	ListAutoShutdown(ctx context.Context) ([]models.Console, error)
	ReleaseIfUnused(ctx context.Context, id string) (bool, error)
}

// LedgerStore appends audit entries.
type LedgerStore interface {
	Insert(ctx context.Context, entry *models.LedgerEntry) error
}

// ItemStore finalizes ancillary product charges.
type ItemStore interface {
	FinalizePending(ctx context.Context, sessionID int64) error
}

// SettingsStore persists coordinator key/value settings.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Notifier publishes change events for other instances.
type Notifier interface {
	Publish(ctx context.Context, event string, sessionID int64) error
}

// ConsoleCommander issues hardware power commands.
type ConsoleCommander interface {
	PowerOff(ctx context.Context, console models.Console) error
	PowerStatus(ctx context.Context, console models.Console) (bool, error)
	DispatchPowerOff(console models.Console)
}
