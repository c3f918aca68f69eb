package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Alerter receives operator-facing escalations from the idle sweep.
type Alerter interface {
	Alert(consoleID string, consecutiveFailures int, err error)
}

// LogAlerter is the default Alerter, logging at error level.
type LogAlerter struct {
	Logger *zap.Logger
}

// Alert logs the escalation.
func (a *LogAlerter) Alert(consoleID string, consecutiveFailures int, err error) {
	a.Logger.Error("console power-off keeps failing, operator attention required",
		zap.String("console_id", consoleID),
		zap.Int("consecutive_failures", consecutiveFailures),
		zap.Error(err),
	)
}

// IdleMonitor powers down consoles left on while not rented. A single
// transient power-off failure is tolerated silently; the second consecutive
// failure (and every one after) escalates to the alerter. Success or an
// observed powered-off state resets the counter.
type IdleMonitor struct {
	consoles  ConsoleStore
	commander ConsoleCommander
	alerter   Alerter
	logger    *zap.Logger

	mu       sync.Mutex
	failures map[string]int
}

// NewIdleMonitor builds monitor.
func NewIdleMonitor(consoles ConsoleStore, commander ConsoleCommander, alerter Alerter, logger *zap.Logger) *IdleMonitor {
	return &IdleMonitor{
		consoles:  consoles,
		commander: commander,
		alerter:   alerter,
		logger:    logger,
		failures:  make(map[string]int),
	}
}

// RunCycle executes one idle sweep.
func (m *IdleMonitor) RunCycle(ctx context.Context) error {
	units, err := m.consoles.ListAutoShutdown(ctx)
	if err != nil {
		return err
	}

	for _, unit := range units {
		powered, err := m.commander.PowerStatus(ctx, unit)
		if err != nil {
			m.logger.Warn("idle sweep: status probe failed",
				zap.String("console_id", unit.ID),
				zap.Error(err),
			)
			continue
		}
		if !powered {
			m.reset(unit.ID)
			continue
		}

		if err := m.commander.PowerOff(ctx, unit); err != nil {
			n := m.recordFailure(unit.ID)
			m.logger.Warn("idle sweep: power-off failed",
				zap.String("console_id", unit.ID),
				zap.Int("consecutive_failures", n),
				zap.Error(err),
			)
			if n > 1 {
				m.alerter.Alert(unit.ID, n, err)
			}
			continue
		}

		m.logger.Info("idle sweep: console powered off", zap.String("console_id", unit.ID))
		m.reset(unit.ID)
	}
	return nil
}

func (m *IdleMonitor) recordFailure(consoleID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[consoleID]++
	return m.failures[consoleID]
}

func (m *IdleMonitor) reset(consoleID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures[consoleID] != 0 {
		delete(m.failures, consoleID)
	}
}
