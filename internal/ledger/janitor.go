package ledger

import (
	"context"
	"log/slog"
	"time"
)

// Janitor evicts old reports based on the retention policy.
type Janitor struct {
	ledger    *Ledger
	retention time.Duration
}

// NewJanitor creates a new Janitor worker.
func NewJanitor(ledger *Ledger, retention time.Duration) *Janitor {
	return &Janitor{
		ledger:    ledger,
		retention: retention,
	}
}

// Start runs the sweep loop.
func (j *Janitor) Start(ctx context.Context) {
	if j.retention <= 0 {
		return // Retention disabled
	}

	// Check interval: 10% of retention, clamped to [1m, 1h]
	interval := min(j.retention/10, 1*time.Hour)
	interval = max(interval, 1*time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := j.ledger.ClearOld(j.retention); removed > 0 {
				slog.Info("Swept old error reports", "removed", removed, "retention", j.retention)
			}
		}
	}
}
