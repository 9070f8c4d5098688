package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/faultcore/internal/metrics"
)

// Registry holds recovery strategies in registration order and drives the
// single-strategy-commit recovery algorithm.
type Registry struct {
	mu         sync.RWMutex
	strategies []Strategy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a strategy. Registration order is dispatch order.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = append(r.strategies, s)
	slog.Info("Recovery strategy registered", "strategy", s.Name(), "position", len(r.strategies))
}

// Attempt tries to recover from a fault. The first strategy whose CanRecover
// returns true is committed to: it gets up to MaxRetries attempts with
// RetryDelay between them, and no later strategy is tried even if it
// exhausts. With no claimant, ErrNoRecovery is returned without invoking any
// strategy.
func (r *Registry) Attempt(ctx context.Context, fault error, rctx *Context) (any, error) {
	r.mu.RLock()
	candidates := make([]Strategy, len(r.strategies))
	copy(candidates, r.strategies)
	r.mu.RUnlock()

	var committed Strategy
	for _, s := range candidates {
		if s.CanRecover(fault) {
			committed = s
			break
		}
	}
	if committed == nil {
		return nil, ErrNoRecovery
	}

	retries := committed.MaxRetries()
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		result, err := committed.Recover(ctx, fault, rctx)
		if err == nil {
			metrics.RecoveryAttempts.WithLabelValues(committed.Name(), "success").Inc()
			slog.Info("Recovery succeeded",
				"strategy", committed.Name(),
				"attempt", attempt,
			)
			return result, nil
		}
		lastErr = err
		metrics.RecoveryAttempts.WithLabelValues(committed.Name(), "failure").Inc()
		slog.Warn("Recovery attempt failed",
			"strategy", committed.Name(),
			"attempt", attempt,
			"max_retries", retries,
			"error", err,
		)

		if attempt < retries {
			if err := sleep(ctx, committed.RetryDelay()); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("strategy %s exhausted %d attempts: %v: %w",
		committed.Name(), retries, lastErr, ErrNoRecovery)
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
