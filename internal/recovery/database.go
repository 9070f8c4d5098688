package recovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/faultcore/internal/core/domain"
	"github.com/vietddude/faultcore/internal/infra/postgres"
)

// DatabaseStrategy recovers DATABASE_ERROR faults by verifying the postgres
// pool has healed, then re-running the failed operation when the caller
// provided one.
type DatabaseStrategy struct {
	db         *postgres.DB
	maxRetries int
	retryDelay time.Duration
}

// NewDatabaseStrategy creates the strategy. Zero retries/delay select the
// defaults (3 attempts, 1s apart).
func NewDatabaseStrategy(db *postgres.DB, maxRetries int, retryDelay time.Duration) *DatabaseStrategy {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelay <= 0 {
		retryDelay = 1 * time.Second
	}
	return &DatabaseStrategy{
		db:         db,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

func (s *DatabaseStrategy) Name() string { return "database-reconnect" }

func (s *DatabaseStrategy) CanRecover(err error) bool {
	var app *domain.AppError
	return errors.As(err, &app) && app.Code == domain.CodeDatabaseError
}

func (s *DatabaseStrategy) Recover(ctx context.Context, _ error, rctx *Context) (any, error) {
	if err := s.db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database still unreachable: %w", err)
	}
	if rctx != nil && rctx.Retry != nil {
		return rctx.Retry(ctx)
	}
	return Recovered{Strategy: s.Name()}, nil
}

func (s *DatabaseStrategy) MaxRetries() int { return s.maxRetries }

func (s *DatabaseStrategy) RetryDelay() time.Duration { return s.retryDelay }
