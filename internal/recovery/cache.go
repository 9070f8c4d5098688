package recovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/faultcore/internal/core/domain"
	redisclient "github.com/vietddude/faultcore/internal/infra/redis"
)

// CacheStrategy recovers CACHE_ERROR faults by checking redis connectivity
// and re-running the failed operation against the healed cache.
type CacheStrategy struct {
	client     *redisclient.Client
	maxRetries int
	retryDelay time.Duration
}

// NewCacheStrategy creates the strategy. Zero retries/delay select the
// defaults (2 attempts, 500ms apart).
func NewCacheStrategy(client *redisclient.Client, maxRetries int, retryDelay time.Duration) *CacheStrategy {
	if maxRetries <= 0 {
		maxRetries = 2
	}
	if retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}
	return &CacheStrategy{
		client:     client,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

func (s *CacheStrategy) Name() string { return "cache-reconnect" }

func (s *CacheStrategy) CanRecover(err error) bool {
	var app *domain.AppError
	return errors.As(err, &app) && app.Code == domain.CodeCacheError
}

func (s *CacheStrategy) Recover(ctx context.Context, _ error, rctx *Context) (any, error) {
	if err := s.client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("cache still unreachable: %w", err)
	}
	if rctx != nil && rctx.Retry != nil {
		return rctx.Retry(ctx)
	}
	return Recovered{Strategy: s.Name()}, nil
}

func (s *CacheStrategy) MaxRetries() int { return s.maxRetries }

func (s *CacheStrategy) RetryDelay() time.Duration { return s.retryDelay }
