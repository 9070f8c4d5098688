package recovery

import (
	"context"
	"errors"
	"time"

	"github.com/vietddude/faultcore/internal/core/domain"
)

// ExternalServiceStrategy recovers transient upstream faults
// (EXTERNAL_SERVICE_ERROR, PAYMENT_ERROR) by re-invoking the caller-supplied
// operation. Faults the classifier marks fatal are never claimed.
type ExternalServiceStrategy struct {
	maxRetries int
	retryDelay time.Duration
}

// NewExternalServiceStrategy creates the strategy. Zero retries/delay select
// the defaults (3 attempts, 2s apart).
func NewExternalServiceStrategy(maxRetries int, retryDelay time.Duration) *ExternalServiceStrategy {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelay <= 0 {
		retryDelay = 2 * time.Second
	}
	return &ExternalServiceStrategy{
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

func (s *ExternalServiceStrategy) Name() string { return "external-retry" }

func (s *ExternalServiceStrategy) CanRecover(err error) bool {
	var app *domain.AppError
	if !errors.As(err, &app) {
		return false
	}
	if app.Code != domain.CodeExternalServiceError && app.Code != domain.CodePaymentError {
		return false
	}
	if app.Cause != nil && Classify(app.Cause) == ActionFatal {
		return false
	}
	return true
}

func (s *ExternalServiceStrategy) Recover(ctx context.Context, err error, rctx *Context) (any, error) {
	if rctx == nil || rctx.Retry == nil {
		// Nothing to re-run; the fault stays unrecovered.
		return nil, errors.New("no retryable operation supplied")
	}
	return rctx.Retry(ctx)
}

func (s *ExternalServiceStrategy) MaxRetries() int { return s.maxRetries }

func (s *ExternalServiceStrategy) RetryDelay() time.Duration { return s.retryDelay }
