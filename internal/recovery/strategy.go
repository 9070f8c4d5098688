package recovery

import (
	"context"
	"errors"
	"time"
)

// ErrNoRecovery is the no-recovery signal: no strategy claimed the fault, or
// the committed strategy exhausted its retries.
var ErrNoRecovery = errors.New("no recovery available")

// Context carries per-fault request information into a strategy. Retry, when
// set by the caller, re-runs the failed operation once the underlying
// resource has been repaired.
type Context struct {
	RequestID string
	Service   string
	Metadata  map[string]any
	Retry     func(ctx context.Context) (any, error)
}

// Strategy is a pluggable policy that claims and repairs a class of fault.
type Strategy interface {
	// Name identifies the strategy in logs and metrics.
	Name() string

	// CanRecover reports whether this strategy claims the fault. It must be
	// a pure predicate with no side effects.
	CanRecover(err error) bool

	// Recover performs one recovery attempt. It must be safe to call again
	// after a failure.
	Recover(ctx context.Context, err error, rctx *Context) (any, error)

	// MaxRetries is the attempt budget for a committed strategy.
	MaxRetries() int

	// RetryDelay is the pause between attempts.
	RetryDelay() time.Duration
}

// Recovered is the result returned by infrastructure strategies when the
// resource was repaired but the caller supplied no operation to re-run.
type Recovered struct {
	Strategy string `json:"strategy"`
}
