package handler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"

	"github.com/vietddude/faultcore/internal/core/domain"
	"github.com/vietddude/faultcore/internal/ledger"
	"github.com/vietddude/faultcore/internal/metrics"
	"github.com/vietddude/faultcore/internal/recovery"
)

// Callback receives every error report the handler creates. Callbacks run
// synchronously; a panic inside one is contained and logged.
type Callback func(*domain.ErrorReport)

// Handler is the process-wide fault orchestrator: it classifies faults,
// drives the recovery registry, records reports in the ledger, and fans out
// to notification callbacks.
type Handler struct {
	registry *recovery.Registry
	ledger   *ledger.Ledger

	mu        sync.Mutex
	callbacks []Callback
	installed bool

	// exit is swapped out in tests; production uses os.Exit.
	exit func(code int)
}

// New creates a handler around the given registry and ledger.
func New(registry *recovery.Registry, led *ledger.Ledger) *Handler {
	return &Handler{
		registry: registry,
		ledger:   led,
		exit:     os.Exit,
	}
}

// Install marks the handler as the process fault owner. It is installed
// exactly once; repeated calls are no-ops.
func (h *Handler) Install() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.installed {
		slog.Warn("Fault handler already installed, ignoring")
		return
	}
	h.installed = true
	slog.Info("Global fault handler installed")
}

// Installed reports whether Install has run.
func (h *Handler) Installed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.installed
}

// AddStrategy registers a recovery strategy.
func (h *Handler) AddStrategy(s recovery.Strategy) {
	h.registry.Register(s)
}

// AddCallback registers a notification callback.
func (h *Handler) AddCallback(cb Callback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callbacks = append(h.callbacks, cb)
}

// Handle normalizes a fault, records it, and notifies callbacks.
func (h *Handler) Handle(fault error, errCtx map[string]any) *domain.ErrorReport {
	if fault == nil {
		return nil
	}
	app := domain.Wrap(fault)
	report := h.ledger.Create(app.Code, app.Code.DefaultSeverity(), app, mergeContext(app, errCtx), nil)
	h.notify(report)
	return report
}

// TryRecover offers the fault to the recovery registry. It returns the
// recovery result, or recovery.ErrNoRecovery when no strategy could help.
func (h *Handler) TryRecover(ctx context.Context, fault error, rctx *recovery.Context) (any, error) {
	return h.registry.Attempt(ctx, fault, rctx)
}

// Recovered records a panic that was contained at a request or goroutine
// boundary. The originating task is already abandoned, so the process keeps
// running; the report exists for visibility.
func (h *Handler) Recovered(v any, errCtx map[string]any) *domain.ErrorReport {
	report := h.ledger.Create(
		domain.CodeInternalError,
		domain.SeverityHigh,
		panicError(v),
		errCtx,
		map[string]any{"stack": string(debug.Stack())},
	)
	h.notify(report)
	return report
}

// Fatal records an uncaught synchronous fault and terminates the process.
// State after an escaped panic is unverifiable, so continuing risks
// corrupting subsequent requests.
func (h *Handler) Fatal(v any) {
	report := h.ledger.Create(
		domain.CodeInternalError,
		domain.SeverityCritical,
		panicError(v),
		nil,
		map[string]any{"stack": string(debug.Stack())},
	)
	h.notify(report)
	slog.Error("Uncaught fault, terminating", "report_id", report.ID, "panic", v)
	h.exit(1)
}

// RecoverFatal is deferred on the main goroutine to route escaped panics
// through Fatal.
func (h *Handler) RecoverFatal() {
	if v := recover(); v != nil {
		h.Fatal(v)
	}
}

// Go spawns a supervised goroutine. A panic inside fn is contained and
// reported; the process continues running.
func (h *Handler) Go(name string, fn func()) {
	go func() {
		defer func() {
			if v := recover(); v != nil {
				h.Recovered(v, map[string]any{"goroutine": name})
			}
		}()
		fn()
	}()
}

func (h *Handler) notify(report *domain.ErrorReport) {
	h.mu.Lock()
	callbacks := make([]Callback, len(h.callbacks))
	copy(callbacks, h.callbacks)
	h.mu.Unlock()

	for i, cb := range callbacks {
		func() {
			defer func() {
				if v := recover(); v != nil {
					metrics.CallbackFailures.Inc()
					slog.Error("Error callback panicked", "callback", i, "panic", v)
				}
			}()
			cb(report)
		}()
	}
}

func panicError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", v)
}

func mergeContext(app *domain.AppError, errCtx map[string]any) map[string]any {
	if len(app.Context) == 0 {
		return errCtx
	}
	merged := make(map[string]any, len(app.Context)+len(errCtx))
	for k, v := range app.Context {
		merged[k] = v
	}
	for k, v := range errCtx {
		merged[k] = v
	}
	return merged
}
