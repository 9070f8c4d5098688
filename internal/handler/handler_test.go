package handler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vietddude/faultcore/internal/core/domain"
	"github.com/vietddude/faultcore/internal/ledger"
	"github.com/vietddude/faultcore/internal/recovery"
)

func newTestHandler() *Handler {
	return New(recovery.NewRegistry(), ledger.New(0))
}

// =============================================================================
// Install Tests
// =============================================================================

func TestInstall_Idempotent(t *testing.T) {
	h := newTestHandler()

	h.Install()
	if !h.Installed() {
		t.Fatal("handler should be installed")
	}

	h.Install() // must be a no-op, not a panic or reset
	if !h.Installed() {
		t.Error("second install must not uninstall")
	}
}

// =============================================================================
// Handle Tests
// =============================================================================

func TestHandle_CreatesReportAndNotifies(t *testing.T) {
	h := newTestHandler()

	var got *domain.ErrorReport
	h.AddCallback(func(r *domain.ErrorReport) { got = r })

	report := h.Handle(domain.NewDatabaseError("query", errors.New("timeout")), map[string]any{
		"requestId": "req-1",
	})

	if report == nil {
		t.Fatal("expected a report")
	}
	if report.Type != domain.CodeDatabaseError {
		t.Errorf("expected DATABASE_ERROR, got %s", report.Type)
	}
	if report.Severity != domain.SeverityHigh {
		t.Errorf("expected HIGH severity, got %s", report.Severity)
	}
	if got == nil || got.ID != report.ID {
		t.Error("callback did not receive the report")
	}
	if report.Context["requestId"] != "req-1" {
		t.Error("request context lost")
	}
}

func TestHandle_NilFault(t *testing.T) {
	h := newTestHandler()
	if h.Handle(nil, nil) != nil {
		t.Error("nil fault should produce no report")
	}
}

func TestCallback_PanicIsolated(t *testing.T) {
	h := newTestHandler()

	secondRan := false
	h.AddCallback(func(r *domain.ErrorReport) { panic("pager is down") })
	h.AddCallback(func(r *domain.ErrorReport) { secondRan = true })

	// Must not panic the caller
	h.Handle(errors.New("boom"), nil)

	if !secondRan {
		t.Error("a panicking callback must not abort later callbacks")
	}
}

// =============================================================================
// Recovery Delegation Tests
// =============================================================================

type claimAll struct{ result any }

func (s *claimAll) Name() string              { return "claim-all" }
func (s *claimAll) CanRecover(err error) bool { return true }
func (s *claimAll) MaxRetries() int           { return 1 }
func (s *claimAll) RetryDelay() time.Duration { return 0 }
func (s *claimAll) Recover(ctx context.Context, err error, rctx *recovery.Context) (any, error) {
	return s.result, nil
}

func TestTryRecover_Delegates(t *testing.T) {
	h := newTestHandler()
	h.AddStrategy(&claimAll{result: "fixed"})

	result, err := h.TryRecover(context.Background(), errors.New("boom"), nil)
	if err != nil {
		t.Fatalf("TryRecover failed: %v", err)
	}
	if result != "fixed" {
		t.Errorf("unexpected result: %v", result)
	}
}

func TestTryRecover_NoStrategies(t *testing.T) {
	h := newTestHandler()

	_, err := h.TryRecover(context.Background(), errors.New("boom"), nil)
	if !errors.Is(err, recovery.ErrNoRecovery) {
		t.Errorf("expected ErrNoRecovery, got %v", err)
	}
}

// =============================================================================
// Fault Containment Tests
// =============================================================================

func TestFatal_ReportsThenExits(t *testing.T) {
	led := ledger.New(0)
	h := New(recovery.NewRegistry(), led)

	exitCode := -1
	h.exit = func(code int) { exitCode = code }

	notified := false
	h.AddCallback(func(r *domain.ErrorReport) { notified = true })

	h.Fatal("nil map write")

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !notified {
		t.Error("callbacks must run before termination")
	}

	stats := led.Stats()
	if stats.BySeverity[domain.SeverityCritical] != 1 {
		t.Error("uncaught faults are recorded as CRITICAL")
	}
}

func TestGo_ContainsPanic(t *testing.T) {
	led := ledger.New(0)
	h := New(recovery.NewRegistry(), led)

	var wg sync.WaitGroup
	wg.Add(1)
	h.AddCallback(func(r *domain.ErrorReport) { wg.Done() })

	h.Go("flaky-worker", func() { panic("slice out of range") })

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("panic in supervised goroutine was not reported")
	}

	stats := led.Stats()
	if stats.BySeverity[domain.SeverityHigh] != 1 {
		t.Error("async faults are recorded as HIGH, process keeps running")
	}
}
