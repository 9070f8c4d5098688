package ledger

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vietddude/faultcore/internal/core/domain"
)

func newTestLedger() *Ledger {
	return New(0)
}

// =============================================================================
// Report Creation Tests
// =============================================================================

func TestCreate_UniqueIDs(t *testing.T) {
	l := newTestLedger()
	seen := make(map[string]bool, 10000)

	for i := 0; i < 10000; i++ {
		r := l.Create(domain.CodeDatabaseError, domain.SeverityHigh, errors.New("timeout"), nil, nil)
		if seen[r.ID] {
			t.Fatalf("duplicate report ID after %d reports: %s", i, r.ID)
		}
		seen[r.ID] = true
	}
}

func TestCreate_CapEvictsOldest(t *testing.T) {
	l := New(3)

	first := l.Create(domain.CodeCacheError, domain.SeverityHigh, errors.New("a"), nil, nil)
	first.CreatedAt = time.Now().Add(-1 * time.Hour)

	for i := 0; i < 3; i++ {
		l.Create(domain.CodeCacheError, domain.SeverityHigh, errors.New("b"), nil, nil)
	}

	if l.Get(first.ID) != nil {
		t.Error("oldest report should have been evicted at the cap")
	}
	if got := l.Stats().Total; got != 3 {
		t.Errorf("expected 3 reports, got %d", got)
	}
}

// =============================================================================
// Resolve Tests
// =============================================================================

func TestResolve_UnknownIDIsNoop(t *testing.T) {
	l := newTestLedger()
	l.Resolve("err_0_deadbeef") // must not panic or create anything

	if got := l.Stats().Total; got != 0 {
		t.Errorf("expected empty ledger, got %d", got)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	l := newTestLedger()
	r := l.Create(domain.CodePaymentError, domain.SeverityHigh, errors.New("declined"), nil, nil)

	l.Resolve(r.ID)
	if !r.Resolved || r.ResolvedAt == nil {
		t.Fatal("report should be resolved")
	}
	firstResolvedAt := *r.ResolvedAt

	time.Sleep(5 * time.Millisecond)
	l.Resolve(r.ID)

	if !r.ResolvedAt.Equal(firstResolvedAt) {
		t.Error("second Resolve must not change ResolvedAt")
	}
}

// =============================================================================
// Stats Tests
// =============================================================================

func TestStats_Invariants(t *testing.T) {
	l := newTestLedger()

	r1 := l.Create(domain.CodeDatabaseError, domain.SeverityHigh, errors.New("a"), nil, nil)
	l.Create(domain.CodeValidationError, domain.SeverityLow, errors.New("b"), nil, nil)
	l.Create(domain.CodeDatabaseError, domain.SeverityCritical, errors.New("c"), nil, nil)
	l.Resolve(r1.ID)

	stats := l.Stats()

	if stats.Resolved+stats.Unresolved != stats.Total {
		t.Errorf("resolved(%d)+unresolved(%d) != total(%d)",
			stats.Resolved, stats.Unresolved, stats.Total)
	}

	byType := 0
	for _, n := range stats.ByType {
		byType += n
	}
	if byType != stats.Total {
		t.Errorf("sum(byType)=%d != total=%d", byType, stats.Total)
	}

	bySeverity := 0
	for _, n := range stats.BySeverity {
		bySeverity += n
	}
	if bySeverity != stats.Total {
		t.Errorf("sum(bySeverity)=%d != total=%d", bySeverity, stats.Total)
	}

	if stats.ByType[domain.CodeDatabaseError] != 2 {
		t.Errorf("expected 2 database errors, got %d", stats.ByType[domain.CodeDatabaseError])
	}
}

// =============================================================================
// Recent Tests
// =============================================================================

func TestRecent_NewestFirstAndTruncated(t *testing.T) {
	l := newTestLedger()

	reports := make([]*domain.ErrorReport, 5)
	base := time.Now()
	for i := range reports {
		reports[i] = l.Create(domain.CodeCacheError, domain.SeverityMedium, errors.New("x"), nil, nil)
		reports[i].CreatedAt = base.Add(time.Duration(i) * time.Second)
	}

	recent := l.Recent(3)
	if len(recent) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(recent))
	}
	if recent[0].ID != reports[4].ID {
		t.Error("newest report should come first")
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].CreatedAt.After(recent[i-1].CreatedAt) {
			t.Error("reports not in descending order")
		}
	}
}

// =============================================================================
// Retention Tests
// =============================================================================

func TestClearOld_ZeroEmptiesLedger(t *testing.T) {
	l := newTestLedger()
	for i := 0; i < 4; i++ {
		l.Create(domain.CodeInternalError, domain.SeverityCritical, errors.New("x"), nil, nil)
	}

	time.Sleep(time.Millisecond)
	removed := l.ClearOld(0)

	if removed != 4 {
		t.Errorf("expected 4 removed, got %d", removed)
	}
	if got := l.Stats().Total; got != 0 {
		t.Errorf("expected empty ledger, got %d", got)
	}
}

func TestClearOld_MaxDurationKeepsEverything(t *testing.T) {
	l := newTestLedger()
	for i := 0; i < 4; i++ {
		l.Create(domain.CodeInternalError, domain.SeverityCritical, errors.New("x"), nil, nil)
	}

	if removed := l.ClearOld(time.Duration(math.MaxInt64)); removed != 0 {
		t.Errorf("expected nothing removed, got %d", removed)
	}
	if got := l.Stats().Total; got != 4 {
		t.Errorf("expected 4 reports, got %d", got)
	}
}

func TestClearOld_BoundaryIsRetained(t *testing.T) {
	l := newTestLedger()
	maxAge := 1 * time.Hour
	now := time.Now()

	atBoundary := l.Create(domain.CodeDatabaseError, domain.SeverityHigh, errors.New("x"), nil, nil)
	atBoundary.CreatedAt = now.Add(-maxAge) // age == maxAge exactly

	older := l.Create(domain.CodeDatabaseError, domain.SeverityHigh, errors.New("y"), nil, nil)
	older.CreatedAt = now.Add(-maxAge - time.Nanosecond)

	removed := l.clearOldAt(now, maxAge)

	if removed != 1 {
		t.Errorf("expected exactly 1 removed, got %d", removed)
	}
	if l.Get(atBoundary.ID) == nil {
		t.Error("report exactly at the boundary must be retained")
	}
	if l.Get(older.ID) != nil {
		t.Error("report past the boundary must be removed")
	}
}
