package ledger

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/vietddude/faultcore/internal/core/domain"
	"github.com/vietddude/faultcore/internal/metrics"
)

// Stats is a point-in-time aggregate over the ledger.
type Stats struct {
	Total      int                      `json:"total"`
	Resolved   int                      `json:"resolved"`
	Unresolved int                      `json:"unresolved"`
	ByType     map[domain.ErrorCode]int `json:"byType"`
	BySeverity map[domain.Severity]int  `json:"bySeverity"`
}

// Ledger is the in-memory error report store for the process lifetime.
// Writes arrive from concurrent request-handling goroutines, so every access
// goes through the mutex.
type Ledger struct {
	mu         sync.RWMutex
	reports    map[string]*domain.ErrorReport
	maxReports int
}

// New creates an empty ledger. maxReports caps retention; 0 disables the cap.
func New(maxReports int) *Ledger {
	return &Ledger{
		reports:    make(map[string]*domain.ErrorReport),
		maxReports: maxReports,
	}
}

// Create records a fault and returns its report. The report is logged at the
// level derived from its severity.
func (l *Ledger) Create(
	errType domain.ErrorCode,
	severity domain.Severity,
	err error,
	errCtx map[string]any,
	metadata map[string]any,
) *domain.ErrorReport {
	report := &domain.ErrorReport{
		ID:        domain.NewReportID(),
		Type:      errType,
		Severity:  severity,
		Message:   err.Error(),
		Stack:     string(debug.Stack()),
		Context:   errCtx,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}

	l.mu.Lock()
	l.reports[report.ID] = report
	if l.maxReports > 0 && len(l.reports) > l.maxReports {
		l.evictOldestLocked()
	}
	l.mu.Unlock()

	metrics.ErrorsTotal.WithLabelValues(string(errType), string(severity)).Inc()
	metrics.ErrorsUnresolved.Inc()

	slog.Log(context.Background(), severity.LogLevel(), "Error recorded",
		"id", report.ID,
		"type", errType,
		"severity", severity,
		"error", err,
	)

	return report
}

// evictOldestLocked drops the oldest report. Caller holds the write lock.
func (l *Ledger) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, r := range l.reports {
		if oldestID == "" || r.CreatedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = r.CreatedAt
		}
	}
	if oldestID != "" {
		if r := l.reports[oldestID]; !r.Resolved {
			metrics.ErrorsUnresolved.Dec()
		}
		delete(l.reports, oldestID)
	}
}

// Resolve marks a report as resolved. Unknown ids and already-resolved
// reports are no-ops; ResolvedAt is set exactly once.
func (l *Ledger) Resolve(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	report, ok := l.reports[id]
	if !ok || report.Resolved {
		return
	}

	now := time.Now()
	report.Resolved = true
	report.ResolvedAt = &now

	metrics.ErrorsResolved.Inc()
	metrics.ErrorsUnresolved.Dec()
}

// Get returns the report for an id, or nil.
func (l *Ledger) Get(id string) *domain.ErrorReport {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reports[id]
}

// Stats scans the ledger and returns the aggregate snapshot.
func (l *Ledger) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := Stats{
		ByType:     make(map[domain.ErrorCode]int),
		BySeverity: make(map[domain.Severity]int),
	}

	for _, r := range l.reports {
		stats.Total++
		if r.Resolved {
			stats.Resolved++
		} else {
			stats.Unresolved++
		}
		stats.ByType[r.Type]++
		stats.BySeverity[r.Severity]++
	}

	return stats
}

// UnresolvedCritical counts unresolved CRITICAL reports, used by the ops
// health endpoint.
func (l *Ledger) UnresolvedCritical() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, r := range l.reports {
		if !r.Resolved && r.Severity == domain.SeverityCritical {
			n++
		}
	}
	return n
}

// Recent returns up to limit reports, newest first.
func (l *Ledger) Recent(limit int) []*domain.ErrorReport {
	l.mu.RLock()
	out := make([]*domain.ErrorReport, 0, len(l.reports))
	for _, r := range l.reports {
		out = append(out, r)
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ClearOld removes reports strictly older than maxAge; a report exactly at
// the boundary is retained. Returns the number removed.
func (l *Ledger) ClearOld(maxAge time.Duration) int {
	return l.clearOldAt(time.Now(), maxAge)
}

func (l *Ledger) clearOldAt(now time.Time, maxAge time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, r := range l.reports {
		if now.Sub(r.CreatedAt) > maxAge {
			if !r.Resolved {
				metrics.ErrorsUnresolved.Dec()
			}
			delete(l.reports, id)
			removed++
		}
	}
	return removed
}
