package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrorReport is the observability record kept for every fault the global
// handler processes, whether or not it was an AppError. Reports are owned by
// the ledger; only the ledger mutates them after creation.
type ErrorReport struct {
	ID         string         `json:"id"`
	Type       ErrorCode      `json:"type"`
	Severity   Severity       `json:"severity"`
	Message    string         `json:"message"`
	Stack      string         `json:"stack,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Resolved   bool           `json:"resolved"`
	ResolvedAt *time.Time     `json:"resolvedAt,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// NewReportID builds a process-unique report identifier: a time prefix for
// ordering during triage plus a random suffix against same-nanosecond births.
func NewReportID() string {
	return fmt.Sprintf("err_%d_%s", time.Now().UnixNano(), uuid.NewString()[:8])
}
