package recovery

import (
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Action determines how a strategy should treat an upstream failure.
type Action int

const (
	ActionRetry Action = iota
	ActionFailover
	ActionFatal
)

// Classify determines the action for an upstream error. gRPC status codes
// from internal services are authoritative; anything else falls back to
// message heuristics.
func Classify(err error) Action {
	if err == nil {
		return ActionRetry // Should not happen
	}

	if s, ok := status.FromError(err); ok && s.Code() != codes.OK {
		switch s.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted:
			return ActionRetry
		case codes.ResourceExhausted:
			return ActionFailover
		case codes.InvalidArgument, codes.NotFound, codes.AlreadyExists,
			codes.PermissionDenied, codes.Unauthenticated, codes.Unimplemented,
			codes.FailedPrecondition:
			return ActionFatal
		}
	}

	sLower := strings.ToLower(err.Error())

	// Fatal (request is wrong, retrying cannot help)
	if strings.Contains(sLower, "invalid") || strings.Contains(sLower, "malformed") ||
		strings.Contains(sLower, "unauthorized") || strings.Contains(sLower, "forbidden") {
		return ActionFatal
	}

	// Failover (provider-side quota issues)
	if strings.Contains(sLower, "too many requests") ||
		strings.Contains(sLower, "rate limit") ||
		strings.Contains(sLower, "quota") {
		return ActionFailover
	}

	// Default to Retry (network, 5xx, timeouts)
	return ActionRetry
}
