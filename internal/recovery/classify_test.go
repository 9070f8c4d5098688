package recovery

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vietddude/faultcore/internal/core/domain"
)

func TestClassify_GRPCCodes(t *testing.T) {
	cases := []struct {
		code codes.Code
		want Action
	}{
		{codes.Unavailable, ActionRetry},
		{codes.DeadlineExceeded, ActionRetry},
		{codes.Aborted, ActionRetry},
		{codes.ResourceExhausted, ActionFailover},
		{codes.InvalidArgument, ActionFatal},
		{codes.Unauthenticated, ActionFatal},
		{codes.NotFound, ActionFatal},
	}

	for _, tc := range cases {
		if got := Classify(status.Error(tc.code, "upstream")); got != tc.want {
			t.Errorf("grpc %s: expected action %d, got %d", tc.code, tc.want, got)
		}
	}
}

func TestClassify_MessageHeuristics(t *testing.T) {
	if Classify(errors.New("invalid request body")) != ActionFatal {
		t.Error("invalid requests are fatal")
	}
	if Classify(errors.New("rate limit exceeded")) != ActionFailover {
		t.Error("rate limits fail over")
	}
	if Classify(errors.New("connection reset by peer")) != ActionRetry {
		t.Error("network errors default to retry")
	}
}

func TestExternalStrategy_SkipsFatalCauses(t *testing.T) {
	s := NewExternalServiceStrategy(3, 0)

	retryable := domain.NewExternalServiceError("catalog",
		status.Error(codes.Unavailable, "catalog down"))
	if !s.CanRecover(retryable) {
		t.Error("transient upstream faults should be claimed")
	}

	fatal := domain.NewExternalServiceError("catalog",
		status.Error(codes.InvalidArgument, "bad request"))
	if s.CanRecover(fatal) {
		t.Error("fatal upstream faults must not be claimed")
	}

	if s.CanRecover(errors.New("not an app error")) {
		t.Error("plain errors are not claimed")
	}
}

func TestExternalStrategy_ReRunsOperation(t *testing.T) {
	s := NewExternalServiceStrategy(3, 0)
	fault := domain.NewPaymentError("click", status.Error(codes.Unavailable, "gateway busy"))

	calls := 0
	rctx := &Context{
		Retry: func(ctx context.Context) (any, error) {
			calls++
			return "charged", nil
		},
	}

	result, err := s.Recover(context.Background(), fault, rctx)
	if err != nil {
		t.Fatalf("Recover failed: %v", err)
	}
	if result != "charged" || calls != 1 {
		t.Errorf("expected the supplied operation to run once, result=%v calls=%d", result, calls)
	}

	// Without an operation there is nothing to re-run
	if _, err := s.Recover(context.Background(), fault, nil); err == nil {
		t.Error("expected failure when no retry operation is supplied")
	}
}
