package boundary

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/vietddude/faultcore/internal/handler"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID assigns every request an id, honoring an incoming X-Request-ID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFrom extracts the request id set by RequestID.
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Recoverer contains request-handler panics: the fault is reported through
// the global handler and the adapter writes the sanitized response. The
// process keeps serving other requests.
func Recoverer(h *handler.Handler, a *Adapter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					requestID := RequestIDFrom(r.Context())
					h.Recovered(v, map[string]any{
						"requestId": requestID,
						"path":      r.URL.Path,
						"method":    r.Method,
					})
					a.Write(w, panicToError(v), requestID)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func panicToError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return &panicValue{v: v}
}

type panicValue struct{ v any }

func (p *panicValue) Error() string { return fmt.Sprintf("unhandled panic: %v", p.v) }
