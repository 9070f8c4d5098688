// Package boundary converts internal errors into the stable client-facing
// JSON contract, applying environment-aware redaction.
package boundary

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vietddude/faultcore/internal/core/domain"
)

// ErrorBody is the error object inside the response envelope.
type ErrorBody struct {
	Code       domain.ErrorCode     `json:"code"`
	Message    string               `json:"message"`
	StatusCode int                  `json:"statusCode"`
	Timestamp  time.Time            `json:"timestamp"`
	Details    []domain.FieldDetail `json:"details,omitempty"`
}

// Response is the externally-visible error response contract.
type Response struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"requestId,omitempty"`
}

// Adapter converts errors into responses for one deployment environment.
type Adapter struct {
	production bool
}

// NewAdapter creates an adapter. Redaction applies only when environment is
// "production".
func NewAdapter(environment string) *Adapter {
	return &Adapter{production: environment == "production"}
}

// Convert builds the response for a fault. Operational errors surface their
// real code, message, status and details. Non-operational errors are redacted
// in production so internals never leak to clients; outside production the
// real fields are kept to aid debugging.
func (a *Adapter) Convert(fault error, requestID string) Response {
	app := domain.Wrap(fault)

	if !app.Operational && a.production {
		return Response{
			Success: false,
			Error: ErrorBody{
				Code:       domain.CodeInternalError,
				Message:    "Internal server error",
				StatusCode: http.StatusInternalServerError,
				Timestamp:  time.Now(),
			},
			RequestID: requestID,
		}
	}

	return Response{
		Success: false,
		Error: ErrorBody{
			Code:       app.Code,
			Message:    app.Message,
			StatusCode: app.HTTPStatus,
			Timestamp:  app.Timestamp,
			Details:    app.Details,
		},
		RequestID: requestID,
	}
}

// Write encodes the response for a fault onto an HTTP response writer.
func (a *Adapter) Write(w http.ResponseWriter, fault error, requestID string) {
	resp := a.Convert(fault, requestID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Error.StatusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
