package domain

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FieldDetail is a single field-level issue attached to a validation error.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the uniform error contract every raised fault conforms to.
// Operational is fixed at construction and never changes afterwards.
type AppError struct {
	Code        ErrorCode      `json:"code"`
	HTTPStatus  int            `json:"statusCode"`
	Message     string         `json:"message"`
	Operational bool           `json:"-"`
	Details     []FieldDetail  `json:"details,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
	Cause       error          `json:"-"`
	Timestamp   time.Time      `json:"timestamp"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a context field (requestId, userId, service...).
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithStatus overrides the taxonomy-derived HTTP status. Values outside
// [400,599] are ignored.
func (e *AppError) WithStatus(code int) *AppError {
	if code >= 400 && code <= 599 {
		e.HTTPStatus = code
	}
	return e
}

// WithDetail appends a field-level detail.
func (e *AppError) WithDetail(field, message string) *AppError {
	e.Details = append(e.Details, FieldDetail{Field: field, Message: message})
	return e
}

// MarkOperational flags an infrastructure error as expected by the raising
// service, letting its real message reach the boundary.
func (e *AppError) MarkOperational() *AppError {
	e.Operational = true
	return e
}

func newError(code ErrorCode, message string) *AppError {
	entry := Entry(code)
	return &AppError{
		Code:        code,
		HTTPStatus:  entry.HTTPStatus,
		Message:     message,
		Operational: entry.Operational,
		Timestamp:   time.Now(),
	}
}

// Factory constructors. They sanitize empty inputs instead of failing, so a
// broken call site still produces a well-formed error.

func NewValidationError(field, message string) *AppError {
	if message == "" {
		message = "validation failed"
	}
	e := newError(CodeValidationError, message)
	if field != "" {
		e = e.WithDetail(field, message)
	}
	return e
}

func NewAuthError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return newError(CodeUnauthorized, message)
}

func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return newError(CodeForbidden, message)
}

func NewNotFoundError(resource, id string) *AppError {
	if resource == "" {
		resource = "resource"
	}
	e := newError(CodeNotFound, fmt.Sprintf("%s not found", resource))
	if id != "" {
		e = e.WithContext("resourceId", id)
	}
	return e.WithContext("resource", resource)
}

func NewConflictError(resource, reason string) *AppError {
	if reason == "" {
		reason = "conflicting state"
	}
	e := newError(CodeConflict, reason)
	if resource != "" {
		e = e.WithContext("resource", resource)
	}
	return e
}

func NewRateLimitError(retryAfter time.Duration) *AppError {
	e := newError(CodeRateLimited, "too many requests")
	if retryAfter > 0 {
		e = e.WithContext("retryAfter", retryAfter.String())
	}
	return e
}

func NewDatabaseError(op string, cause error) *AppError {
	e := newError(CodeDatabaseError, "database operation failed")
	e.Cause = cause
	if op != "" {
		e = e.WithContext("operation", op)
	}
	return e
}

func NewCacheError(op string, cause error) *AppError {
	e := newError(CodeCacheError, "cache operation failed")
	e.Cause = cause
	if op != "" {
		e = e.WithContext("operation", op)
	}
	return e
}

func NewExternalServiceError(service string, cause error) *AppError {
	e := newError(CodeExternalServiceError, "external service call failed")
	e.Cause = cause
	if service != "" {
		e = e.WithContext("service", service)
	}
	return e
}

func NewPaymentError(provider string, cause error) *AppError {
	e := newError(CodePaymentError, "payment processing failed")
	e.Cause = cause
	if provider != "" {
		e = e.WithContext("provider", provider)
	}
	return e
}

// NewBusinessRuleError builds an operational error for domain rules that carry
// their own code (INSUFFICIENT_STOCK, ORDER_NOT_PAYABLE...). Codes outside the
// taxonomy fall back to CONFLICT.
func NewBusinessRuleError(code ErrorCode, message string) *AppError {
	if _, ok := taxonomy[code]; !ok {
		code = CodeConflict
	}
	if message == "" {
		message = "business rule violated"
	}
	return newError(code, message)
}

func NewInternalError(cause error) *AppError {
	e := newError(CodeInternalError, "internal server error")
	e.Cause = cause
	return e
}

var grpcCodeMap = map[codes.Code]ErrorCode{
	codes.InvalidArgument:    CodeInvalidInput,
	codes.NotFound:           CodeNotFound,
	codes.AlreadyExists:      CodeAlreadyExists,
	codes.PermissionDenied:   CodeForbidden,
	codes.Unauthenticated:    CodeUnauthorized,
	codes.ResourceExhausted:  CodeRateLimited,
	codes.FailedPrecondition: CodeConflict,
	codes.Aborted:            CodeConflict,
	codes.Unavailable:        CodeExternalServiceError,
	codes.DeadlineExceeded:   CodeExternalServiceError,
}

// Wrap normalizes an arbitrary fault into an AppError. Existing AppErrors pass
// through untouched, gRPC status errors from internal services map onto the
// taxonomy, and everything else becomes INTERNAL_ERROR.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}

	var app *AppError
	if errors.As(err, &app) {
		return app
	}

	if s, ok := status.FromError(err); ok && s.Code() != codes.OK {
		if code, mapped := grpcCodeMap[s.Code()]; mapped {
			e := newError(code, s.Message())
			e.Cause = err
			return e
		}
	}

	return NewInternalError(err)
}
