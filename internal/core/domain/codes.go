package domain

import "net/http"

// ErrorCode identifies one entry in the platform error taxonomy.
type ErrorCode string

const (
	// Authentication / Authorization
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeTokenExpired ErrorCode = "TOKEN_EXPIRED"

	// Validation
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInvalidInput    ErrorCode = "INVALID_INPUT"

	// Business logic
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeAlreadyExists     ErrorCode = "ALREADY_EXISTS"
	CodeConflict          ErrorCode = "CONFLICT"
	CodeRateLimited       ErrorCode = "RATE_LIMITED"
	CodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"
	CodeOrderNotPayable   ErrorCode = "ORDER_NOT_PAYABLE"

	// Infrastructure / external
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeCacheError           ErrorCode = "CACHE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
	CodePaymentError         ErrorCode = "PAYMENT_ERROR"

	// System
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// TaxonomyEntry holds the defaults a code carries into every error built from it.
type TaxonomyEntry struct {
	HTTPStatus  int
	Severity    Severity
	Operational bool
}

var taxonomy = map[ErrorCode]TaxonomyEntry{
	CodeUnauthorized: {http.StatusUnauthorized, SeverityMedium, true},
	CodeForbidden:    {http.StatusForbidden, SeverityMedium, true},
	CodeTokenExpired: {http.StatusUnauthorized, SeverityLow, true},

	CodeValidationError: {http.StatusUnprocessableEntity, SeverityLow, true},
	CodeInvalidInput:    {http.StatusBadRequest, SeverityLow, true},

	CodeNotFound:          {http.StatusNotFound, SeverityLow, true},
	CodeAlreadyExists:     {http.StatusConflict, SeverityLow, true},
	CodeConflict:          {http.StatusConflict, SeverityMedium, true},
	CodeRateLimited:       {http.StatusTooManyRequests, SeverityMedium, true},
	CodeInsufficientStock: {http.StatusConflict, SeverityLow, true},
	CodeOrderNotPayable:   {http.StatusConflict, SeverityLow, true},

	CodeDatabaseError:        {http.StatusServiceUnavailable, SeverityHigh, false},
	CodeCacheError:           {http.StatusServiceUnavailable, SeverityHigh, false},
	CodeExternalServiceError: {http.StatusBadGateway, SeverityHigh, false},
	CodePaymentError:         {http.StatusBadGateway, SeverityHigh, false},

	CodeInternalError: {http.StatusInternalServerError, SeverityCritical, false},
}

// Entry returns the taxonomy defaults for a code. Unknown codes resolve to the
// INTERNAL_ERROR entry so a bad code can never escape the taxonomy.
func Entry(code ErrorCode) TaxonomyEntry {
	if e, ok := taxonomy[code]; ok {
		return e
	}
	return taxonomy[CodeInternalError]
}

// Codes returns every code in the taxonomy.
func Codes() []ErrorCode {
	out := make([]ErrorCode, 0, len(taxonomy))
	for c := range taxonomy {
		out = append(out, c)
	}
	return out
}

// HTTPStatus returns the default HTTP status for the code.
func (c ErrorCode) HTTPStatus() int {
	return Entry(c).HTTPStatus
}

// DefaultSeverity returns the default severity for the code.
func (c ErrorCode) DefaultSeverity() Severity {
	return Entry(c).Severity
}

// Operational reports whether errors of this code are expected business faults.
func (c ErrorCode) Operational() bool {
	return Entry(c).Operational
}
