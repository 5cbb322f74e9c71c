package apperr

import "net/http"

// Kind is the coarse error category exposed to API clients.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalidState       Kind = "INVALID_STATE"
	KindNotLive            Kind = "NOT_LIVE"
	KindValidation         Kind = "VALIDATION"
	KindInsufficientBudget Kind = "INSUFFICIENT_BUDGET"
	KindConflict           Kind = "CONFLICT"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindForbidden          Kind = "FORBIDDEN"
	KindInternal           Kind = "INTERNAL"
)

var statusByKind = map[Kind]int{
	KindNotFound:           http.StatusNotFound,
	KindInvalidState:       http.StatusConflict,
	KindNotLive:            http.StatusConflict,
	KindValidation:         http.StatusBadRequest,
	KindInsufficientBudget: http.StatusUnprocessableEntity,
	KindConflict:           http.StatusConflict,
	KindUnauthorized:       http.StatusUnauthorized,
	KindForbidden:          http.StatusForbidden,
	KindInternal:           http.StatusInternalServerError,
}

// HTTPStatus returns the status code for a kind, 500 for unknown kinds.
func HTTPStatus(kind Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Retryable reports whether repeating the same request may succeed.
func (k Kind) Retryable() bool {
	return k == KindConflict || k == KindInternal
}
