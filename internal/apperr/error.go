package apperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Error is a typed application error. Reason identifies the specific failure
// (e.g. BID_TOO_LOW) and is what errors.Is compares on.
type Error struct {
	kind    Kind
	reason  string
	message string
	err     error
}

func New(kind Kind, reason, message string) *Error {
	return &Error{kind: kind, reason: reason, message: message}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

func (e *Error) Kind() Kind      { return e.kind }
func (e *Error) Reason() string  { return e.reason }
func (e *Error) Message() string { return e.message }
func (e *Error) Unwrap() error   { return e.err }

// Is matches any *Error with the same reason, so a sentinel compares equal to
// copies produced by WithMessage or Wrap.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.reason == t.reason
}

// WithMessage returns a copy of e carrying a more specific message.
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	return &Error{kind: e.kind, reason: e.reason, message: fmt.Sprintf(format, args...), err: e.err}
}

// Wrap attaches a cause to a copy of e.
func (e *Error) Wrap(err error) *Error {
	return &Error{kind: e.kind, reason: e.reason, message: e.message, err: err}
}

// From converts any error into an *Error. Unknown errors become INTERNAL;
// postgres unique violations become CONFLICT.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate.Wrap(err)
	}
	return ErrInternal.Wrap(err)
}

// KindOf returns the kind of err, INTERNAL when it is not an *Error.
func KindOf(err error) Kind {
	return From(err).Kind()
}

// IsRetryable reports whether err is worth retrying as-is.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return KindOf(err).Retryable()
}

// LogError records err with its kind and reason attached.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if err == nil || logger == nil {
		return
	}
	appErr := From(err)
	allFields := make([]zap.Field, 0, len(fields)+3)
	allFields = append(allFields,
		zap.Error(err),
		zap.String("error_kind", string(appErr.Kind())),
		zap.String("error_reason", appErr.Reason()),
	)
	allFields = append(allFields, fields...)

	if appErr.Kind() == KindInternal {
		logger.Error(msg, allFields...)
		return
	}
	logger.Warn(msg, allFields...)
}
