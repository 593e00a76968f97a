// Package apperror defines the failure kinds shared by every entity service.
//
// Services return *Error values; handlers only look at the kind via
// errors.Is and never at the cause, which is kept for logs.
package apperror

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"libraryapi/internal/platform/postgres"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrDataAccess       = errors.New("data access failure")
	ErrInvalidReference = errors.New("invalid reference")
)

// Error is an entity-scoped service failure.
type Error struct {
	Entity  string
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func Validation(entity, format string, args ...any) *Error {
	return &Error{Entity: entity, Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, id int64) *Error {
	return &Error{Entity: entity, Kind: ErrNotFound, Message: fmt.Sprintf("%s with id %d not found", entity, id)}
}

// FromStorage translates a repository error. Foreign key violations and
// repository-detected dangling ids become ErrInvalidReference, a vanished row becomes ErrNotFound, everything else is
// ErrDataAccess. The message is what the client sees; the cause is not.
func FromStorage(entity string, err error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	switch {
	case postgres.IsForeignKeyViolation(err), errors.Is(err, ErrInvalidReference):
		return &Error{Entity: entity, Kind: ErrInvalidReference, Message: msg + ": referenced record not found", Cause: err}
	case errors.Is(err, ErrNotFound):
		return &Error{Entity: entity, Kind: ErrNotFound, Message: msg + ": " + entity + " not found", Cause: err}
	default:
		return &Error{Entity: entity, Kind: ErrDataAccess, Message: msg, Cause: err}
	}
}

// Missing marks a row that disappeared between lookup and write.
func Missing(entity string, id int64) error {
	return pkgerrors.Wrapf(ErrNotFound, "%s %d", entity, id)
}

// Dangling marks a write that referenced ids with no row behind them.
func Dangling(entity string, ids []int64) error {
	return pkgerrors.Wrapf(ErrInvalidReference, "%s ids %v", entity, ids)
}

// Message returns the client-safe text for err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
