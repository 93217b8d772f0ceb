package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)

// Error pairs one of the sentinel errors above with a user-facing reason.
// errors.Is against the sentinel works through Unwrap, while Error() carries
// only the reason so the HTTP layer can surface it verbatim.
type Error struct {
	kind   error
	reason string
}

func (e *Error) Error() string { return e.reason }

func (e *Error) Unwrap() error { return e.kind }

func NotFoundError(reason string) error { return &Error{kind: ErrNotFound, reason: reason} }

func ConflictError(reason string) error { return &Error{kind: ErrConflict, reason: reason} }

func ForbiddenError(reason string) error { return &Error{kind: ErrForbidden, reason: reason} }

func UnauthorizedError(reason string) error { return &Error{kind: ErrUnauthorized, reason: reason} }

func ValidationError(reason string) error { return &Error{kind: ErrValidation, reason: reason} }
