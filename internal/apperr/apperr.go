// Package apperr defines the error kinds the booking engine returns to its
// callers. Every failure carries a stable, machine-checkable Kind and
// optional details (remaining credit, capacity, amount due) so that the
// presentation layer can build its own copy without re-deriving rules.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation          Kind = "VALIDATION_ERROR"
	KindNotFound            Kind = "NOT_FOUND"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindForbidden           Kind = "FORBIDDEN"
	KindConflict            Kind = "CONFLICT"
	KindDuplicateBooking    Kind = "DUPLICATE_BOOKING"
	KindAlreadyBooked       Kind = "ALREADY_BOOKED"
	KindAlreadyCancelled    Kind = "ALREADY_CANCELLED"
	KindInvalidState        Kind = "INVALID_STATE"
	KindNoCredit            Kind = "NO_CREDIT"
	KindSlotFull            Kind = "SLOT_FULL"
	KindReferentialConflict Kind = "REFERENTIAL_CONFLICT"
	KindInternal            Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, apperr.SlotFull)
// works against the sentinel values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// With returns a copy of e carrying an extra detail.
func (e *Error) With(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{Kind: e.Kind, Message: e.Message, Details: details, Err: e.Err}
}

// Sentinels for errors.Is comparisons. They carry no message and are never
// returned directly.
var (
	Validation          = &Error{Kind: KindValidation}
	NotFound            = &Error{Kind: KindNotFound}
	Unauthorized        = &Error{Kind: KindUnauthorized}
	Forbidden           = &Error{Kind: KindForbidden}
	Conflict            = &Error{Kind: KindConflict}
	DuplicateBooking    = &Error{Kind: KindDuplicateBooking}
	AlreadyBooked       = &Error{Kind: KindAlreadyBooked}
	AlreadyCancelled    = &Error{Kind: KindAlreadyCancelled}
	InvalidState        = &Error{Kind: KindInvalidState}
	NoCredit            = &Error{Kind: KindNoCredit}
	SlotFull            = &Error{Kind: KindSlotFull}
	ReferentialConflict = &Error{Kind: KindReferentialConflict}
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validationf(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Internal(err error, message string) *Error {
	return Wrap(KindInternal, err, message)
}

// KindOf reports the kind of err, or KindInternal for errors that did not
// originate in this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func DetailsOf(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}
