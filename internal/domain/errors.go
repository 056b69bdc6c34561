package domain

import (
	"errors"

	"github.com/zjrosen/packscheduler/internal/collections"
)

// Error kinds. Every *Error unwraps to one of these.
var (
	ErrInvalidArgument   = collections.ErrInvalidArgument
	ErrScheduleConflict  = errors.New("schedule conflict")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrInvalidTransition = errors.New("invalid transition")
)

// Error is a domain failure with a user-facing message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func invalid(msg string) error {
	return &Error{Kind: ErrInvalidArgument, Msg: msg}
}

// Invalid returns an ErrInvalidArgument error carrying msg.
func Invalid(msg string) error {
	return invalid(msg)
}

// Message returns the user-facing message of err when it is a domain error,
// or err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Msg
	}
	return err.Error()
}
