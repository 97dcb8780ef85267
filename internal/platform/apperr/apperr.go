// Package apperr defines the error kinds services return to the HTTP boundary.
//
// Services never panic or use sentinel strings for business failures: they
// return an *Error carrying a Kind and a human readable message. The boundary
// maps the Kind to a status code exactly once (see httpx.WriteError).
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	// Internal is the fallback for anything unanticipated.
	Internal Kind = iota
	Invalid
	NotFound
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid_request"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// HTTPStatus returns the fixed status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case Invalid:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func InvalidRequest(msg string) error { return &Error{Kind: Invalid, Message: msg} }

func NotFoundError(msg string) error { return &Error{Kind: NotFound, Message: msg} }

func ConflictError(msg string) error { return &Error{Kind: Conflict, Message: msg} }

// Wrap marks err as Internal unless it already carries a kind.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: Internal, Err: err}
}

// KindOf reports the kind of err. Plain errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the public message of err, or "" if it carries none.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
