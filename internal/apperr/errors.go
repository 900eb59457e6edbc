// internal/apperr/errors.go
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the HTTP layer can pick a status code and a
// fixed user-facing message.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindInvalidArgument
	KindNotFound
	KindUpstreamInternal
	KindUpstreamUnavailable
	KindRateLimited
	KindDataFormat
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from an error chain, KindUnknown otherwise.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// UserMessage returns the message the client should display for an error.
// Unrecognized errors fall back to a generic message carrying the raw
// description so support can still diagnose from a screenshot.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindUnauthenticated:
		return "You need to be signed in to do that."
	case KindInvalidArgument:
		return "The request was missing required information."
	case KindNotFound:
		return "We couldn't find what you were looking for."
	case KindUpstreamInternal:
		return "The assistant ran into an internal problem. Please try again."
	case KindUpstreamUnavailable:
		return "The assistant is temporarily unavailable. Please try again shortly."
	case KindRateLimited:
		return "The assistant is receiving too many requests right now. Please wait a moment."
	case KindDataFormat:
		return "Your profile data looks incomplete. Please review your settings."
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}
