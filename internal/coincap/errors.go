package coincap

import (
	"errors"
	"fmt"
)

// Kind classifies why a fetch failed.
type Kind int

const (
	// KindTransport covers request construction, dialing and reading the body.
	KindTransport Kind = iota
	// KindAPI means the API answered with an error payload or a non-2xx status.
	KindAPI
	// KindMalformed means the body could not be decoded into an asset.
	KindMalformed
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAPI:
		return "api"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinel errors matched by errors.Is against an *Error of the same kind.
var (
	ErrTransport = errors.New("coincap: transport failure")
	ErrAPI       = errors.New("coincap: api error")
	ErrMalformed = errors.New("coincap: malformed response")
)

// Error describes a failed asset fetch.
type Error struct {
	Kind       Kind
	Identifier string
	// Status is the HTTP status code, 0 when no response was received.
	Status int
	// Message is the API-reported error text, or a short description.
	Message string
	Err     error
}

// Error implements error.
func (e *Error) Error() string {
	msg := fmt.Sprintf("coincap %s error for %q", e.Kind, e.Identifier)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrAPI:
		return e.Kind == KindAPI
	case ErrMalformed:
		return e.Kind == KindMalformed
	default:
		return false
	}
}

// KindOf returns the Kind carried by err, and false if err is not an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
