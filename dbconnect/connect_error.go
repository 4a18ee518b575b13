package dbconnect

import (
	"errors"
	"fmt"
)

// Kind classifies why a connection could not be established.
type Kind int

const (
	// KindUnknown is any failure no driver could classify.
	KindUnknown Kind = iota

	// KindConfig is an invalid URL or an invalid connection property value.
	KindConfig

	// KindDriver means no driver is available for the URL's subprotocol.
	KindDriver

	// KindNetwork covers dial failures, refused or broken connections, timeouts and cancellation.
	KindNetwork

	// KindAuth means the server rejected the credentials.
	KindAuth

	// KindDatabase means the server does not know the requested database.
	KindDatabase
)

// String returns a stable label suitable for logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindDriver:
		return "driver"
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindDatabase:
		return "database"
	default:
		return "unknown"
	}
}

// ConnectError is returned when a connection attempt fails.
// Cause is the underlying driver, network or configuration error.
type ConnectError struct {
	Kind   Kind
	Target string
	Cause  error
}

// NewConnectError builds a ConnectError, target should already be redacted.
func NewConnectError(kind Kind, target string, cause error) *ConnectError {
	return &ConnectError{Kind: kind, Target: target, Cause: cause}
}

func (e *ConnectError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("connection to %s failed (%s)", e.Target, e.Kind)
	}

	return fmt.Sprintf("connection to %s failed (%s): %v", e.Target, e.Kind, e.Cause)
}

func (e *ConnectError) Unwrap() error {
	return e.Cause
}

// KindOf returns the Kind of the first ConnectError in err's chain.
// Errors that are not ConnectErrors yield KindUnknown, nil yields KindUnknown as well.
func KindOf(err error) Kind {
	var connectErr *ConnectError
	if errors.As(err, &connectErr) {
		return connectErr.Kind
	}

	return KindUnknown
}
