package dbconnect

import (
	"errors"
)

// ErrEmptyURL is returned when an empty connection URL is supplied.
var ErrEmptyURL = errors.New("empty connection url supplied")

// ErrInvalidURL is returned when the connection URL is not a valid JDBC-style URL.
var ErrInvalidURL = errors.New("invalid connection url")

// ErrEmptyUsername is returned when an empty username is supplied.
var ErrEmptyUsername = errors.New("empty username supplied")

// ErrEmptyConnectionConfig is returned when a zero ConnectionConfig is used.
var ErrEmptyConnectionConfig = errors.New("empty connection config supplied")

// ErrUnsupportedDriver is returned when no driver is registered for the URL's subprotocol.
var ErrUnsupportedDriver = errors.New("no driver for subprotocol")

// ErrNilHandle is returned when a nil database handle is passed to a helper.
var ErrNilHandle = errors.New("nil database handle supplied")

// ErrNilDriver is returned when a nil driver is registered.
var ErrNilDriver = errors.New("nil driver supplied")

// ErrEmptySubprotocol is returned when a driver is registered for an empty subprotocol.
var ErrEmptySubprotocol = errors.New("empty subprotocol supplied")

// ErrNegativeConnectTimeout is returned when a negative connect timeout is configured.
var ErrNegativeConnectTimeout = errors.New("connect timeout must not be negative")
