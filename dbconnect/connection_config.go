package dbconnect

import (
	"fmt"
)

// ConnectionConfig is the immutable (URL, username, password) triple a connection is opened with.
// Build it once at process start, e.g. from the environment, and pass it to whatever needs it.
type ConnectionConfig struct {
	target   Target
	username string
	password string
}

// NewConnectionConfig validates the URL and username and returns the configuration.
// The password may be empty.
func NewConnectionConfig(rawURL, username, password string) (ConnectionConfig, error) {
	target, err := ParseTarget(rawURL)
	if err != nil {
		return ConnectionConfig{}, err
	}

	if username == "" {
		return ConnectionConfig{}, ErrEmptyUsername
	}

	return ConnectionConfig{
		target:   target,
		username: username,
		password: password,
	}, nil
}

// URL returns the connection URL as supplied.
func (c ConnectionConfig) URL() string {
	return c.target.String()
}

// Username returns the username.
func (c ConnectionConfig) Username() string {
	return c.username
}

// Password returns the password.
func (c ConnectionConfig) Password() string {
	return c.password
}

// Target returns the parsed URL.
func (c ConnectionConfig) Target() Target {
	return c.target
}

// IsZero reports whether c is the zero value.
func (c ConnectionConfig) IsZero() bool {
	return c.target.IsZero()
}

// String renders the configuration with the password removed, e.g. "root:...@jdbc:mysql://localhost:3306/db".
func (c ConnectionConfig) String() string {
	if c.IsZero() {
		return ""
	}

	return fmt.Sprintf("%s:%s@%s", c.username, redactedValue, c.target.String())
}

// GoString keeps the password out of %#v output as well.
func (c ConnectionConfig) GoString() string {
	return "dbconnect.ConnectionConfig(" + c.String() + ")"
}
