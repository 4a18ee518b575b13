package dbconnect

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	jdbcPrefix        = "jdbc:"
	redactedValue     = "..."
	propertyPassword  = "password"
	propertyUser      = "user"
	maxPortNumber     = 65535
	authoritySplitter = "://"
)

// Target is a parsed JDBC-style connection URL of the form
//
//	jdbc:<subprotocol>://<host>[:<port>][/<database>][?<key>=<value>[&...]]
//
// Credentials travel only in ConnectionConfig: user and password properties are
// rejected, as are malformed property strings. A Target is immutable, Properties returns a copy.
type Target struct {
	raw         string
	subprotocol string
	host        string
	port        int
	database    string
	properties  map[string]string
}

// ParseTarget parses a JDBC-style connection URL.
// Multi-host authorities and credentials embedded in the authority are rejected.
func ParseTarget(raw string) (Target, error) {
	if strings.TrimSpace(raw) == "" {
		return Target{}, ErrEmptyURL
	}

	if !strings.HasPrefix(raw, jdbcPrefix) {
		return Target{}, fmt.Errorf("%w: missing %q prefix", ErrInvalidURL, jdbcPrefix)
	}

	rest := strings.TrimPrefix(raw, jdbcPrefix)
	if !strings.Contains(rest, authoritySplitter) {
		return Target{}, fmt.Errorf("%w: missing host authority", ErrInvalidURL)
	}

	u, err := url.Parse(rest)
	if err != nil {
		// url.Error echoes the whole URL, which may hold secrets.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return Target{}, fmt.Errorf("%w: %s", ErrInvalidURL, err.Error())
	}

	if u.Scheme == "" {
		return Target{}, fmt.Errorf("%w: missing subprotocol", ErrInvalidURL)
	}

	if u.User != nil {
		return Target{}, fmt.Errorf("%w: credentials in the host authority are not supported", ErrInvalidURL)
	}

	if strings.Contains(u.Host, ",") {
		return Target{}, fmt.Errorf("%w: multiple hosts are not supported", ErrInvalidURL)
	}

	host := u.Hostname()
	if host == "" {
		return Target{}, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	port := 0
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port < 1 || port > maxPortNumber {
			return Target{}, fmt.Errorf("%w: port must be between 1 and %d, got %q", ErrInvalidURL, maxPortNumber, p)
		}
	}

	database := strings.TrimPrefix(u.Path, "/")
	if strings.Contains(database, "/") {
		return Target{}, fmt.Errorf("%w: database name must not contain '/'", ErrInvalidURL)
	}

	properties, err := parseProperties(u.RawQuery)
	if err != nil {
		return Target{}, err
	}

	return Target{
		raw:         raw,
		subprotocol: strings.ToLower(u.Scheme),
		host:        host,
		port:        port,
		database:    database,
		properties:  properties,
	}, nil
}

func parseProperties(rawQuery string) (map[string]string, error) {
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		// The escape error quotes fragments of the value, so it is not passed on.
		if strings.Contains(rawQuery, ";") {
			return nil, fmt.Errorf("%w: connection properties must be separated by '&', not ';'", ErrInvalidURL)
		}
		return nil, fmt.Errorf("%w: connection properties contain an invalid percent-escape", ErrInvalidURL)
	}

	properties := make(map[string]string, len(query))
	for key, values := range query {
		if strings.EqualFold(key, propertyUser) || strings.EqualFold(key, propertyPassword) {
			return nil, fmt.Errorf("%w: credential property %q is not supported, set username and password instead", ErrInvalidURL, key)
		}
		if key == "" || len(values) == 0 {
			continue
		}
		properties[key] = values[len(values)-1]
	}

	return properties, nil
}

// Subprotocol returns the lower-cased driver selector, e.g. "mysql".
func (t Target) Subprotocol() string {
	return t.subprotocol
}

// Host returns the host name or IP address without brackets.
func (t Target) Host() string {
	return t.host
}

// Port returns the port, or 0 when the URL does not carry one.
func (t Target) Port() int {
	return t.port
}

// PortOr returns the port, or fallback when the URL does not carry one.
func (t Target) PortOr(fallback int) int {
	if t.port == 0 {
		return fallback
	}

	return t.port
}

// Address joins host and port (or fallback port) into a dialable address.
func (t Target) Address(fallbackPort int) string {
	return net.JoinHostPort(t.host, strconv.Itoa(t.PortOr(fallbackPort)))
}

// Database returns the database (schema) name, which may be empty.
func (t Target) Database() string {
	return t.database
}

// Property returns the value of a connection property.
func (t Target) Property(key string) (string, bool) {
	v, ok := t.properties[key]
	return v, ok
}

// Properties returns a copy of all connection properties.
func (t Target) Properties() map[string]string {
	properties := make(map[string]string, len(t.properties))
	for k, v := range t.properties {
		properties[k] = v
	}

	return properties
}

// PropertyKeys returns the property keys in sorted order.
func (t Target) PropertyKeys() []string {
	keys := make([]string, 0, len(t.properties))
	for k := range t.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// IsZero reports whether t is the zero Target.
func (t Target) IsZero() bool {
	return t.raw == ""
}

// String returns the URL as supplied. It never carries credentials, so it is safe to log.
func (t Target) String() string {
	return t.raw
}
