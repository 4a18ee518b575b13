package drivers

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/atsdoc/dbconnect/dbconnect"
)

const (
	postgresDriverName  = "pgx"
	postgresDialect     = "postgres"
	postgresDefaultPort = 5432
	postgresScheme      = "postgres"

	propPGSSLMode         = "sslmode"
	propPGSSL             = "ssl"
	propPGConnectTimeout  = "connectTimeout"
	propPGApplicationName = "ApplicationName"
	propPGCurrentSchema   = "currentSchema"

	runtimeParamApplicationName = "application_name"
	runtimeParamSearchPath      = "search_path"
)

// SQLSTATE codes.
const (
	sqlStateInvalidPassword      = "28P01"
	sqlStateInvalidAuthorization = "28000"
	sqlStateInvalidCatalogName   = "3D000"
)

var postgresSSLModes = map[string]bool{
	"disable":     true,
	"allow":       true,
	"prefer":      true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

var postgresHandledProperties = map[string]bool{
	propPGSSLMode:         true,
	propPGSSL:             true,
	propPGConnectTimeout:  true,
	propPGApplicationName: true,
	propPGCurrentSchema:   true,
}

// PostgresDriver implements Driver for PostgreSQL using pgx through its database/sql bridge.
type PostgresDriver struct{}

// NewPostgresDriver creates a new PostgreSQL driver adapter.
func NewPostgresDriver() *PostgresDriver {
	return &PostgresDriver{}
}

// Name returns the database/sql driver name.
func (d *PostgresDriver) Name() string {
	return postgresDriverName
}

// Dialect returns the SQL dialect.
func (d *PostgresDriver) Dialect() string {
	return postgresDialect
}

// Config translates the target and credentials (pgJDBC property names) into a pgx.ConnConfig.
// It also returns the property keys that have no equivalent in the driver.
func (d *PostgresDriver) Config(target dbconnect.Target, username, password string) (*pgx.ConnConfig, []string, error) {
	query := url.Values{}

	if ssl, ok := target.Property(propPGSSL); ok {
		enabled, err := strconv.ParseBool(ssl)
		if err != nil {
			return nil, nil, invalidProperty(propPGSSL, ssl, err)
		}
		query.Set(propPGSSLMode, "disable")
		if enabled {
			query.Set(propPGSSLMode, "require")
		}
	}

	// sslmode supersedes ssl
	if sslMode, ok := target.Property(propPGSSLMode); ok {
		if !postgresSSLModes[sslMode] {
			return nil, nil, invalidProperty(propPGSSLMode, sslMode, nil)
		}
		query.Set(propPGSSLMode, sslMode)
	}

	connURL := url.URL{
		Scheme:   postgresScheme,
		User:     url.UserPassword(username, password),
		Host:     target.Address(postgresDefaultPort),
		Path:     "/" + target.Database(),
		RawQuery: query.Encode(),
	}

	cfg, err := pgx.ParseConfig(connURL.String())
	if err != nil {
		return nil, nil, invalidProperty("dsn", target.String(), err)
	}

	if raw, ok := target.Property(propPGConnectTimeout); ok {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return nil, nil, invalidProperty(propPGConnectTimeout, raw, err)
		}
		cfg.ConnectTimeout = time.Duration(seconds) * time.Second
	}

	if name, ok := target.Property(propPGApplicationName); ok {
		cfg.RuntimeParams[runtimeParamApplicationName] = name
	}

	if schema, ok := target.Property(propPGCurrentSchema); ok {
		cfg.RuntimeParams[runtimeParamSearchPath] = schema
	}

	var ignored []string
	for _, key := range target.PropertyKeys() {
		if !postgresHandledProperties[key] {
			ignored = append(ignored, key)
		}
	}

	return cfg, ignored, nil
}

// Connect opens a *sql.DB for the target and verifies it with a ping.
func (d *PostgresDriver) Connect(
	ctx context.Context,
	target dbconnect.Target,
	username, password string,
) (*sql.DB, []string, error) {

	cfg, ignored, err := d.Config(target, username, password)
	if err != nil {
		return nil, nil, err
	}

	db, err := ping(ctx, stdlib.OpenDB(*cfg))
	if err != nil {
		return nil, ignored, err
	}

	return db, ignored, nil
}

// Classify maps PostgreSQL SQLSTATE codes, then falls back to transport classification.
func (d *PostgresDriver) Classify(err error) dbconnect.Kind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateInvalidPassword, sqlStateInvalidAuthorization:
			return dbconnect.KindAuth
		case sqlStateInvalidCatalogName:
			return dbconnect.KindDatabase
		default:
			return dbconnect.KindUnknown
		}
	}

	if kind := classifyTransport(err); kind != dbconnect.KindUnknown {
		return kind
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return dbconnect.KindNetwork
	}

	return dbconnect.KindUnknown
}
