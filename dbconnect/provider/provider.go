package provider

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/atsdoc/dbconnect/dbconnect"
	"github.com/atsdoc/dbconnect/dbconnect/provider/internal/drivers"
)

const (
	logMsgConnecting        = "opening database connection"
	logMsgPropertyIgnored   = "connection property has no driver equivalent, ignoring it"
	logMsgConnected         = "database connection established"
	logMsgConnectFailed     = "database connection failed"
	logMsgValidationFailed  = "database handle validation failed"
	logAttrAttemptID        = "attempt_id"
	logAttrTarget           = "target"
	logAttrDriver           = "driver"
	logAttrProperty         = "property"
	logAttrErrorKind        = "error_kind"
	logAttrError            = "error"
	logAttrDurationMS       = "duration_ms"
	metricConnectDuration   = "dbconnect_connect_duration_seconds"
	metricConnectAttempts   = "dbconnect_connect_attempts_total"
	metricConnectErrors     = "dbconnect_connect_errors_total"
	metricLabelDriver       = "driver"
	metricLabelStatus       = "status"
	metricLabelErrorKind    = "error_kind"
	spanNameOpen            = "dbconnect.open"
	spanAttrTarget          = "db.target"
	spanAttrSubprotocol     = "db.subprotocol"
	spanAttrDriver          = "db.driver"
	spanAttrAttemptID       = "attempt_id"
	spanAttrErrorKind       = "error_kind"
	spanAttrDurationMS      = "duration_ms"
	statusSuccess           = "success"
	statusError             = "error"
	subprotocolMySQL        = "mysql"
	subprotocolMariaDB      = "mariadb"
	subprotocolPostgreSQL   = "postgresql"
	subprotocolPostgres     = "postgres"
	validationExpectedValue = 1
)

// Provider opens connections to the database described by its ConnectionConfig.
// A Provider is immutable after construction and safe for concurrent use.
// Every Open is one independent, synchronous attempt; closing returned handles is up to the caller.
type Provider struct {
	config           dbconnect.ConnectionConfig
	drivers          map[string]Driver
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
	connectTimeout   time.Duration
}

// NewProvider creates a Provider for cfg with optional configuration.
// Without WithLogger, failures are logged as text to standard output and successes stay silent.
func NewProvider(cfg dbconnect.ConnectionConfig, options ...Option) (*Provider, error) {
	if cfg.IsZero() {
		return nil, dbconnect.ErrEmptyConnectionConfig
	}

	p := &Provider{
		config:  cfg,
		drivers: builtinDrivers(),
		logger:  slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})),
	}

	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func builtinDrivers() map[string]Driver {
	mysqlDriver := drivers.NewMySQLDriver()
	postgresDriver := drivers.NewPostgresDriver()

	return map[string]Driver{
		subprotocolMySQL:      mysqlDriver,
		subprotocolMariaDB:    mysqlDriver,
		subprotocolPostgreSQL: postgresDriver,
		subprotocolPostgres:   postgresDriver,
	}
}

// Config returns the configuration the Provider was built with.
func (p *Provider) Config() dbconnect.ConnectionConfig {
	return p.config
}

// Open attempts to open and verify a connection.
// On failure it logs exactly one error record and returns a *dbconnect.ConnectError
// whose Kind tells network, auth, database, config and driver failures apart.
func (p *Provider) Open(ctx context.Context) (*sqlx.DB, error) {
	attemptID := uuid.NewString()
	target := p.config.Target()
	redacted := p.config.String()

	ctx, span := p.startOpenSpan(ctx, attemptID, target.Subprotocol(), redacted)

	driver, err := p.resolveDriver()
	if err != nil {
		connectErr := dbconnect.NewConnectError(dbconnect.KindDriver, redacted, err)
		p.logError(ctx, logMsgConnectFailed, connectErr,
			logAttrAttemptID, attemptID,
			logAttrErrorKind, connectErr.Kind.String(),
		)
		p.recordAttemptMetrics(ctx, target.Subprotocol(), connectErr.Kind, 0)
		p.finishOpenSpanError(span, connectErr.Kind, 0)

		return nil, connectErr
	}

	if p.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.connectTimeout)
		defer cancel()
	}

	p.logDebug(ctx, logMsgConnecting,
		logAttrAttemptID, attemptID,
		logAttrTarget, redacted,
		logAttrDriver, driver.Name(),
	)

	start := time.Now()
	db, ignored, connErr := driver.Connect(ctx, target, p.config.Username(), p.config.Password())
	duration := time.Since(start)

	for _, key := range ignored {
		p.logDebug(ctx, logMsgPropertyIgnored, logAttrAttemptID, attemptID, logAttrProperty, key)
	}

	if connErr != nil {
		connectErr := dbconnect.NewConnectError(driver.Classify(connErr), redacted, connErr)
		p.logError(ctx, logMsgConnectFailed, connectErr,
			logAttrAttemptID, attemptID,
			logAttrErrorKind, connectErr.Kind.String(),
			logAttrDurationMS, toMilliseconds(duration),
		)
		p.recordAttemptMetrics(ctx, driver.Name(), connectErr.Kind, duration)
		p.finishOpenSpanError(span, connectErr.Kind, duration)

		return nil, connectErr
	}

	p.logInfo(ctx, logMsgConnected,
		logAttrAttemptID, attemptID,
		logAttrTarget, redacted,
		logAttrDriver, driver.Name(),
		logAttrDurationMS, toMilliseconds(duration),
	)
	p.recordSuccessMetrics(ctx, driver.Name(), duration)
	p.finishOpenSpanSuccess(span, driver.Name(), duration)

	return sqlx.NewDb(db, driver.Name()), nil
}

// GetConnection attempts to open a connection and returns nil if that fails.
// The failure cause is only reported through the single error log record Open writes.
func (p *Provider) GetConnection(ctx context.Context) *sqlx.DB {
	db, err := p.Open(ctx)
	if err != nil {
		return nil
	}

	return db
}

// Ping runs the trivial validation query ("SELECT 1") through db.
func (p *Provider) Ping(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return dbconnect.ErrNilHandle
	}

	driver, err := p.resolveDriver()
	if err != nil {
		return err
	}

	query, err := drivers.ValidationQuery(driver.Dialect())
	if err != nil {
		return err
	}

	var result int
	if err = db.QueryRowxContext(ctx, query).Scan(&result); err != nil {
		p.logError(ctx, logMsgValidationFailed, err, logAttrDriver, driver.Name())
		return err
	}

	if result != validationExpectedValue {
		return fmt.Errorf("validation query %q returned %d", query, result)
	}

	return nil
}

// ServerVersion returns the version string reported by the server behind db.
func (p *Provider) ServerVersion(ctx context.Context, db *sqlx.DB) (string, error) {
	if db == nil {
		return "", dbconnect.ErrNilHandle
	}

	driver, err := p.resolveDriver()
	if err != nil {
		return "", err
	}

	query, err := drivers.VersionQuery(driver.Dialect())
	if err != nil {
		return "", err
	}

	var version string
	if err = db.GetContext(ctx, &version, query); err != nil {
		return "", err
	}

	return strings.TrimSpace(version), nil
}

func (p *Provider) resolveDriver() (Driver, error) {
	subprotocol := p.config.Target().Subprotocol()

	driver, ok := p.drivers[subprotocol]
	if !ok {
		return nil, fmt.Errorf("%w %q", dbconnect.ErrUnsupportedDriver, subprotocol)
	}

	return driver, nil
}

// Internal driver adapters satisfy the public Driver interface.
var _ Driver = drivers.Driver(nil)
