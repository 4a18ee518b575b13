package drivers

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/atsdoc/dbconnect/dbconnect"
)

const (
	mysqlDriverName  = "mysql"
	mysqlDialect     = "mysql"
	mysqlDefaultPort = 3306
	mysqlNetwork     = "tcp"

	propServerTimezone = "serverTimezone"
	propUseSSL         = "useSSL"
	propSSLMode        = "sslMode"
	propConnectTimeout = "connectTimeout"
	propSocketTimeout  = "socketTimeout"

	tlsDisabled   = "false"
	tlsPreferred  = "preferred"
	tlsSkipVerify = "skip-verify"
	tlsVerify     = "true"
)

// MySQL server error numbers.
const (
	erDBAccessDenied         = 1044
	erAccessDenied           = 1045
	erBadDB                  = 1049
	erAccessDeniedNoPassword = 1698
)

var mysqlSSLModes = map[string]string{
	"DISABLED":        tlsDisabled,
	"PREFERRED":       tlsPreferred,
	"REQUIRED":        tlsSkipVerify,
	"VERIFY_CA":       tlsVerify,
	"VERIFY_IDENTITY": tlsVerify,
}

var mysqlHandledProperties = map[string]bool{
	propServerTimezone: true,
	propUseSSL:         true,
	propSSLMode:        true,
	propConnectTimeout: true,
	propSocketTimeout:  true,
}

// MySQLDriver implements Driver for MySQL and MariaDB using go-sql-driver/mysql.
type MySQLDriver struct{}

// NewMySQLDriver creates a new MySQL driver adapter.
func NewMySQLDriver() *MySQLDriver {
	return &MySQLDriver{}
}

// Name returns the database/sql driver name.
func (d *MySQLDriver) Name() string {
	return mysqlDriverName
}

// Dialect returns the SQL dialect.
func (d *MySQLDriver) Dialect() string {
	return mysqlDialect
}

// Config translates the target and credentials into a mysql.Config.
// It also returns the property keys that have no equivalent in the driver.
func (d *MySQLDriver) Config(target dbconnect.Target, username, password string) (*mysql.Config, []string, error) {
	cfg := mysql.NewConfig()
	cfg.User = username
	cfg.Passwd = password
	cfg.Net = mysqlNetwork
	cfg.Addr = target.Address(mysqlDefaultPort)
	cfg.DBName = target.Database()

	if tz, ok := target.Property(propServerTimezone); ok {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, nil, invalidProperty(propServerTimezone, tz, err)
		}
		cfg.Loc = loc
		cfg.ParseTime = true
	}

	if useSSL, ok := target.Property(propUseSSL); ok {
		enabled, err := strconv.ParseBool(useSSL)
		if err != nil {
			return nil, nil, invalidProperty(propUseSSL, useSSL, err)
		}
		cfg.TLSConfig = tlsDisabled
		if enabled {
			cfg.TLSConfig = tlsSkipVerify
		}
	}

	// sslMode supersedes useSSL
	if sslMode, ok := target.Property(propSSLMode); ok {
		tlsConfig, known := mysqlSSLModes[strings.ToUpper(sslMode)]
		if !known {
			return nil, nil, invalidProperty(propSSLMode, sslMode, nil)
		}
		cfg.TLSConfig = tlsConfig
	}

	if raw, ok := target.Property(propConnectTimeout); ok {
		timeout, err := millisProperty(propConnectTimeout, raw)
		if err != nil {
			return nil, nil, err
		}
		cfg.Timeout = timeout
	}

	if raw, ok := target.Property(propSocketTimeout); ok {
		timeout, err := millisProperty(propSocketTimeout, raw)
		if err != nil {
			return nil, nil, err
		}
		cfg.ReadTimeout = timeout
		cfg.WriteTimeout = timeout
	}

	var ignored []string
	for _, key := range target.PropertyKeys() {
		if !mysqlHandledProperties[key] {
			ignored = append(ignored, key)
		}
	}

	return cfg, ignored, nil
}

// Connect opens a *sql.DB for the target and verifies it with a ping.
func (d *MySQLDriver) Connect(
	ctx context.Context,
	target dbconnect.Target,
	username, password string,
) (*sql.DB, []string, error) {

	cfg, ignored, err := d.Config(target, username, password)
	if err != nil {
		return nil, nil, err
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, ignored, invalidProperty("dsn", cfg.Addr, err)
	}

	db, err := ping(ctx, sql.OpenDB(connector))
	if err != nil {
		return nil, ignored, err
	}

	return db, ignored, nil
}

// Classify maps MySQL server errors, then falls back to transport classification.
func (d *MySQLDriver) Classify(err error) dbconnect.Kind {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case erAccessDenied, erDBAccessDenied, erAccessDeniedNoPassword:
			return dbconnect.KindAuth
		case erBadDB:
			return dbconnect.KindDatabase
		default:
			return dbconnect.KindUnknown
		}
	}

	if errors.Is(err, mysql.ErrInvalidConn) {
		return dbconnect.KindNetwork
	}

	return classifyTransport(err)
}

// millisProperty parses a non-negative millisecond count, 0 keeps the driver default.
func millisProperty(key, raw string) (time.Duration, error) {
	ms, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidProperty(key, raw, err)
	}

	if ms < 0 {
		return 0, invalidProperty(key, raw, nil)
	}

	return time.Duration(ms) * time.Millisecond, nil
}
