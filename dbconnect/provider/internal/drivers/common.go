package drivers

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration

	"github.com/atsdoc/dbconnect/dbconnect"
)

// ErrInvalidProperty is returned when a connection property has a value the driver cannot use.
var ErrInvalidProperty = errors.New("invalid connection property")

func invalidProperty(key, value string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w %s=%q", ErrInvalidProperty, key, value)
	}

	return fmt.Errorf("%w %s=%q: %s", ErrInvalidProperty, key, value, cause.Error())
}

// classifyTransport maps failures every driver shares: bad properties, network and context errors.
func classifyTransport(err error) dbconnect.Kind {
	if errors.Is(err, ErrInvalidProperty) {
		return dbconnect.KindConfig
	}

	if errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.ErrUnexpectedEOF) {

		return dbconnect.KindNetwork
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return dbconnect.KindNetwork
	}

	return dbconnect.KindUnknown
}

// ping verifies db with a round trip and closes it on failure.
func ping(ctx context.Context, db *sql.DB) (*sql.DB, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// ValidationQuery returns the trivial query that proves a handle works, e.g. "SELECT 1".
func ValidationQuery(dialect string) (string, error) {
	query, _, err := goqu.Dialect(dialect).Select(goqu.L("1")).ToSQL()
	if err != nil {
		return "", err
	}

	return query, nil
}

// VersionQuery returns the query reading the server version string.
func VersionQuery(dialect string) (string, error) {
	fn := "VERSION"
	if dialect == postgresDialect {
		fn = "version"
	}

	query, _, err := goqu.Dialect(dialect).Select(goqu.Func(fn)).ToSQL()
	if err != nil {
		return "", err
	}

	return query, nil
}
