package provider_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"

	"github.com/atsdoc/dbconnect/dbconnect"
)

// stubDriver is a provider.Driver whose Connect outcome is set by the test.
type stubDriver struct {
	connectErr   error
	kind         dbconnect.Kind
	ignored      []string
	blockOnCtx   bool
	connectCalls int
}

func (d *stubDriver) Name() string {
	return "stub"
}

func (d *stubDriver) Dialect() string {
	return "mysql"
}

func (d *stubDriver) Connect(ctx context.Context, _ dbconnect.Target, _, _ string) (*sql.DB, []string, error) {
	d.connectCalls++

	if d.blockOnCtx {
		<-ctx.Done()
		return nil, d.ignored, ctx.Err()
	}

	if d.connectErr != nil {
		return nil, d.ignored, d.connectErr
	}

	return sql.OpenDB(stubConnector{}), d.ignored, nil
}

func (d *stubDriver) Classify(err error) dbconnect.Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return dbconnect.KindNetwork
	}

	return d.kind
}

// stubConnector hands out connections answering "SELECT 1" and "SELECT VERSION()".
type stubConnector struct{}

func (stubConnector) Connect(context.Context) (driver.Conn, error) {
	return stubConn{}, nil
}

func (stubConnector) Driver() driver.Driver {
	return stubSQLDriver{}
}

type stubSQLDriver struct{}

func (stubSQLDriver) Open(string) (driver.Conn, error) {
	return stubConn{}, nil
}

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (stubConn) Close() error {
	return nil
}

func (stubConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if strings.Contains(query, "VERSION()") {
		return &stubRows{value: "8.4.0-stub"}, nil
	}

	return &stubRows{value: int64(1)}, nil
}

type stubRows struct {
	value driver.Value
	done  bool
}

func (r *stubRows) Columns() []string {
	return []string{"value"}
}

func (r *stubRows) Close() error {
	return nil
}

func (r *stubRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}

	r.done = true
	dest[0] = r.value

	return nil
}
