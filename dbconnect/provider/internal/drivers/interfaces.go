package drivers

import (
	"context"
	"database/sql"

	"github.com/atsdoc/dbconnect/dbconnect"
)

// Driver defines the operations the provider needs from a database driver adapter.
type Driver interface {
	Name() string
	Dialect() string
	Connect(ctx context.Context, target dbconnect.Target, username, password string) (*sql.DB, []string, error)
	Classify(err error) dbconnect.Kind
}

var (
	_ Driver = (*MySQLDriver)(nil)
	_ Driver = (*PostgresDriver)(nil)
)
