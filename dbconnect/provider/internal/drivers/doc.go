// Package drivers provides the database driver adapters used by the connection provider.
//
// This package implements the adapter pattern over the database/sql drivers the provider supports:
// go-sql-driver/mysql for MySQL and MariaDB, and pgx (through its stdlib bridge) for PostgreSQL.
// All adapters translate a parsed JDBC-style target into the driver's native configuration,
// open and verify a *sql.DB, and classify connection failures into dbconnect.Kind values.
package drivers
