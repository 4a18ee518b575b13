package drivers_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atsdoc/dbconnect/dbconnect"
	"github.com/atsdoc/dbconnect/dbconnect/provider/internal/drivers"
)

func Test_PostgresDriver_Config_TranslatesPGJDBCProperties(t *testing.T) {
	target := mustTarget(t,
		"jdbc:postgresql://db.internal/inventory?sslmode=disable&connectTimeout=7&ApplicationName=reporting&currentSchema=sales&loginTimeout=3",
	)

	cfg, ignored, err := drivers.NewPostgresDriver().Config(target, "reader", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, uint16(5432), cfg.Port)
	assert.Equal(t, "inventory", cfg.Database)
	assert.Equal(t, "reader", cfg.User)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Nil(t, cfg.TLSConfig)
	assert.Equal(t, 7*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, "reporting", cfg.RuntimeParams["application_name"])
	assert.Equal(t, "sales", cfg.RuntimeParams["search_path"])
	assert.Equal(t, []string{"loginTimeout"}, ignored)
}

func Test_PostgresDriver_Config_SSLTrueRequiresTLS(t *testing.T) {
	cfg, _, err := drivers.NewPostgresDriver().Config(mustTarget(t, "jdbc:postgresql://h:6432/db?ssl=true"), "u", "p")
	require.NoError(t, err)

	assert.Equal(t, uint16(6432), cfg.Port)
	assert.NotNil(t, cfg.TLSConfig)
}

func Test_PostgresDriver_Config_ShouldFail_WithInvalidPropertyValues(t *testing.T) {
	tests := []string{
		"jdbc:postgresql://h/db?sslmode=always",
		"jdbc:postgresql://h/db?ssl=perhaps",
		"jdbc:postgresql://h/db?connectTimeout=-5",
	}

	d := drivers.NewPostgresDriver()
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, _, err := d.Config(mustTarget(t, raw), "u", "p")

			assert.ErrorIs(t, err, drivers.ErrInvalidProperty)
			assert.Equal(t, dbconnect.KindConfig, d.Classify(err))
		})
	}
}

func Test_PostgresDriver_Classify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected dbconnect.Kind
	}{
		{name: "invalid password", err: &pgconn.PgError{Code: "28P01"}, expected: dbconnect.KindAuth},
		{name: "invalid authorization", err: &pgconn.PgError{Code: "28000"}, expected: dbconnect.KindAuth},
		{name: "unknown database", err: &pgconn.PgError{Code: "3D000"}, expected: dbconnect.KindDatabase},
		{name: "other sqlstate", err: &pgconn.PgError{Code: "42P01"}, expected: dbconnect.KindUnknown},
		{name: "plain", err: errors.New("boom"), expected: dbconnect.KindUnknown},
	}

	d := drivers.NewPostgresDriver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.Classify(tt.err))
		})
	}
}

func Test_ValidationAndVersionQueries(t *testing.T) {
	query, err := drivers.ValidationQuery("mysql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", query)

	query, err = drivers.ValidationQuery("postgres")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", query)

	query, err = drivers.VersionQuery("mysql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT VERSION()", query)

	query, err = drivers.VersionQuery("postgres")
	require.NoError(t, err)
	assert.Equal(t, "SELECT version()", query)
}
