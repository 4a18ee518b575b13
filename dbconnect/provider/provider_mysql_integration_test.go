package provider_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atsdoc/dbconnect/dbconnect"
	"github.com/atsdoc/dbconnect/dbconnect/provider"
	. "github.com/atsdoc/dbconnect/testutil/helper" //nolint:revive
)

func Test_Provider_AgainstMySQL(t *testing.T) {
	server := StartMySQLServer(t)
	ctx := context.Background()

	t.Run("should open a working connection with correct credentials", func(t *testing.T) {
		cfg, err := dbconnect.NewConnectionConfig(server.URL("serverTimezone=UTC&useSSL=false&autoReconnect=true"), "root", server.RootPassword)
		require.NoError(t, err)

		logHandler := NewLogHandlerSpy(false)
		p, err := provider.NewProvider(cfg, provider.WithLogger(slog.New(logHandler)), provider.WithConnectTimeout(10*time.Second))
		require.NoError(t, err)

		db := p.GetConnection(ctx)
		require.NotNil(t, db)
		defer func() { _ = db.Close() }()

		assert.NoError(t, p.Ping(ctx, db))

		version, err := p.ServerVersion(ctx, db)
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(version, "8."), "unexpected server version %q", version)

		assert.Equal(t, 0, logHandler.GetRecordCountAtLevel(slog.LevelError))
		assert.True(t, logHandler.HasLog(slog.LevelInfo, "database connection established"))
	})

	t.Run("should classify wrong password as auth failure", func(t *testing.T) {
		cfg, err := dbconnect.NewConnectionConfig(server.URL("useSSL=false"), "root", "wrong-password")
		require.NoError(t, err)

		logHandler := NewLogHandlerSpy(false)
		p, err := provider.NewProvider(cfg, provider.WithLogger(slog.New(logHandler)))
		require.NoError(t, err)

		db, err := p.Open(ctx)

		assert.Nil(t, db)
		assert.Equal(t, dbconnect.KindAuth, dbconnect.KindOf(err))
		assert.Equal(t, 1, logHandler.GetRecordCountAtLevel(slog.LevelError))
		assert.False(t, logHandler.HasErrorLogContaining("wrong-password"))
	})

	t.Run("should classify unknown database as database failure", func(t *testing.T) {
		url := strings.Replace(server.URL("useSSL=false"), "/"+server.Database, "/does_not_exist", 1)
		cfg, err := dbconnect.NewConnectionConfig(url, "root", server.RootPassword)
		require.NoError(t, err)

		p, err := provider.NewProvider(cfg, provider.WithLogger(nil))
		require.NoError(t, err)

		db, err := p.Open(ctx)

		assert.Nil(t, db)
		assert.Equal(t, dbconnect.KindDatabase, dbconnect.KindOf(err))
	})
}
