package helper

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql" // mysql driver for the readiness probe
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	mysqlImage        = "mysql:8.4"
	mysqlPort         = "3306/tcp"
	mysqlRootPassword = "test"
	mysqlDatabase     = "dbconnect"
)

// MySQLServer describes a running MySQL container.
type MySQLServer struct {
	Host         string
	Port         int
	Database     string
	RootPassword string
}

// URL returns a JDBC-style URL for the server's test database with the given extra query, e.g. "useSSL=false".
func (s MySQLServer) URL(query string) string {
	url := fmt.Sprintf("jdbc:mysql://%s:%d/%s", s.Host, s.Port, s.Database)
	if query != "" {
		url += "?" + query
	}

	return url
}

// StartMySQLServer starts a MySQL container for the duration of the test.
// The test is skipped under -short or when no container provider is available.
func StartMySQLServer(t *testing.T) MySQLServer {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        mysqlImage,
		ExposedPorts: []string{mysqlPort},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": mysqlRootPassword,
			"MYSQL_DATABASE":      mysqlDatabase,
		},
		WaitingFor: wait.ForSQL(mysqlPort, "mysql", func(host string, port nat.Port) string {
			return fmt.Sprintf("root:%s@tcp(%s:%s)/%s", mysqlRootPassword, host, port.Port(), mysqlDatabase)
		}).WithStartupTimeout(120 * time.Second).WithPollInterval(time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start mysql container")

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate mysql container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, mysqlPort)
	require.NoError(t, err)

	port, err := strconv.Atoi(mappedPort.Port())
	require.NoError(t, err)

	return MySQLServer{
		Host:         host,
		Port:         port,
		Database:     mysqlDatabase,
		RootPassword: mysqlRootPassword,
	}
}
