package helper

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for the readiness probe
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage    = "postgres:17-alpine"
	postgresPort     = "5432/tcp"
	postgresUser     = "test"
	postgresPassword = "test"
	postgresDatabase = "dbconnect"
)

// PostgresServer describes a running PostgreSQL container.
type PostgresServer struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// URL returns a JDBC-style URL for the server's test database with the given extra query, e.g. "sslmode=disable".
func (s PostgresServer) URL(query string) string {
	url := fmt.Sprintf("jdbc:postgresql://%s:%d/%s", s.Host, s.Port, s.Database)
	if query != "" {
		url += "?" + query
	}

	return url
}

// StartPostgresServer starts a PostgreSQL container for the duration of the test.
// The test is skipped under -short or when no container provider is available.
func StartPostgresServer(t *testing.T) PostgresServer {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{postgresPort},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDatabase,
		},
		WaitingFor: wait.ForSQL(postgresPort, "pgx", func(host string, port nat.Port) string {
			return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
				postgresUser, postgresPassword, host, port.Port(), postgresDatabase)
		}).WithStartupTimeout(60 * time.Second).WithPollInterval(500 * time.Millisecond),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start postgres container")

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, postgresPort)
	require.NoError(t, err)

	port, err := strconv.Atoi(mappedPort.Port())
	require.NoError(t, err)

	return PostgresServer{
		Host:     host,
		Port:     port,
		Database: postgresDatabase,
		User:     postgresUser,
		Password: postgresPassword,
	}
}
