package provider_test

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atsdoc/dbconnect/dbconnect/provider"
)

// captureStdout redirects os.Stdout while fn runs and returns what was written.
// Tests using it must not run in parallel.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err, "error in arranging test data")

	original := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = original }()

	output := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		output <- string(data)
	}()

	fn()

	require.NoError(t, w.Close())
	captured := <-output
	require.NoError(t, r.Close())

	return captured
}

func Test_Provider_DefaultLogger_ShouldPrintOneLine_OnFailure(t *testing.T) {
	cfg, addr := givenDownMySQLConfig(t)

	stdout := captureStdout(t, func() {
		p, err := provider.NewProvider(cfg, provider.WithConnectTimeout(5*time.Second))
		require.NoError(t, err)

		assert.Nil(t, p.GetConnection(context.Background()))
	})

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 1, "exactly one diagnostic line, got %q", stdout)
	assert.Contains(t, lines[0], "database connection failed")
	assert.Contains(t, lines[0], addr)
	assert.NotContains(t, lines[0], "password")
}

func Test_Provider_DefaultLogger_ShouldStaySilent_OnSuccess(t *testing.T) {
	stdout := captureStdout(t, func() {
		p, err := provider.NewProvider(
			givenConfig(t, "jdbc:stub://db.internal/app?autoReconnect=true"),
			provider.WithDriver("stub", &stubDriver{ignored: []string{"autoReconnect"}}),
		)
		require.NoError(t, err)

		db := p.GetConnection(context.Background())
		require.NotNil(t, db)
		_ = db.Close()
	})

	assert.Empty(t, stdout)
}
