// Command dbconnect checks database connectivity for the connection configured
// through DBCONNECT_* environment variables or a dbconnect.yaml file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const exitFailure = 1

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath   string
	debug        bool
	logFile      string
	jsonOutput   bool
	outputFormat string
)

// errCheckFailed is returned after a failed check has already been reported.
var errCheckFailed = errors.New("connection check failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(exitFailure)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dbconnect",
		Short: "Check database connectivity",
		Long: `dbconnect opens a connection to the configured database, validates it and reports
what went wrong if it could not.

Configuration (environment overrides the file):
  DBCONNECT_URL              jdbc:mysql://host:3306/db?serverTimezone=UTC&useSSL=false
  DBCONNECT_USERNAME         user name
  DBCONNECT_PASSWORD         password
  DBCONNECT_CONNECT_TIMEOUT  e.g. 5s (default 30s)

Commands:
  dbconnect check [--json]   Open, validate and report the server version
  dbconnect config [-o yaml]  Print the effective configuration without secrets`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ./dbconnect.yaml or ~/.config/dbconnect/dbconnect.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write diagnostics as JSON to this rotating log file instead of stderr")

	rootCmd.AddCommand(
		newCheckCmd(),
		newConfigCmd(),
	)

	return rootCmd
}

