package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/atsdoc/dbconnect/config"
	"github.com/atsdoc/dbconnect/dbconnect"
	"github.com/atsdoc/dbconnect/dbconnect/provider"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

var (
	goodFormat     = color.New(color.FgGreen).SprintFunc()
	criticalFormat = color.New(color.FgHiRed).SprintFunc()
)

// checkResult is what the check command reports.
type checkResult struct {
	Status        string  `json:"status"`
	Target        string  `json:"target"`
	ServerVersion string  `json:"server_version,omitempty"`
	ErrorKind     string  `json:"error_kind,omitempty"`
	Error         string  `json:"error,omitempty"`
	DurationMS    float64 `json:"duration_ms"`
}

// newCheckCmd creates the check subcommand
func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Open a connection, validate it and print the server version",
		Long: `Open a connection with the configured settings, run the validation query and
read the server version. Exits with 1 and reports the failure kind
(config, driver, network, auth, database, unknown) if any step fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return reportFailure(cmd.OutOrStdout(), checkResult{
					Status:    statusError,
					ErrorKind: dbconnect.KindConfig.String(),
					Error:     err.Error(),
				})
			}

			logger, closeLog := newLogger(cmd.ErrOrStderr())
			defer func() { _ = closeLog() }()

			p, err := provider.NewProvider(settings.Connection,
				provider.WithLogger(logger),
				provider.WithConnectTimeout(settings.ConnectTimeout),
			)
			if err != nil {
				return reportFailure(cmd.OutOrStdout(), checkResult{
					Status:    statusError,
					Target:    settings.Connection.String(),
					ErrorKind: dbconnect.KindConfig.String(),
					Error:     err.Error(),
				})
			}

			result := runCheck(cmd.Context(), p)
			if result.Status != statusOK {
				return reportFailure(cmd.OutOrStdout(), result)
			}

			return printCheckResult(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}

// runCheck opens, validates and closes one connection.
func runCheck(ctx context.Context, p *provider.Provider) checkResult {
	result := checkResult{Target: p.Config().String()}
	start := time.Now()

	fail := func(err error) checkResult {
		result.Status = statusError
		result.ErrorKind = dbconnect.KindOf(err).String()
		result.Error = err.Error()
		result.DurationMS = toMilliseconds(time.Since(start))

		return result
	}

	db, err := p.Open(ctx)
	if err != nil {
		return fail(err)
	}
	defer func() { _ = db.Close() }()

	if err = p.Ping(ctx, db); err != nil {
		return fail(err)
	}

	serverVersion, err := p.ServerVersion(ctx, db)
	if err != nil {
		return fail(err)
	}

	result.Status = statusOK
	result.ServerVersion = serverVersion
	result.DurationMS = toMilliseconds(time.Since(start))

	return result
}

func reportFailure(w io.Writer, result checkResult) error {
	if err := printCheckResult(w, result); err != nil {
		return err
	}

	return errCheckFailed
}

func printCheckResult(w io.Writer, result checkResult) error {
	if jsonOutput {
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	}

	if result.Status == statusOK {
		_, err := fmt.Fprintf(w, "%s %s\n  server version: %s\n  took: %.3fms\n",
			goodFormat("connection ok:"), result.Target, result.ServerVersion, result.DurationMS)

		return err
	}

	target := result.Target
	if target == "" {
		target = "(not configured)"
	}

	_, err := fmt.Fprintf(w, "%s %s\n  kind: %s\n  error: %s\n",
		criticalFormat("connection failed:"), target, result.ErrorKind, result.Error)

	return err
}

func toMilliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
