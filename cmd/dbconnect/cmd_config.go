package main

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/atsdoc/dbconnect/config"
)

const (
	passwordMask = "..."
	formatJSON   = "json"
	formatYAML   = "yaml"
)

// effectiveConfig is the printable form of config.Settings. It never carries the password.
type effectiveConfig struct {
	URL            string `json:"url" yaml:"url"`
	Username       string `json:"username" yaml:"username"`
	Password       string `json:"password" yaml:"password"`
	ConnectTimeout string `json:"connect_timeout" yaml:"connect_timeout"`
	ConfigFile     string `json:"config_file,omitempty" yaml:"config_file,omitempty"`
}

// newConfigCmd creates the config subcommand
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets removed",
		Long: `Print the configuration check would use, after merging the config file and
DBCONNECT_* environment variables. The YAML form can be saved as dbconnect.yaml,
once the password is filled in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}

			out := effectiveConfig{
				URL:            settings.Connection.Target().String(),
				Username:       settings.Connection.Username(),
				ConnectTimeout: settings.ConnectTimeout.String(),
				ConfigFile:     settings.ConfigFile,
			}
			if settings.Connection.Password() != "" {
				out.Password = passwordMask
			}

			data, err := marshalConfig(out)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))

			return err
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output", "o", formatJSON, "output format: json or yaml")

	return cmd
}

func marshalConfig(out effectiveConfig) ([]byte, error) {
	switch outputFormat {
	case formatJSON:
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("error encoding JSON: %w", err)
		}

		return data, nil
	case formatYAML:
		data, err := yaml.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("error encoding YAML: %w", err)
		}

		return data, nil
	default:
		return nil, fmt.Errorf("unknown output format %q, want %s or %s", outputFormat, formatJSON, formatYAML)
	}
}
