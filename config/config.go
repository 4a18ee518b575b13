package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/atsdoc/dbconnect/dbconnect"
)

const (
	envPrefix      = "DBCONNECT"
	configName     = "dbconnect"
	configType     = "yaml"
	keyURL         = "url"
	keyUsername    = "username"
	keyPassword    = "password"
	keyTimeout     = "connect_timeout"
	defaultTimeout = "30s"
)

// ErrInvalidConnectTimeout is returned when connect_timeout is not a valid non-negative duration.
var ErrInvalidConnectTimeout = errors.New("invalid connect_timeout")

// Settings is the effective configuration of one process.
type Settings struct {
	Connection     dbconnect.ConnectionConfig
	ConnectTimeout time.Duration
	ConfigFile     string // empty when no file was read
}

// Load reads the settings from the environment and, if present, a config file.
// An empty configPath searches dbconnect.yaml in the working directory and in
// $HOME/.config/dbconnect; not finding one there is fine. An explicit configPath must exist.
func Load(configPath string) (Settings, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyURL, "")
	v.SetDefault(keyUsername, "")
	v.SetDefault(keyPassword, "")
	v.SetDefault(keyTimeout, defaultTimeout)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return settingsFromViper(v)
}

func settingsFromViper(v *viper.Viper) (Settings, error) {
	rawTimeout := strings.TrimSpace(v.GetString(keyTimeout))

	timeout, err := time.ParseDuration(rawTimeout)
	if err != nil {
		return Settings{}, fmt.Errorf("%w %q: %s", ErrInvalidConnectTimeout, rawTimeout, err.Error())
	}

	if timeout < 0 {
		return Settings{}, fmt.Errorf("%w %q: %w", ErrInvalidConnectTimeout, rawTimeout, dbconnect.ErrNegativeConnectTimeout)
	}

	connection, err := dbconnect.NewConnectionConfig(
		strings.TrimSpace(v.GetString(keyURL)),
		strings.TrimSpace(v.GetString(keyUsername)),
		v.GetString(keyPassword),
	)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid connection settings: %w", err)
	}

	return Settings{
		Connection:     connection,
		ConnectTimeout: timeout,
		ConfigFile:     v.ConfigFileUsed(),
	}, nil
}
