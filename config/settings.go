package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/retroachievements/legacy-redirector/store"
	"github.com/spf13/viper"
)

// DriverNone disables the forum and system lookups. The other accepted
// drivers are store.DriverSQLite and store.DriverPostgres.
const DriverNone = ""

// ErrInvalidSettings is returned by Validate.
var ErrInvalidSettings = errors.New("config: invalid settings")

// DatabaseSettings configures the forum and system lookup store.
type DatabaseSettings struct {
	// Driver is "sqlite", "postgres" or empty to disable the lookups.
	Driver string `mapstructure:"driver" yaml:"driver"`

	// DSN is the driver specific data source name.
	DSN string `mapstructure:"dsn" yaml:"dsn"`

	// ConnectAttempts is the number of pings tried at startup.
	ConnectAttempts uint `mapstructure:"connect_attempts" yaml:"connect_attempts"`

	// ConnectDelay is the wait between startup pings.
	ConnectDelay time.Duration `mapstructure:"connect_delay" yaml:"connect_delay"`
}

// Settings is the service configuration.
type Settings struct {
	Listen          string        `mapstructure:"listen" yaml:"listen"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// PublicDir holds files that shadow redirects and are served as is.
	PublicDir string `mapstructure:"public_dir" yaml:"public_dir"`

	// RulesFile is the YAML redirect table. Empty disables the table.
	RulesFile  string `mapstructure:"rules_file" yaml:"rules_file"`
	WatchRules bool   `mapstructure:"watch_rules" yaml:"watch_rules"`

	// StatusCode is the HTTP status used for redirects.
	StatusCode int `mapstructure:"status_code" yaml:"status_code"`

	// BaseURL prefixes topic URLs, e.g. "https://retroachievements.org".
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	TopicRoute string `mapstructure:"topic_route" yaml:"topic_route"`

	// Hostname is reported in the X-Server-Hostname header.
	Hostname string `mapstructure:"hostname" yaml:"hostname"`

	Database DatabaseSettings `mapstructure:"database" yaml:"database"`
}

var defaults = map[string]any{
	"listen":                    ":8080",
	"shutdown_timeout":          "10s",
	"public_dir":                "public",
	"rules_file":                "",
	"watch_rules":               false,
	"status_code":               http.StatusMovedPermanently,
	"base_url":                  "",
	"topic_route":               "/forums/topic/{topic}",
	"hostname":                  "",
	"database.driver":           DriverNone,
	"database.dsn":              "",
	"database.connect_attempts": 5,
	"database.connect_delay":    "2s",
}

// envBindings maps config keys to the environment variables that can
// provide them, preferred name first.
var envBindings = map[string][]string{
	"listen":                    {"LEGACY_REDIRECTOR_LISTEN"},
	"shutdown_timeout":          {"LEGACY_REDIRECTOR_SHUTDOWN_TIMEOUT"},
	"public_dir":                {"LEGACY_REDIRECTOR_PUBLIC_DIR", "PUBLIC_PATH"},
	"rules_file":                {"LEGACY_REDIRECTOR_RULES_FILE"},
	"watch_rules":               {"LEGACY_REDIRECTOR_WATCH_RULES"},
	"status_code":               {"LEGACY_REDIRECTOR_STATUS_CODE"},
	"base_url":                  {"LEGACY_REDIRECTOR_BASE_URL", "APP_URL"},
	"topic_route":               {"LEGACY_REDIRECTOR_TOPIC_ROUTE"},
	"hostname":                  {"LEGACY_REDIRECTOR_HOSTNAME", "POD_NAME"},
	"database.driver":           {"LEGACY_REDIRECTOR_DATABASE_DRIVER"},
	"database.dsn":              {"LEGACY_REDIRECTOR_DATABASE_DSN", "DATABASE_URL"},
	"database.connect_attempts": {"LEGACY_REDIRECTOR_DATABASE_CONNECT_ATTEMPTS"},
	"database.connect_delay":    {"LEGACY_REDIRECTOR_DATABASE_CONNECT_DELAY"},
}

// Load reads settings from filePath, falling back to defaults when the
// file does not exist. Environment variables override both. An empty
// filePath reads only defaults and the environment.
func Load(filePath string) (*Settings, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if filePath != "" {
		v.SetConfigFile(filePath)

		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: read %s: %w", filePath, err)
			}
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}

var redirectCodes = []int{
	http.StatusMovedPermanently,
	http.StatusFound,
	http.StatusSeeOther,
	http.StatusTemporaryRedirect,
	http.StatusPermanentRedirect,
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.Listen == "" {
		return fmt.Errorf("%w: listen address is empty", ErrInvalidSettings)
	}

	if !slices.Contains(redirectCodes, s.StatusCode) {
		return fmt.Errorf("%w: status code %d is not a redirect", ErrInvalidSettings, s.StatusCode)
	}

	switch s.Database.Driver {
	case DriverNone:
	case store.DriverSQLite, store.DriverPostgres:
		if s.Database.DSN == "" {
			return fmt.Errorf("%w: database dsn is required for driver %q", ErrInvalidSettings, s.Database.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidSettings, s.Database.Driver)
	}

	if s.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: negative shutdown timeout", ErrInvalidSettings)
	}

	return nil
}
