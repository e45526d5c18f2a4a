// Package config loads the planbook CLI configuration from an HCL file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"

	"github.com/jrepp/planbook/pkg/apiclient"
	"github.com/jrepp/planbook/pkg/notify"
)

// Environment variables.
const (
	EnvConfigFile = "PLANBOOK_CONFIG"
	EnvBaseURL    = "PLANBOOK_API_BASE_URL"
)

// Session store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the planbook configuration.
type Config struct {
	// BaseURL is the backend API root, absolute or relative to Origin.
	BaseURL string `hcl:"base_url,optional"`

	// Origin is the web app address. Relative base URLs and browser
	// navigation resolve against it.
	Origin string `hcl:"origin,optional"`

	// Timeout is a duration string such as "15s".
	Timeout string `hcl:"timeout,optional"`

	AuthHeader string  `hcl:"auth_header,optional"`
	AuthScheme *string `hcl:"auth_scheme,optional"`
	TLSVerify  *bool   `hcl:"tls_verify,optional"`

	LogLevel string `hcl:"log_level,optional"`

	Session       *Session       `hcl:"session,block"`
	Notifications *notify.Config `hcl:"notifications,block"`
	Navigation    *Navigation    `hcl:"navigation,block"`
}

// Session configures where the session survives between runs.
type Session struct {
	// Backend is "file" or "sqlite".
	Backend string `hcl:"backend,optional"`

	// Path is the session file or sqlite database.
	Path string `hcl:"path,optional"`
}

// Navigation configures how the CLI sends the user to web app pages.
type Navigation struct {
	OpenBrowser bool `hcl:"open_browser,optional"`

	// AppURL is the web app root. Defaults to Origin.
	AppURL string `hcl:"app_url,optional"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration file at path. An empty path falls back to
// $PLANBOOK_CONFIG and then to DefaultPath; a missing default file is not an
// error. Environment overrides and defaults are applied before validation.
func Load(fs afero.Fs, path string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		explicit = false
		path = DefaultPath()
	}

	cfg := &Config{}
	src, err := afero.ReadFile(fs, path)
	switch {
	case err == nil:
		if err := hclsimple.Decode(path, src, nil, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultPath returns the per-user configuration file location.
func DefaultPath() string {
	return filepath.Join(userConfigDir(), "config.hcl")
}

func userConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "planbook")
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = apiclient.DefaultBaseURL
	}
	if c.Origin == "" {
		c.Origin = apiclient.DefaultOrigin
	}
	if c.Timeout == "" {
		c.Timeout = apiclient.DefaultTimeout.String()
	}
	if c.AuthHeader == "" {
		c.AuthHeader = apiclient.DefaultAuthHeader
		if c.AuthScheme == nil {
			scheme := apiclient.DefaultAuthScheme
			c.AuthScheme = &scheme
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}

	if c.Session == nil {
		c.Session = &Session{}
	}
	if c.Session.Backend == "" {
		c.Session.Backend = BackendFile
	}
	if c.Session.Path == "" {
		name := "session.json"
		if c.Session.Backend == BackendSQLite {
			name = "session.db"
		}
		c.Session.Path = filepath.Join(userConfigDir(), name)
	}

	if c.Navigation == nil {
		c.Navigation = &Navigation{}
	}
	if c.Navigation.AppURL == "" {
		c.Navigation.AppURL = c.Origin
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.Timeout, validation.Required, validation.By(positiveDuration)),
		validation.Field(&c.LogLevel, validation.By(knownLogLevel)),
	); err != nil {
		result = multierror.Append(result, err)
	}

	if c.Session != nil {
		if err := validation.ValidateStruct(c.Session,
			validation.Field(&c.Session.Backend, validation.In(BackendFile, BackendSQLite)),
			validation.Field(&c.Session.Path, validation.Required),
		); err != nil {
			result = multierror.Append(result, fmt.Errorf("session: %w", err))
		}
	}

	if c.Notifications != nil && c.Notifications.Ntfy != nil && c.Notifications.Ntfy.Enabled {
		ntfy := c.Notifications.Ntfy
		if err := validation.ValidateStruct(ntfy,
			validation.Field(&ntfy.Topic, validation.Required),
		); err != nil {
			result = multierror.Append(result, fmt.Errorf("notifications.ntfy: %w", err))
		}
	}

	if result.ErrorOrNil() == nil {
		if _, err := c.APIClient().ResolveBaseURL(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// TimeoutDuration returns the parsed request timeout.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return apiclient.DefaultTimeout
	}
	return d
}

// APIClient returns the apiclient configuration.
func (c *Config) APIClient() *apiclient.Config {
	cfg := &apiclient.Config{
		BaseURL:    c.BaseURL,
		Origin:     c.Origin,
		Timeout:    c.TimeoutDuration(),
		AuthHeader: c.AuthHeader,
		TLSVerify:  c.TLSVerify,
	}
	if c.AuthScheme != nil {
		cfg.AuthScheme = *c.AuthScheme
	}
	return cfg
}

// Level returns the configured hclog level.
func (c *Config) Level() hclog.Level {
	level := hclog.LevelFromString(c.LogLevel)
	if level == hclog.NoLevel {
		return hclog.Warn
	}
	return level
}

func positiveDuration(value interface{}) error {
	s, _ := value.(string)
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("must be a duration such as \"15s\"")
	}
	if d <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}

func knownLogLevel(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if hclog.LevelFromString(s) == hclog.NoLevel {
		return fmt.Errorf("must be one of trace, debug, info, warn, error, off")
	}
	return nil
}
