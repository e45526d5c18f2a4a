package notify

import (
	"github.com/hashicorp/go-hclog"
)

// Config holds backend configuration from HCL
type Config struct {
	// Log backend (enabled unless explicitly disabled)
	Log *LogConfig `hcl:"log,block"`

	// Ntfy backend configuration
	Ntfy *NtfyBlock `hcl:"ntfy,block"`
}

// LogConfig configures the log backend
type LogConfig struct {
	Enabled bool `hcl:"enabled,optional"`
}

// NtfyBlock configures the ntfy backend
type NtfyBlock struct {
	Enabled bool `hcl:"enabled,optional"`

	ServerURL string `hcl:"server_url,optional"`
	Topic     string `hcl:"topic,optional"`
}

// New builds the notifier described by cfg. A nil cfg yields a log-only
// notifier.
func New(cfg *Config, logger hclog.Logger) *Fanout {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if cfg == nil {
		return NewFanout(NewLog(logger))
	}

	var backends []Notifier

	if cfg.Log == nil || cfg.Log.Enabled {
		backends = append(backends, NewLog(logger))
	}

	if cfg.Ntfy != nil && cfg.Ntfy.Enabled {
		backends = append(backends, NewNtfy(NtfyConfig{
			ServerURL: cfg.Ntfy.ServerURL,
			Topic:     cfg.Ntfy.Topic,
		}))
		serverURL := cfg.Ntfy.ServerURL
		if serverURL == "" {
			serverURL = "https://ntfy.sh (default)"
		}
		logger.Debug("initialized ntfy notifier", "server", serverURL, "topic", cfg.Ntfy.Topic)
	}

	return NewFanout(backends...)
}
