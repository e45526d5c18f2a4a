// Package base holds what every planbook command shares: logging, the UI,
// common flags, and construction of the API client from configuration.
package base

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"github.com/jrepp/planbook/pkg/failure"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Command is embedded by every planbook command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// Fs holds the configuration and session files.
	Fs afero.Fs

	// Stdout receives raw downloads.
	Stdout io.Writer

	flagConfig  string
	flagFormat  string
	flagLogFile string
}

// NewCommand returns a Command backed by the OS filesystem.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log:    log,
		UI:     ui,
		Fs:     afero.NewOsFs(),
		Stdout: os.Stdout,
	}
}

// CommonFlags registers -config, -format and -log-file on f.
func (c *Command) CommonFlags(f *FlagSet) {
	f.StringVar(
		&c.flagConfig, "config", "",
		"Path to the planbook HCL config file. Defaults to $PLANBOOK_CONFIG, "+
			"then the per-user config directory.",
	)
	f.StringVar(
		&c.flagFormat, "format", FormatJSON,
		"Output format: json or yaml.",
	)
	f.StringVar(
		&c.flagLogFile, "log-file", "",
		"Write logs to this file, rotated by size, instead of stderr.",
	)
}

// ConfigPath returns the -config flag value.
func (c *Command) ConfigPath() string {
	return c.flagConfig
}

// Format returns the validated -format flag value.
func (c *Command) Format() (string, error) {
	switch c.flagFormat {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q, expected json or yaml", c.flagFormat)
	}
}

// SetupLogging redirects the logger to -log-file when set.
func (c *Command) SetupLogging(level hclog.Level) {
	if c.flagLogFile == "" {
		c.Log.SetLevel(level)
		return
	}

	c.Log = hclog.New(&hclog.LoggerOptions{
		Name:  c.Log.Name(),
		Level: level,
		Output: &lumberjack.Logger{
			Filename:   c.flagLogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		},
	})
}

// Render writes v to the UI in the selected format.
func (c *Command) Render(v any) error {
	format, err := c.Format()
	if err != nil {
		return err
	}

	var out []byte
	switch format {
	case FormatYAML:
		out, err = yaml.Marshal(v)
	default:
		out, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}

	c.UI.Output(string(out))
	return nil
}

// RenderRaw writes a JSON payload in the selected format.
func (c *Command) RenderRaw(payload json.RawMessage) error {
	if len(payload) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return c.Render(v)
}

// Fail reports err and returns the exit code. Classified request failures
// have already been shown by the notification channel.
func (c *Command) Fail(err error) int {
	var f *failure.Failure
	if !errors.As(err, &f) {
		c.UI.Error(err.Error())
	}
	c.Log.Debug("command failed", "error", err)
	return 1
}

// Context returns a context cancelled on interrupt.
func (c *Command) Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// ParseAndSetup parses flags and builds the runtime. On failure the error
// has been shown and the returned exit code should be used.
func (c *Command) ParseAndSetup(f *FlagSet, args []string) (*Runtime, int) {
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return nil, 1
	}
	if _, err := c.Format(); err != nil {
		c.UI.Error(err.Error())
		return nil, 1
	}

	rt, err := c.Runtime()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing planbook: %v", err))
		return nil, 1
	}
	return rt, 0
}
