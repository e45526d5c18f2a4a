package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/jrepp/planbook/internal/cmd/base"
	"github.com/jrepp/planbook/internal/cmd/commands/login"
	"github.com/jrepp/planbook/internal/cmd/commands/logout"
	"github.com/jrepp/planbook/internal/cmd/commands/memos"
	"github.com/jrepp/planbook/internal/cmd/commands/notes"
	"github.com/jrepp/planbook/internal/cmd/commands/open"
	"github.com/jrepp/planbook/internal/cmd/commands/plans"
	"github.com/jrepp/planbook/internal/cmd/commands/preferences"
	"github.com/jrepp/planbook/internal/cmd/commands/request"
	"github.com/jrepp/planbook/internal/cmd/commands/status"
	"github.com/jrepp/planbook/internal/cmd/commands/transfer"
	"github.com/jrepp/planbook/internal/cmd/commands/version"
)

// Commands is the mapping of all available planbook commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	Commands = newCommands(base.NewCommand(log, ui))
}

func newCommands(b *base.Command) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"login": func() (cli.Command, error) {
			return &login.Command{Command: b}, nil
		},
		"logout": func() (cli.Command, error) {
			return &logout.Command{Command: b}, nil
		},
		"status": func() (cli.Command, error) {
			return &status.Command{Command: b}, nil
		},
		"notes": func() (cli.Command, error) {
			return &notes.Command{Command: b}, nil
		},
		"notes search": func() (cli.Command, error) {
			return &notes.SearchCommand{Command: b}, nil
		},
		"notes stats": func() (cli.Command, error) {
			return &notes.StatsCommand{Command: b}, nil
		},
		"memos": func() (cli.Command, error) {
			return &memos.Command{Command: b}, nil
		},
		"memos latest": func() (cli.Command, error) {
			return &memos.LatestCommand{Command: b}, nil
		},
		"plans": func() (cli.Command, error) {
			return &plans.Command{Command: b}, nil
		},
		"plans quadrant": func() (cli.Command, error) {
			return &plans.QuadrantCommand{Command: b}, nil
		},
		"plans today": func() (cli.Command, error) {
			return &plans.TodayCommand{Command: b}, nil
		},
		"request": func() (cli.Command, error) {
			return &request.Command{Command: b}, nil
		},
		"download": func() (cli.Command, error) {
			return &transfer.DownloadCommand{Command: b}, nil
		},
		"upload": func() (cli.Command, error) {
			return &transfer.UploadCommand{Command: b}, nil
		},
		"open": func() (cli.Command, error) {
			return &open.Command{Command: b}, nil
		},
		"preferences": func() (cli.Command, error) {
			return &preferences.Command{Command: b}, nil
		},
		"preferences sidebar": func() (cli.Command, error) {
			return &preferences.SidebarCommand{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
