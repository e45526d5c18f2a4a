package preferences

import (
	"flag"
	"fmt"

	"github.com/mitchellh/cli"

	"github.com/jrepp/planbook/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Manage layout preferences"
}

func (c *Command) Help() string {
	return `Usage: planbook preferences <subcommand> [options] [args]

  This command groups subcommands for layout preferences shared with the
  web app.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

// SidebarCommand shows or changes whether the sidebar starts open.
type SidebarCommand struct {
	*base.Command
}

func (c *SidebarCommand) Synopsis() string {
	return "Show or change the sidebar preference"
}

func (c *SidebarCommand) Help() string {
	return `Usage: planbook preferences sidebar [options] [open|closed|toggle]

  Without an argument, prints whether the sidebar starts open.` +
		c.Flags().Help()
}

func (c *SidebarCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("preferences sidebar", flag.ContinueOnError))
	c.CommonFlags(f)
	return f
}

func (c *SidebarCommand) Run(args []string) int {
	f := c.Flags()
	rt, code := c.ParseAndSetup(f, args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	prefs := rt.Preferences
	var err error
	switch f.Arg(0) {
	case "":
	case "open":
		err = prefs.SetSidebarOpen(true)
	case "closed":
		err = prefs.SetSidebarOpen(false)
	case "toggle":
		_, err = prefs.ToggleSidebar()
	default:
		c.UI.Error(fmt.Sprintf("unknown sidebar state %q, expected open, closed, or toggle", f.Arg(0)))
		return 1
	}
	if err != nil {
		return c.Fail(err)
	}

	if err := c.Render(map[string]bool{"sidebarOpen": prefs.SidebarOpen()}); err != nil {
		return c.Fail(err)
	}
	return 0
}
