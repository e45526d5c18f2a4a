package logout

import (
	"flag"

	"github.com/jrepp/planbook/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Sign out and forget the session"
}

func (c *Command) Help() string {
	return `Usage: planbook logout [options]

  Signs out of the planbook backend. The local session is cleared even
  when the backend cannot be reached.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("logout", flag.ContinueOnError))
	c.CommonFlags(f)
	return f
}

func (c *Command) Run(args []string) int {
	rt, code := c.ParseAndSetup(c.Flags(), args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	if !rt.Session.IsLoggedIn() {
		c.UI.Info("Not logged in")
		return 0
	}

	ctx, cancel := c.Context()
	defer cancel()

	if err := rt.Services.Auth.Logout(ctx); err != nil {
		c.Fail(err)
		c.UI.Warn("Local session cleared")
		return 1
	}

	c.UI.Info("Logged out")
	return 0
}
