package open

import (
	"context"
	"flag"
	"fmt"

	"github.com/jrepp/planbook/internal/cmd/base"
	"github.com/jrepp/planbook/pkg/navigation"
)

type Command struct {
	*base.Command

	flagPrint bool
}

func (c *Command) Synopsis() string {
	return "Open a web app page in the browser"
}

func (c *Command) Help() string {
	return `Usage: planbook open [options] [page]

  Opens a page of the planbook web app, /dashboard by default. Pages that
  need a session send you to sign in first when none is stored, and the
  sign-in page sends you to the dashboard when one is.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("open", flag.ContinueOnError))
	c.CommonFlags(f)

	f.BoolVar(
		&c.flagPrint, "print", false,
		"Print the URL instead of opening it.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	rt, code := c.ParseAndSetup(f, args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	page := navigation.PathDashboard
	if f.NArg() > 0 {
		page = f.Arg(0)
	}
	dest, err := navigation.ParseLocation(page)
	if err != nil {
		c.UI.Error(fmt.Sprintf("invalid page: %v", err))
		return 1
	}

	var nav navigation.Navigator = rt.Browser
	if c.flagPrint {
		nav = navigation.NavigatorFunc(func(_ context.Context, to navigation.Location) error {
			c.UI.Output(rt.Browser.URL(to))
			return nil
		})
	}

	ctx, cancel := c.Context()
	defer cancel()

	decision, err := rt.Guard.Navigate(ctx, nav, dest)
	if err != nil {
		return c.Fail(fmt.Errorf("error opening %s: %w", rt.Browser.URL(decision.Target), err))
	}
	if decision.Outcome == navigation.Redirected {
		c.UI.Warn(fmt.Sprintf("Redirected to %s", decision.Target))
	}
	return 0
}
