package login

import (
	"flag"
	"fmt"
	"strings"

	"github.com/jrepp/planbook/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagUsername string
	flagPassword string
}

func (c *Command) Synopsis() string {
	return "Sign in and store the session token"
}

func (c *Command) Help() string {
	return `Usage: planbook login [options]

  Signs in to the planbook backend and stores the session token so later
  commands are authenticated. Missing credentials are prompted for.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("login", flag.ContinueOnError))
	c.CommonFlags(f)

	f.StringVar(
		&c.flagUsername, "username", "",
		"Account username.",
	)
	f.StringVar(
		&c.flagPassword, "password", "",
		"Account password. Prefer the interactive prompt.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	rt, code := c.ParseAndSetup(c.Flags(), args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	username := strings.TrimSpace(c.flagUsername)
	if username == "" {
		answer, err := c.UI.Ask("Username:")
		if err != nil {
			return c.Fail(fmt.Errorf("error reading username: %w", err))
		}
		username = strings.TrimSpace(answer)
	}
	password := c.flagPassword
	if password == "" {
		answer, err := c.UI.AskSecret("Password:")
		if err != nil {
			return c.Fail(fmt.Errorf("error reading password: %w", err))
		}
		password = answer
	}

	ctx, cancel := c.Context()
	defer cancel()

	if err := rt.Services.Auth.Login(ctx, username, password); err != nil {
		return c.Fail(err)
	}

	c.UI.Info(fmt.Sprintf("Logged in as %s", rt.Session.DisplayName()))
	return 0
}
