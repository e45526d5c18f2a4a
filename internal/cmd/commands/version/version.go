package version

import (
	"github.com/jrepp/planbook/internal/cmd/base"
	"github.com/jrepp/planbook/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the planbook version"
}

func (c *Command) Help() string {
	return "Usage: planbook version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output("planbook " + version.FullVersion())
	return 0
}
