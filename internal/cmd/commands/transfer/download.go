package transfer

import (
	"flag"
	"fmt"
	"io"

	"github.com/jrepp/planbook/internal/cmd/base"
)

type DownloadCommand struct {
	*base.Command

	flagOutput string
}

func (c *DownloadCommand) Synopsis() string {
	return "Download a file from the backend"
}

func (c *DownloadCommand) Help() string {
	return `Usage: planbook download [options] <path>

  Downloads the response body of <path> as-is. Without -o the body is
  written to standard output.` +
		c.Flags().Help()
}

func (c *DownloadCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("download", flag.ContinueOnError))
	c.CommonFlags(f)

	f.StringVar(
		&c.flagOutput, "o", "",
		"Write the download to this file.",
	)

	return f
}

func (c *DownloadCommand) Run(args []string) int {
	f := c.Flags()
	rt, code := c.ParseAndSetup(f, args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	if f.NArg() != 1 {
		c.UI.Error("expected <path>")
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	resp, err := rt.Client.Download(ctx, f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}
	defer resp.Body.Close()

	out := c.Stdout
	if c.flagOutput != "" {
		file, err := c.Fs.Create(c.flagOutput)
		if err != nil {
			return c.Fail(fmt.Errorf("error creating output file: %w", err))
		}
		defer file.Close()
		out = file
	}

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return c.Fail(fmt.Errorf("error writing download: %w", err))
	}
	if c.flagOutput != "" {
		c.UI.Info(fmt.Sprintf("Wrote %d bytes to %s", n, c.flagOutput))
	}
	return 0
}
