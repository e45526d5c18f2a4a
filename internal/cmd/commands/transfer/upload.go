package transfer

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/jrepp/planbook/internal/cmd/base"
	"github.com/jrepp/planbook/pkg/apiclient"
)

type UploadCommand struct {
	*base.Command

	flagField string
	flagForm  base.StringSliceFlag
}

func (c *UploadCommand) Synopsis() string {
	return "Upload a file to the backend"
}

func (c *UploadCommand) Help() string {
	return `Usage: planbook upload [options] <path> <file>

  Uploads <file> as multipart/form-data to <path> and prints the
  unwrapped payload.` +
		c.Flags().Help()
}

func (c *UploadCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("upload", flag.ContinueOnError))
	c.CommonFlags(f)

	f.StringVar(
		&c.flagField, "field", "file",
		"Form field name for the file.",
	)
	f.Var(
		&c.flagForm, "form",
		"Extra form field as key=value. Can be repeated.",
	)

	return f
}

func (c *UploadCommand) Run(args []string) int {
	c.flagForm = nil

	f := c.Flags()
	rt, code := c.ParseAndSetup(f, args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	if f.NArg() != 2 {
		c.UI.Error("expected <path> <file>")
		return 1
	}
	path, filename := f.Arg(0), f.Arg(1)

	fields, err := base.KeyValues(c.flagForm)
	if err != nil {
		c.UI.Error(fmt.Sprintf("invalid -form: %v", err))
		return 1
	}

	file, err := c.Fs.Open(filename)
	if err != nil {
		return c.Fail(fmt.Errorf("error opening file: %w", err))
	}
	defer file.Close()

	form := apiclient.NewMultipart()
	for k, v := range fields {
		form.AddField(k, v)
	}
	form.AddFile(c.flagField, filepath.Base(filename), file)

	ctx, cancel := c.Context()
	defer cancel()

	payload, err := rt.Client.Upload(ctx, path, form)
	if err != nil {
		return c.Fail(err)
	}
	if err := c.RenderRaw(payload); err != nil {
		return c.Fail(err)
	}
	return 0
}
