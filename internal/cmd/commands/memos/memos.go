package memos

import (
	"flag"

	"github.com/jrepp/planbook/internal/cmd/base"
	"github.com/jrepp/planbook/pkg/resources"
)

// Command lists memos.
type Command struct {
	*base.Command

	flagTag     string
	flagPinned  bool
	flagKeyword string
}

func (c *Command) Synopsis() string {
	return "List memos"
}

func (c *Command) Help() string {
	return `Usage: planbook memos [options]
       planbook memos latest

  Lists sticky memos, optionally filtered by tag, keyword, or pinned state.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("memos", flag.ContinueOnError))
	c.CommonFlags(f)

	f.StringVar(
		&c.flagTag, "tag", "",
		"Only list memos with this tag.",
	)
	f.BoolVar(
		&c.flagPinned, "pinned", false,
		"Only list pinned memos.",
	)
	f.StringVar(
		&c.flagKeyword, "keyword", "",
		"Only list memos matching this keyword.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	rt, code := c.ParseAndSetup(c.Flags(), args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	q := &resources.MemoQuery{
		Tag:     c.flagTag,
		Keyword: c.flagKeyword,
	}
	if c.flagPinned {
		pinned := 1
		q.Pinned = &pinned
	}

	ctx, cancel := c.Context()
	defer cancel()

	memos, err := rt.Services.Memos.List(ctx, q)
	if err != nil {
		return c.Fail(err)
	}
	if err := c.Render(memos); err != nil {
		return c.Fail(err)
	}
	return 0
}

// LatestCommand shows the most recently modified memos.
type LatestCommand struct {
	*base.Command
}

func (c *LatestCommand) Synopsis() string {
	return "Show the most recently modified memos"
}

func (c *LatestCommand) Help() string {
	return `Usage: planbook memos latest [options]` +
		c.Flags().Help()
}

func (c *LatestCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("memos latest", flag.ContinueOnError))
	c.CommonFlags(f)
	return f
}

func (c *LatestCommand) Run(args []string) int {
	rt, code := c.ParseAndSetup(c.Flags(), args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	ctx, cancel := c.Context()
	defer cancel()

	memos, err := rt.Services.Memos.Latest(ctx)
	if err != nil {
		return c.Fail(err)
	}
	if err := c.Render(memos); err != nil {
		return c.Fail(err)
	}
	return 0
}
