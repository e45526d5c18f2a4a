package notes

import (
	"flag"
	"strings"

	"github.com/jrepp/planbook/internal/cmd/base"
	"github.com/jrepp/planbook/pkg/resources"
)

// Command lists notes.
type Command struct {
	*base.Command

	flagCategory  int64
	flagFavorites bool
	flagKeyword   string
}

func (c *Command) Synopsis() string {
	return "List notes"
}

func (c *Command) Help() string {
	return `Usage: planbook notes [options]
       planbook notes search <keyword>
       planbook notes stats

  Lists notes, optionally filtered by category, keyword, or favorites.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("notes", flag.ContinueOnError))
	c.CommonFlags(f)

	f.Int64Var(
		&c.flagCategory, "category", 0,
		"Only list notes in this category id.",
	)
	f.BoolVar(
		&c.flagFavorites, "favorites", false,
		"Only list favorite notes.",
	)
	f.StringVar(
		&c.flagKeyword, "keyword", "",
		"Only list notes matching this keyword.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	rt, code := c.ParseAndSetup(c.Flags(), args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	q := &resources.NoteQuery{}
	q.Keyword = c.flagKeyword
	if c.flagCategory != 0 {
		q.CategoryID = &c.flagCategory
	}
	if c.flagFavorites {
		favorited := 1
		q.Favorited = &favorited
	}

	ctx, cancel := c.Context()
	defer cancel()

	notes, err := rt.Services.Notes.List(ctx, q)
	if err != nil {
		return c.Fail(err)
	}
	if err := c.Render(notes); err != nil {
		return c.Fail(err)
	}
	return 0
}

// SearchCommand searches notes by keyword.
type SearchCommand struct {
	*base.Command
}

func (c *SearchCommand) Synopsis() string {
	return "Search notes by keyword"
}

func (c *SearchCommand) Help() string {
	return `Usage: planbook notes search [options] <keyword>

  Searches note titles and content.` +
		c.Flags().Help()
}

func (c *SearchCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("notes search", flag.ContinueOnError))
	c.CommonFlags(f)
	return f
}

func (c *SearchCommand) Run(args []string) int {
	f := c.Flags()
	rt, code := c.ParseAndSetup(f, args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	keyword := strings.TrimSpace(strings.Join(f.Args(), " "))
	if keyword == "" {
		c.UI.Error("a keyword is required")
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	notes, err := rt.Services.Notes.Search(ctx, keyword)
	if err != nil {
		return c.Fail(err)
	}
	if err := c.Render(notes); err != nil {
		return c.Fail(err)
	}
	return 0
}

// StatsCommand shows note statistics.
type StatsCommand struct {
	*base.Command
}

func (c *StatsCommand) Synopsis() string {
	return "Show note counts by category"
}

func (c *StatsCommand) Help() string {
	return `Usage: planbook notes stats [options]

  Shows total, favorite, and per-category note counts.` +
		c.Flags().Help()
}

func (c *StatsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("notes stats", flag.ContinueOnError))
	c.CommonFlags(f)
	return f
}

func (c *StatsCommand) Run(args []string) int {
	rt, code := c.ParseAndSetup(c.Flags(), args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	ctx, cancel := c.Context()
	defer cancel()

	stats, err := rt.Services.Notes.Statistics(ctx)
	if err != nil {
		return c.Fail(err)
	}
	if err := c.Render(stats); err != nil {
		return c.Fail(err)
	}
	return 0
}
