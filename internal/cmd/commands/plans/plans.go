package plans

import (
	"flag"
	"fmt"

	"github.com/jrepp/planbook/internal/cmd/base"
	"github.com/jrepp/planbook/pkg/resources"
)

// Command lists plans.
type Command struct {
	*base.Command

	flagStatus   string
	flagCategory int64
	flagKeyword  string
	flagTags     string
}

func (c *Command) Synopsis() string {
	return "List plans"
}

func (c *Command) Help() string {
	return `Usage: planbook plans [options]
       planbook plans quadrant
       planbook plans today

  Lists plans, optionally filtered by status, category, keyword, or tags.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("plans", flag.ContinueOnError))
	c.CommonFlags(f)

	f.StringVar(
		&c.flagStatus, "status", "",
		"Only list plans in this state: open or done.",
	)
	f.Int64Var(
		&c.flagCategory, "category", 0,
		"Only list plans in this category id.",
	)
	f.StringVar(
		&c.flagKeyword, "keyword", "",
		"Only list plans matching this keyword.",
	)
	f.StringVar(
		&c.flagTags, "tags", "",
		"Only list plans with these tags.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	rt, code := c.ParseAndSetup(c.Flags(), args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	q := &resources.PlanQuery{
		Keyword: c.flagKeyword,
		Tags:    c.flagTags,
	}
	if c.flagCategory != 0 {
		q.CategoryID = &c.flagCategory
	}
	switch c.flagStatus {
	case "":
	case "open":
		status := resources.PlanStatusOpen
		q.Status = &status
	case "done":
		status := resources.PlanStatusDone
		q.Status = &status
	default:
		c.UI.Error(fmt.Sprintf("unknown status %q, expected open or done", c.flagStatus))
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	plans, err := rt.Services.Plans.List(ctx, q)
	if err != nil {
		return c.Fail(err)
	}
	if err := c.Render(plans); err != nil {
		return c.Fail(err)
	}
	return 0
}

// QuadrantCommand shows plans by importance and urgency.
type QuadrantCommand struct {
	*base.Command
}

func (c *QuadrantCommand) Synopsis() string {
	return "Show plans by importance and urgency"
}

func (c *QuadrantCommand) Help() string {
	return `Usage: planbook plans quadrant [options]` +
		c.Flags().Help()
}

func (c *QuadrantCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("plans quadrant", flag.ContinueOnError))
	c.CommonFlags(f)
	return f
}

func (c *QuadrantCommand) Run(args []string) int {
	rt, code := c.ParseAndSetup(c.Flags(), args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	ctx, cancel := c.Context()
	defer cancel()

	quadrants, err := rt.Services.Plans.Quadrants(ctx)
	if err != nil {
		return c.Fail(err)
	}
	if err := c.Render(quadrants); err != nil {
		return c.Fail(err)
	}
	return 0
}

// TodayCommand shows today's checklist.
type TodayCommand struct {
	*base.Command
}

func (c *TodayCommand) Synopsis() string {
	return "Show today's checklist"
}

func (c *TodayCommand) Help() string {
	return `Usage: planbook plans today [options]` +
		c.Flags().Help()
}

func (c *TodayCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("plans today", flag.ContinueOnError))
	c.CommonFlags(f)
	return f
}

func (c *TodayCommand) Run(args []string) int {
	rt, code := c.ParseAndSetup(c.Flags(), args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	ctx, cancel := c.Context()
	defer cancel()

	entries, err := rt.Services.PlanExecutions.Today(ctx)
	if err != nil {
		return c.Fail(err)
	}
	if err := c.Render(entries); err != nil {
		return c.Fail(err)
	}
	return 0
}
