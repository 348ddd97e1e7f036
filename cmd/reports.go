package cmd

import (
	"context"
	"flag"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type overviewCmd struct{}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "display the portfolio totals and allocation" }
func (*overviewCmd) Usage() string {
	return `pfd overview

  Displays the total value and change of the portfolio, quick statistics,
  the allocation by asset class and the largest sectors.
`
}

func (*overviewCmd) SetFlags(*flag.FlagSet) {}

func (*overviewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	store, err := openStore(cfg, newLogger(cfg), true)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Overview(store.Snapshot()))
	return subcommands.ExitSuccess
}

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	class string
	min   string
	max   string
	sort  string
	desc  bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "list the holdings" }
func (*holdingsCmd) Usage() string {
	return `pfd holdings [-class <class>] [-min <value>] [-max <value>] [-sort <key>] [-desc]

  Lists the holdings, optionally filtered by class and value range, and sorted.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.class, "class", "", "Keep only this asset class: equity, fixed_income or pooled_fund")
	f.StringVar(&c.min, "min", "", "Keep holdings worth at least this value")
	f.StringVar(&c.max, "max", "", "Keep holdings worth at most this value")
	f.StringVar(&c.sort, "sort", "", "Sort key: value, change, risk, name, quantity, currentPrice or purchasePrice")
	f.BoolVar(&c.desc, "desc", false, "Sort in descending order")
}

func (c *holdingsCmd) filter() (folio.Filter, error) {
	f := folio.Filter{Descending: c.desc}
	var err error
	if c.class != "" {
		if f.Class, err = folio.ParseClass(c.class); err != nil {
			return f, usageErrorf("%v", err)
		}
	}
	if f.SortBy, err = folio.ParseSortKey(c.sort); err != nil {
		return f, usageErrorf("%v", err)
	}
	if c.min != "" {
		if f.MinValue, err = decimal.NewFromString(c.min); err != nil {
			return f, usageErrorf("invalid -min %q", c.min)
		}
	}
	if c.max != "" {
		if f.MaxValue, err = decimal.NewFromString(c.max); err != nil {
			return f, usageErrorf("invalid -max %q", c.max)
		}
	}
	return f, nil
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.filter()
	if err != nil {
		return fail(err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	store, err := openStore(cfg, newLogger(cfg), true)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.HoldingsTable(filter.Apply(store.Snapshot().Holdings)))
	return subcommands.ExitSuccess
}

type holdingCmd struct{}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display one holding" }
func (*holdingCmd) Usage() string {
	return `pfd holding <id|ticker>

  Displays every field of a holding.
`
}

func (*holdingCmd) SetFlags(*flag.FlagSet) {}

func (*holdingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(usageErrorf("holding expects exactly one id or ticker"))
	}
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	store, err := openStore(cfg, newLogger(cfg), true)
	if err != nil {
		return fail(err)
	}
	h, err := findHolding(store, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Holding(h))
	return subcommands.ExitSuccess
}

type analyticsCmd struct{}

func (*analyticsCmd) Name() string     { return "analytics" }
func (*analyticsCmd) Synopsis() string { return "display risk, profit history and metrics" }
func (*analyticsCmd) Usage() string {
	return `pfd analytics

  Displays the summary metrics, the risk distribution and the profit history
  by asset class.
`
}

func (*analyticsCmd) SetFlags(*flag.FlagSet) {}

func (*analyticsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	store, err := openStore(cfg, newLogger(cfg), true)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Analytics(store.Snapshot()))
	return subcommands.ExitSuccess
}
