package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/chart"
	"github.com/google/subcommands"
)

// create opens output, "" is stdout. The returned close function reports
// the file close error.
func create(output string) (io.Writer, func() error, error) {
	if output == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the holdings as JSONL or CSV" }
func (*exportCmd) Usage() string {
	return `pfd export [-format jsonl|csv] [-o <file>]

  Writes the holdings with their computed value and change.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "csv", "Output format: csv or jsonl")
	f.StringVar(&c.output, "o", "", "Output file, stdout by default")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var encode func(io.Writer, []folio.Holding) error
	switch c.format {
	case "csv":
		encode = folio.EncodeCSV
	case "jsonl":
		encode = folio.EncodeHoldings
	default:
		return fail(usageErrorf("unknown format %q", c.format))
	}

	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	store, err := openStore(cfg, newLogger(cfg), true)
	if err != nil {
		return fail(err)
	}
	w, closeFn, err := create(c.output)
	if err != nil {
		return fail(err)
	}
	err = encode(w, store.Snapshot().Holdings)
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// chartCmd holds the flags for the 'chart' subcommand.
type chartCmd struct {
	kind   string
	format string
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "draw a chart of the portfolio" }
func (*chartCmd) Usage() string {
	return `pfd chart [-kind profit|class|sector|risk] [-format svg|png] [-o <file>]

  Draws the profit history or a distribution.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "profit", "Chart kind: profit, class, sector or risk")
	f.StringVar(&c.format, "format", "svg", "Image format: svg or png")
	f.StringVar(&c.output, "o", "", "Output file, stdout by default")
}

func (c *chartCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var format chart.Format
	switch c.format {
	case "svg":
		format = chart.SVG
	case "png":
		format = chart.PNG
	default:
		return fail(usageErrorf("unknown format %q", c.format))
	}

	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	store, err := openStore(cfg, newLogger(cfg), true)
	if err != nil {
		return fail(err)
	}
	agg := store.Snapshot().Aggregate

	var draw func(io.Writer) error
	switch c.kind {
	case "profit":
		draw = func(w io.Writer) error { return chart.ProfitHistory(w, format, agg.ProfitHistory) }
	case "class":
		draw = func(w io.Writer) error { return chart.Distribution(w, format, "Allocation", agg.Distribution) }
	case "sector":
		draw = func(w io.Writer) error { return chart.Distribution(w, format, "Sectors", agg.SectorDistribution) }
	case "risk":
		draw = func(w io.Writer) error { return chart.Distribution(w, format, "Risk", agg.RiskDistribution) }
	default:
		return fail(usageErrorf("unknown chart kind %q", c.kind))
	}

	w, closeFn, err := create(c.output)
	if err != nil {
		return fail(err)
	}
	err = draw(w)
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	if err != nil {
		return fail(fmt.Errorf("cannot draw %s chart: %w", c.kind, err))
	}
	return subcommands.ExitSuccess
}
