package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/folio/config"
	"github.com/etnz/folio/quote"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// newQuoteClient creates the quote client from the configuration. An empty
// cacheDir disables the daily cache.
func newQuoteClient(cfg *config.Config, log zerolog.Logger, cacheDir string) (*quote.Client, error) {
	if cfg.Quotes.URL == "" {
		return nil, errors.New("no quote provider configured, set quotes.url or FOLIO_QUOTE_URL")
	}
	opts := []quote.ClientOption{
		quote.WithLogger(log),
		quote.WithTimeout(cfg.Quotes.GetTimeout()),
	}
	if cfg.Quotes.RateLimit > 0 {
		opts = append(opts, quote.WithRateLimit(cfg.Quotes.RateLimit))
	}
	if cacheDir != "" {
		opts = append(opts, quote.WithDailyCache(cacheDir))
	}
	return quote.NewClient(cfg.Quotes.URL, cfg.Quotes.Path, opts...)
}

// refreshCmd holds the flags for the 'refresh' subcommand.
type refreshCmd struct {
	cacheDir string
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "update current prices from the quote provider" }
func (*refreshCmd) Usage() string {
	return `pfd refresh [-daily-cache <dir>]

  Fetches the latest price of every holding and saves the holdings file.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cacheDir, "daily-cache", "", "Cache quote responses for the day in this folder")
}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	log := newLogger(cfg)
	client, err := newQuoteClient(cfg, log, c.cacheDir)
	if err != nil {
		return fail(err)
	}
	store, err := openStore(cfg, log, false)
	if err != nil {
		return fail(err)
	}

	n, refreshErr := client.Refresh(ctx, store)
	if n > 0 {
		if err := saveStore(cfg, store); err != nil {
			return fail(err)
		}
	}
	fmt.Fprintf(stdout, "Updated %d prices\n", n)
	if refreshErr != nil {
		return fail(refreshErr)
	}
	return subcommands.ExitSuccess
}
