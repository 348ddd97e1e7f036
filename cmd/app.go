// Package cmd implements the pfd command line: reports on the holdings
// file, edits it and serves the dashboard.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile   = flag.String("config", "folio.toml", "Path to the TOML configuration file")
	holdingsFile = flag.String("holdings-file", "", "Path to the holdings file (JSONL), overrides the configuration")
	verbose      = flag.Bool("v", false, "Log debug messages")
	raw          = flag.Bool("raw", false, "Print markdown reports without terminal styling")
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// commands returns every subcommand with its group.
func commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"reports": {
			&overviewCmd{},
			&holdingsCmd{},
			&holdingCmd{},
			&analyticsCmd{},
			&chartCmd{},
			&exportCmd{},
		},
		"holdings": {
			&initCmd{},
			&addCmd{},
			&editCmd{},
			&deleteCmd{},
			&refreshCmd{},
		},
		"dashboard": {
			&serveCmd{},
			&assistCmd{},
		},
		"help": {
			&topicCmd{},
		},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range commands() {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// loadConfig loads the configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *holdingsFile != "" {
		cfg.HoldingsFile = *holdingsFile
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return config.NewLogger(cfg.Logging, stderr)
}

// openStore loads the holdings file into a new store. A missing file is an
// empty portfolio, or the demo portfolio when demo is set.
func openStore(cfg *config.Config, log zerolog.Logger, demo bool) (*folio.Store, error) {
	holdings, err := folio.LoadHoldings(cfg.HoldingsFile)
	if folio.IsNotExist(err) {
		holdings, err = nil, nil
		if demo {
			log.Warn().Str("file", cfg.HoldingsFile).Msg("holdings file does not exist, showing the demo portfolio")
			holdings = folio.Demo()
		}
	}
	if err != nil {
		return nil, err
	}
	return folio.NewStore(holdings, folio.WithLogger(log)), nil
}

// saveStore writes the store holdings back to the holdings file.
func saveStore(cfg *config.Config, s *folio.Store) error {
	return folio.SaveHoldings(cfg.HoldingsFile, s.Snapshot().Holdings)
}

// findHolding looks key up as an ID first, then as a ticker.
func findHolding(s *folio.Store, key string) (folio.Holding, error) {
	if h, ok := s.Get(key); ok {
		return h, nil
	}
	for _, h := range s.Snapshot().Holdings {
		if strings.EqualFold(h.Ticker, key) {
			return h, nil
		}
	}
	return folio.Holding{}, fmt.Errorf("holding %q: %w", key, folio.ErrNotFound)
}

// checkCurrency rejects holdings in another currency than the configured one.
func checkCurrency(cfg *config.Config, h folio.Holding) error {
	if cfg.Currency != "" && h.Currency != cfg.Currency {
		return fmt.Errorf("%w: holding %q is in %s, portfolio is in %s", folio.ErrCurrencyMismatch, h.Ticker, h.Currency, cfg.Currency)
	}
	return nil
}

// renderMarkdown styles markdown for the terminal.
var renderMarkdown = func(md string) string {
	if *raw {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) {
	fmt.Fprint(stdout, renderMarkdown(md))
}

// fail prints err and returns the exit status matching it.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errors.Is(err, errUsage) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

var errUsage = errors.New("usage")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}
