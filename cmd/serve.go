package cmd

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/scheduler"
	"github.com/etnz/folio/server"
	"github.com/google/subcommands"
)

// recomputeSchedule rolls the profit history over at midnight.
const recomputeSchedule = "0 0 * * *"

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	addr     string
	cacheDir string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the dashboard API" }
func (*serveCmd) Usage() string {
	return `pfd serve [-addr <host:port>] [-daily-cache <dir>]

  Serves the portfolio over HTTP and pushes every change on a websocket.
  Changes are saved to the holdings file. Prices are refreshed on the
  quotes.schedule cron expression when a quote provider is configured.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, overrides the configuration")
	f.StringVar(&c.cacheDir, "daily-cache", "", "Cache quote responses for the day in this folder")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	log := newLogger(cfg)
	store, err := openStore(cfg, log, true)
	if err != nil {
		return fail(err)
	}

	var saved uint64
	cancel := store.Subscribe(func(s folio.Snapshot) {
		if s.Version <= saved {
			return
		}
		saved = s.Version
		if err := folio.SaveHoldings(cfg.HoldingsFile, s.Holdings); err != nil {
			log.Error().Err(err).Str("file", cfg.HoldingsFile).Msg("cannot save holdings")
		}
	})
	defer cancel()

	sched := scheduler.New(log)
	if err := sched.AddJob(recomputeSchedule, scheduler.RecomputeJob{Store: store}); err != nil {
		return fail(err)
	}
	if cfg.Quotes.URL != "" && cfg.Quotes.Schedule != "" {
		client, err := newQuoteClient(cfg, log, c.cacheDir)
		if err != nil {
			return fail(err)
		}
		job := scheduler.QuoteJob{Client: client, Store: store, Log: log}
		if err := sched.AddJob(cfg.Quotes.Schedule, job); err != nil {
			return fail(err)
		}
		if err := sched.RunNow(job); err != nil {
			log.Warn().Err(err).Msg("initial quote refresh failed")
		}
	}
	sched.Start()
	defer sched.Stop()

	addr := cfg.Server.Addr()
	if c.addr != "" {
		addr = c.addr
	}
	srv := server.New(store, server.Config{
		Addr:           addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Currency:       cfg.Currency,
		Log:            log,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		if err != nil {
			return fail(err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fail(err)
		}
	}
	return subcommands.ExitSuccess
}
