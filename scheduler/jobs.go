package scheduler

import (
	"context"

	"github.com/etnz/folio"
	"github.com/etnz/folio/quote"
	"github.com/rs/zerolog"
)

// QuoteJob refreshes the current prices of the store holdings.
type QuoteJob struct {
	Client *quote.Client
	Store  quote.Store
	Log    zerolog.Logger
}

func (j QuoteJob) Name() string { return "quote_refresh" }

func (j QuoteJob) Run(ctx context.Context) error {
	n, err := j.Client.Refresh(ctx, j.Store)
	j.Log.Info().Int("updated", n).Msg("quotes refreshed")
	return err
}

// RecomputeJob recomputes the store aggregate, so that the profit history
// follows the calendar without any mutation.
type RecomputeJob struct {
	Store *folio.Store
}

func (j RecomputeJob) Name() string { return "recompute" }

func (j RecomputeJob) Run(context.Context) error {
	j.Store.Recompute()
	return nil
}
