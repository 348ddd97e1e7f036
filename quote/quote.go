// Package quote fetches current prices from a JSON HTTP API and applies
// them to the holdings of a store.
package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/folio"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 2 // requests per second
)

// Client fetches quotes from a JSON API.
//
// The request URL is a template where "{ticker}" is replaced by the escaped
// ticker, the price is extracted from the response with a JSONPath
// expression.
type Client struct {
	urlTemplate string
	path        string
	httpClient  *http.Client
	limiter     *rate.Limiter
	log         zerolog.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithRateLimit sets the maximum number of requests per second.
func WithRateLimit(requestsPerSecond float64) ClientOption {
	return func(c *Client) {
		burst := max(1, int(requestsPerSecond))
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithHTTPClient sets the HTTP client, its transport is kept by WithDailyCache.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = client }
}

// WithDailyCache caches successful responses in dir for the day.
func WithDailyCache(dir string) ClientOption {
	return func(c *Client) {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.httpClient.Transport = &dailyCache{base: base, dir: dir, log: c.log}
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log.With().Str("component", "quote").Logger() }
}

// NewClient creates a quote client.
func NewClient(urlTemplate, path string, opts ...ClientOption) (*Client, error) {
	if !strings.Contains(urlTemplate, "{ticker}") {
		return nil, fmt.Errorf("quote url %q has no {ticker} placeholder", urlTemplate)
	}
	if _, err := jsonpath.New(path); err != nil {
		return nil, fmt.Errorf("invalid quote path %q: %w", path, err)
	}
	c := &Client{
		urlTemplate: urlTemplate,
		path:        path,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Price returns the latest price of ticker.
func (c *Client) Price(ctx context.Context, ticker string) (decimal.Decimal, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}
	addr := strings.ReplaceAll(c.urlTemplate, "{ticker}", url.QueryEscape(ticker))

	var jobj any
	if err := jwget(ctx, c.httpClient, addr, &jobj); err != nil {
		return decimal.Zero, fmt.Errorf("error retrieving %q: %w", ticker, err)
	}
	jval, err := jsonpath.Get(c.path, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error parsing %q: %q %w", ticker, c.path, err)
	}
	// jsonpath may return a list of one answer or the answer itself.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	var price decimal.Decimal
	switch v := jval.(type) {
	case float64:
		price = decimal.NewFromFloat(v)
	case string:
		// some APIs return the value as a string, with a decimal comma.
		s := strings.ReplaceAll(strings.ReplaceAll(v, ",", "."), " ", "")
		price, err = decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("cannot read value from %q: invalid string %q: %w", ticker, v, err)
		}
	default:
		return decimal.Zero, fmt.Errorf("cannot read value from %q: neither a float nor a string: %v", ticker, jval)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("no price for %q: got %v", ticker, price)
	}
	return price, nil
}

// Store is the part of folio.Store the refresher needs.
type Store interface {
	Snapshot() folio.Snapshot
	Update(id string, f func(*folio.Holding)) error
}

// Refresh fetches the price of every holding and updates its current price,
// leaving the other fields as they are in the store at that time.
// It goes on after a failure and returns the number of updated holdings
// with all the errors joined.
func (c *Client) Refresh(ctx context.Context, store Store) (int, error) {
	var (
		errs    []error
		updated int
	)
	for _, h := range store.Snapshot().Holdings {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		price, err := c.Price(ctx, h.Ticker)
		if err != nil {
			c.log.Warn().Err(err).Str("ticker", h.Ticker).Msg("quote failed")
			errs = append(errs, err)
			continue
		}
		if price.Equal(h.CurrentPrice.Amount()) {
			continue
		}
		err = store.Update(h.ID, func(cur *folio.Holding) {
			cur.CurrentPrice = folio.M(price, cur.CurrentPrice.Currency())
			h = *cur
		})
		if errors.Is(err, folio.ErrNotFound) {
			// deleted while fetching
			continue
		} else if err != nil {
			errs = append(errs, err)
			continue
		}
		updated++
		c.log.Info().Str("ticker", h.Ticker).Str("price", h.CurrentPrice.String()).Msg("price updated")
	}
	return updated, errors.Join(errs...)
}
