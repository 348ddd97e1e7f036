package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func newTestServer(t *testing.T, currency string) (*Server, *folio.Store) {
	t.Helper()
	ids := 0
	store := folio.NewStore(folio.Demo(),
		folio.WithClock(func() date.Date { return date.New(2025, 6, 30) }),
		folio.WithIDGenerator(func() string { ids++; return "h" + string(rune('0'+ids)) }),
	)
	return New(store, Config{Currency: currency, Log: zerolog.Nop()}), store
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// response is the JSON shape shared by the holding endpoints.
type response struct {
	Error    string            `json:"error"`
	ID       string            `json:"id"`
	Value    json.Number       `json:"value"`
	Holdings []json.RawMessage `json:"holdings"`
	Stats    struct {
		Count int `json:"count"`
	} `json:"stats"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var r response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r), rec.Body.String())
	return r
}

const newHolding = `{"name":"Vale","ticker":"VALE3","class":"equity","sector":"materials","quantity":10,
	"purchasePrice":60,"currentPrice":66,"risk":"high","dividendYield":9,"currency":"BRL"}`

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, "")
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestPortfolio(t *testing.T) {
	s, _ := newTestServer(t, "")
	rec := do(t, s, http.MethodGet, "/api/portfolio", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap struct {
		Holdings  []json.RawMessage `json:"holdings"`
		Aggregate struct {
			AsOf       string `json:"asOf"`
			TotalValue struct {
				Amount json.Number `json:"amount"`
			} `json:"totalValue"`
			ProfitHistory []json.RawMessage `json:"profitHistory"`
		} `json:"aggregate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Len(t, snap.Holdings, 3)
	assert.Equal(t, "2025-06-30", snap.Aggregate.AsOf)
	assert.Equal(t, "17300", snap.Aggregate.TotalValue.Amount.String())
	assert.Len(t, snap.Aggregate.ProfitHistory, folio.HistoryLength)
}

func TestListHoldings(t *testing.T) {
	s, _ := newTestServer(t, "")

	r := decode(t, do(t, s, http.MethodGet, "/api/holdings?class=pooled_fund", ""))
	assert.Len(t, r.Holdings, 1)
	assert.Equal(t, 1, r.Stats.Count)

	r = decode(t, do(t, s, http.MethodGet, "/api/holdings?min=5000&sort=value&desc=true", ""))
	require.Len(t, r.Holdings, 2)
	assert.Contains(t, string(r.Holdings[0]), `"ticker":"HGLG11"`)

	rec := do(t, s, http.MethodGet, "/api/holdings?sort=color", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Error, "unknown sort key")
}

func TestHoldingLifecycle(t *testing.T) {
	s, store := newTestServer(t, "BRL")
	before := store.Snapshot().Aggregate

	rec := do(t, s, http.MethodPost, "/api/holdings", newHolding)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "h4", created.ID)
	assert.Equal(t, "660", created.Value.String())
	assert.Equal(t, "/api/holdings/h4", rec.Header().Get("Location"))

	rec = do(t, s, http.MethodGet, "/api/holdings/h4", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	edited := strings.Replace(newHolding, `"currentPrice":66`, `"currentPrice":70`, 1)
	rec = do(t, s, http.MethodPut, "/api/holdings/h4", edited)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "700", decode(t, rec).Value.String())

	rec = do(t, s, http.MethodDelete, "/api/holdings/h4", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.True(t, before.TotalValue.Equal(store.Snapshot().Aggregate.TotalValue))
}

func TestAddHolding_DeletedBeforeResponse(t *testing.T) {
	s, store := newTestServer(t, "BRL")
	// delete the new holding right after it is committed, before the
	// handler writes its response.
	cancel := store.Subscribe(func(snap folio.Snapshot) {
		if len(snap.Holdings) != 4 {
			return
		}
		id := snap.Holdings[3].ID
		go store.Delete(id)
		for {
			if _, ok := store.Get(id); !ok {
				return
			}
			time.Sleep(time.Millisecond)
		}
	})
	defer cancel()

	rec := do(t, s, http.MethodPost, "/api/holdings", newHolding)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "h4", created.ID)
	assert.Equal(t, "660", created.Value.String())
	assert.Contains(t, rec.Body.String(), `"ticker":"VALE3"`)
}

func TestHoldingErrors(t *testing.T) {
	s, _ := newTestServer(t, "BRL")

	tests := []struct {
		name, method, target, body string
		status                     int
		message                    string
	}{
		{"get unknown", http.MethodGet, "/api/holdings/nope", "", http.StatusNotFound, "holding not found"},
		{"edit unknown", http.MethodPut, "/api/holdings/nope", newHolding, http.StatusNotFound, "holding not found"},
		{"delete unknown", http.MethodDelete, "/api/holdings/nope", "", http.StatusNotFound, "holding not found"},
		{"bad json", http.MethodPost, "/api/holdings", "{", http.StatusBadRequest, "invalid JSON"},
		{"missing ticker", http.MethodPost, "/api/holdings", `{"name":"x","class":"equity","sector":"energy"}`, http.StatusBadRequest, "Ticker: failed on required"},
		{"unknown class", http.MethodPost, "/api/holdings", strings.Replace(newHolding, `"equity"`, `"crypto"`, 1), http.StatusBadRequest, "unknown class"},
		{"negative price", http.MethodPost, "/api/holdings", strings.Replace(newHolding, `"currentPrice":66`, `"currentPrice":-1`, 1), http.StatusBadRequest, "current price must be positive"},
		{"other currency", http.MethodPost, "/api/holdings", strings.Replace(newHolding, `"BRL"`, `"USD"`, 1), http.StatusBadRequest, "currency mismatch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, decode(t, rec).Error, tt.message)
		})
	}
}

func TestExportCSV(t *testing.T) {
	s, _ := newTestServer(t, "")
	rec := do(t, s, http.MethodGet, "/api/export.csv", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, 4, strings.Count(rec.Body.String(), "\n"))
}

func TestCharts(t *testing.T) {
	s, _ := newTestServer(t, "")
	for _, target := range []string{
		"/api/charts/profit.svg",
		"/api/charts/distribution.svg",
		"/api/charts/distribution.svg?by=sector",
		"/api/charts/distribution.svg?by=risk",
	} {
		rec := do(t, s, http.MethodGet, target, "")
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"), target)
	}
	rec := do(t, s, http.MethodGet, "/api/charts/distribution.svg?by=color", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	empty := New(folio.NewStore(nil), Config{Log: zerolog.Nop()})
	rec = do(t, empty, http.MethodGet, "/api/charts/profit.svg", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStream(t *testing.T) {
	s, store := newTestServer(t, "")
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/stream", nil)
	require.NoError(t, err)
	defer c.CloseNow()

	type versioned struct {
		Version  uint64            `json:"version"`
		Holdings []json.RawMessage `json:"holdings"`
	}
	var first versioned
	require.NoError(t, wsjson.Read(ctx, c, &first))
	assert.Equal(t, uint64(1), first.Version)
	assert.Len(t, first.Holdings, 3)

	require.NoError(t, store.Delete("h1"))

	var next versioned
	require.NoError(t, wsjson.Read(ctx, c, &next))
	assert.Equal(t, uint64(2), next.Version)
	assert.Len(t, next.Holdings, 2)

	require.NoError(t, c.Close(websocket.StatusNormalClosure, ""))
}
