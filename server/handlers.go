package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/chart"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// maxBodySize is the maximum size of a request body.
const maxBodySize = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.store.Snapshot().Version,
	})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// parseFilter reads a folio.Filter from the query parameters class, min,
// max, sort and desc.
func parseFilter(r *http.Request) (folio.Filter, error) {
	q := r.URL.Query()
	var f folio.Filter
	var err error
	if v := q.Get("class"); v != "" && v != "all" {
		if f.Class, err = folio.ParseClass(v); err != nil {
			return f, err
		}
	}
	if v := q.Get("min"); v != "" {
		if f.MinValue, err = decimal.NewFromString(v); err != nil {
			return f, fmt.Errorf("invalid min %q: %w", v, err)
		}
	}
	if v := q.Get("max"); v != "" {
		if f.MaxValue, err = decimal.NewFromString(v); err != nil {
			return f, fmt.Errorf("invalid max %q: %w", v, err)
		}
	}
	if f.SortBy, err = folio.ParseSortKey(q.Get("sort")); err != nil {
		return f, err
	}
	if v := q.Get("desc"); v != "" {
		if f.Descending, err = strconv.ParseBool(v); err != nil {
			return f, fmt.Errorf("invalid desc %q: %w", v, err)
		}
	}
	return f, nil
}

func (s *Server) handleListHoldings(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	holdings := f.Apply(s.store.Snapshot().Holdings)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"holdings": holdings,
		"stats":    folio.ComputeQuickStats(holdings),
	})
}

func (s *Server) handleGetHolding(w http.ResponseWriter, r *http.Request) {
	h, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, folio.ErrNotFound.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleAddHolding(w http.ResponseWriter, r *http.Request) {
	h, err := s.decodeHolding(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.ID = s.store.Add(h)
	w.Header().Set("Location", "/api/holdings/"+h.ID)
	s.writeJSON(w, http.StatusCreated, h)
}

func (s *Server) handleEditHolding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h, err := s.decodeHolding(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Edit(id, h); errors.Is(err, folio.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	} else if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.ID = id
	s.writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "id")); errors.Is(err, folio.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	} else if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="holdings.csv"`)
	if err := folio.EncodeCSV(w, s.store.Snapshot().Holdings); err != nil {
		s.log.Error().Err(err).Msg("csv export failed")
	}
}

func (s *Server) handleProfitChart(w http.ResponseWriter, r *http.Request) {
	history := s.store.Snapshot().Aggregate.ProfitHistory
	s.writeChart(w, func(w io.Writer) error { return chart.ProfitHistory(w, chart.SVG, history) })
}

func (s *Server) handleDistributionChart(w http.ResponseWriter, r *http.Request) {
	a := s.store.Snapshot().Aggregate
	var (
		title string
		dist  []folio.Distribution
	)
	switch by := r.URL.Query().Get("by"); by {
	case "", "class":
		title, dist = "Allocation", a.Distribution
	case "sector":
		title, dist = "Sectors", a.SectorDistribution
	case "risk":
		title, dist = "Risk", a.RiskDistribution
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown distribution %q", by))
		return
	}
	s.writeChart(w, func(w io.Writer) error { return chart.Distribution(w, chart.SVG, title, dist) })
}

// writeChart renders a chart in memory so that a failure can still be
// reported as JSON.
func (s *Server) writeChart(w http.ResponseWriter, draw func(io.Writer) error) {
	var b strings.Builder
	if err := draw(&b); errors.Is(err, chart.ErrNoData) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	} else if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	io.WriteString(w, b.String())
}

// holdingRequest is the part of a holding request checked by struct tags,
// the complete holding is decoded by folio.Holding itself.
type holdingRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Ticker        string  `json:"ticker" validate:"required,max=32"`
	Class         string  `json:"class" validate:"required_without=Type"`
	Type          string  `json:"type"`
	Sector        string  `json:"sector" validate:"required"`
	Currency      string  `json:"currency" validate:"omitempty,len=3,uppercase"`
	DividendYield float64 `json:"dividendYield" validate:"gte=0,lte=100"`
}

// decodeHolding reads and validates a holding from the request body.
func (s *Server) decodeHolding(r *http.Request) (folio.Holding, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return folio.Holding{}, fmt.Errorf("cannot read body: %w", err)
	}

	var req holdingRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return folio.Holding{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return folio.Holding{}, validationError(err)
	}

	var h folio.Holding
	if err := json.Unmarshal(body, &h); err != nil {
		return folio.Holding{}, err
	}
	h, err = h.Validate()
	if err != nil {
		return folio.Holding{}, err
	}
	if s.currency != "" && h.Currency != s.currency {
		return folio.Holding{}, fmt.Errorf("%w: holding is in %q, portfolio is in %q", folio.ErrCurrencyMismatch, h.Currency, s.currency)
	}
	return h, nil
}

// validationError formats validator errors as one message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msg := fmt.Sprintf("%s: failed on %s", e.Field(), e.Tag())
		if e.Param() != "" {
			msg += "=" + e.Param()
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%w: %s", folio.ErrInvalidHolding, strings.Join(msgs, "; "))
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
