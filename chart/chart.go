// Package chart draws the dashboard charts: the profit history as stacked
// bars and distributions as pie charts.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/etnz/folio"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to draw")

// Format selects the image format of a chart.
type Format = chart.RendererProvider

// Supported formats.
var (
	PNG Format = chart.PNG
	SVG Format = chart.SVG
)

const (
	width  = 900
	height = 400
)

// class colors, the same in every chart.
var (
	equityColor      = drawing.ColorFromHex("2563eb")
	fixedIncomeColor = drawing.ColorFromHex("16a34a")
	pooledFundColor  = drawing.ColorFromHex("f59e0b")
)

// ProfitHistory draws one stacked bar per year, one segment per class.
func ProfitHistory(w io.Writer, format Format, history []folio.ProfitPoint) error {
	bars := make([]chart.StackedBar, 0, len(history))
	drawable := false
	for _, p := range history {
		if !p.Total().IsZero() {
			drawable = true
		}
		bars = append(bars, chart.StackedBar{
			Name: strconv.Itoa(p.Year),
			Values: []chart.Value{
				{Label: folio.Equity.Label(), Value: p.Equity.AsFloat(), Style: chart.Style{FillColor: equityColor, StrokeColor: equityColor}},
				{Label: folio.FixedIncome.Label(), Value: p.FixedIncome.AsFloat(), Style: chart.Style{FillColor: fixedIncomeColor, StrokeColor: fixedIncomeColor}},
				{Label: folio.PooledFund.Label(), Value: p.PooledFund.AsFloat(), Style: chart.Style{FillColor: pooledFundColor, StrokeColor: pooledFundColor}},
			},
		})
	}
	if !drawable {
		return ErrNoData
	}

	graph := chart.StackedBarChart{
		Title:  "Profit history",
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		Bars: bars,
	}
	if err := graph.Render(format, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

// Distribution draws a pie chart of a distribution. Empty groups are skipped.
func Distribution(w io.Writer, format Format, title string, dist []folio.Distribution) error {
	values := make([]chart.Value, 0, len(dist))
	for _, d := range dist {
		if !d.Value.IsPositive() {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", d.Name, d.Percentage),
			Value: d.Value.AsFloat(),
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	graph := chart.PieChart{
		Title:  title,
		Width:  height,
		Height: height,
		Values: values,
	}
	if err := graph.Render(format, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}
