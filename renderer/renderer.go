package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"text/template"

	"github.com/etnz/folio"
)

//go:embed *.md
var templates embed.FS

// topSectors is the number of sectors shown on the overview.
const topSectors = 5

// overview is the data of the overview template.
type overview struct {
	folio.Snapshot
	Stats      folio.QuickStats
	TopSectors []folio.Distribution
}

// Overview renders the dashboard: totals, quick stats, allocation by class
// and the largest sectors.
func Overview(s folio.Snapshot) string {
	sectors := slices.Clone(s.Aggregate.SectorDistribution)
	slices.SortStableFunc(sectors, func(a, b folio.Distribution) int {
		return b.Value.Amount().Cmp(a.Value.Amount())
	})
	if len(sectors) > topSectors {
		sectors = sectors[:topSectors]
	}
	data := overview{
		Snapshot:   s,
		Stats:      folio.ComputeQuickStats(s.Holdings),
		TopSectors: sectors,
	}
	partials := map[string]string{
		"overview_totals": "overview_totals.md",
		"distribution":    "distribution.md",
	}
	return renderTemplate("overview", "overview.md", partials, data)
}

// HoldingsTable renders the holdings as a table, in the given order.
func HoldingsTable(holdings []folio.Holding) string {
	return renderTemplate("holdings", "holdings.md", nil, holdings)
}

// Holding renders the detail of one holding.
func Holding(h folio.Holding) string {
	return renderTemplate("holding", "holding.md", nil, h)
}

// Analytics renders the statistics, the risk distribution and the profit
// history.
func Analytics(s folio.Snapshot) string {
	partials := map[string]string{
		"analytics_metrics": "analytics_metrics.md",
		"analytics_history": "analytics_history.md",
		"distribution":      "distribution.md",
	}
	return renderTemplate("analytics", "analytics.md", partials, s)
}

var funcs = template.FuncMap{
	"float": func(f float64) string { return fmt.Sprintf("%.2f", f) },
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
