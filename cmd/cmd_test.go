package cmd

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup points the global flags to a fresh holdings file and captures the
// outputs.
func setup(t *testing.T) (file string, out, errOut *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	file = filepath.Join(dir, "holdings.jsonl")
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}

	oldOut, oldErr := stdout, stderr
	oldHoldings, oldConfig, oldRaw := *holdingsFile, *configFile, *raw
	t.Cleanup(func() {
		stdout, stderr = oldOut, oldErr
		*holdingsFile, *configFile, *raw = oldHoldings, oldConfig, oldRaw
	})

	stdout, stderr = out, errOut
	*holdingsFile = file
	*configFile = filepath.Join(dir, "folio.toml")
	*raw = true
	for _, env := range []string{"FOLIO_CURRENCY", "FOLIO_QUOTE_URL", "FOLIO_QUOTE_PATH", "GEMINI_API_KEY"} {
		t.Setenv(env, "")
	}
	return file, out, errOut
}

func run(args ...string) subcommands.ExitStatus {
	fs := flag.NewFlagSet("pfd", flag.ContinueOnError)
	c := subcommands.NewCommander(fs, "pfd")
	Register(c)
	if err := fs.Parse(args); err != nil {
		return subcommands.ExitUsageError
	}
	return c.Execute(context.Background())
}

func load(t *testing.T, file string) []folio.Holding {
	t.Helper()
	holdings, err := folio.LoadHoldings(file)
	require.NoError(t, err)
	return holdings
}

func TestInit(t *testing.T) {
	file, out, _ := setup(t)

	require.Equal(t, subcommands.ExitSuccess, run("init"))
	assert.Contains(t, out.String(), "Wrote 3 holdings")
	assert.Len(t, load(t, file), 3)

	assert.Equal(t, subcommands.ExitFailure, run("init"), "existing file")
	assert.Equal(t, subcommands.ExitSuccess, run("init", "-force"))
}

func TestReports(t *testing.T) {
	_, out, _ := setup(t)
	require.Equal(t, subcommands.ExitSuccess, run("init"))

	tests := []struct {
		args        []string
		contains    []string
		notContains []string
	}{
		{[]string{"overview"}, []string{"# Portfolio on", "## Allocation"}, nil},
		{[]string{"holdings", "-class", "equity"}, []string{"PETR4"}, []string{"HGLG11"}},
		{[]string{"holdings", "-min", "5000", "-max", "6000"}, []string{"IPCA+2026"}, []string{"PETR4", "HGLG11"}},
		{[]string{"holding", "hglg11"}, []string{"HGLG11", "CSHG"}, nil},
		{[]string{"analytics"}, []string{"Sharpe ratio"}, nil},
		{[]string{"topic"}, []string{"holdings"}, nil},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out.Reset()
			require.Equal(t, subcommands.ExitSuccess, run(tt.args...))
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func TestReportsShowDemoWhenMissing(t *testing.T) {
	file, out, _ := setup(t)

	require.Equal(t, subcommands.ExitSuccess, run("holdings"))
	assert.Contains(t, out.String(), "PETR4")
	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err), "reports never write the holdings file")
}

func TestUsageErrors(t *testing.T) {
	setup(t)

	tests := [][]string{
		{"holdings", "-class", "crypto"},
		{"holdings", "-sort", "color"},
		{"holdings", "-min", "lots"},
		{"holding"},
		{"edit"},
		{"delete", "a", "b"},
		{"export", "-format", "xml"},
		{"chart", "-kind", "bubble"},
		{"chart", "-format", "gif"},
		{"add", "-quantity", "many"},
	}
	for _, args := range tests {
		assert.Equal(t, subcommands.ExitUsageError, run(args...), "%v", args)
	}
}

func TestAddEditDelete(t *testing.T) {
	file, out, _ := setup(t)

	status := run("add",
		"-name", "Vale", "-ticker", "VALE3", "-class", "equity", "-sector", "materials", "-risk", "medium",
		"-quantity", "10", "-purchase-price", "60", "-current-price", "65", "-currency", "brl", "-date", "2024-02-01")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "Added VALE3 as ")

	holdings := load(t, file)
	require.Len(t, holdings, 1)
	h := holdings[0]
	assert.NotEmpty(t, h.ID)
	assert.Equal(t, "BRL", h.Currency)
	assert.Equal(t, "BRL", h.PurchasePrice.Currency())
	assert.True(t, h.Value().Amount().Equal(decimal.NewFromInt(650)))
	assert.Equal(t, "2024-02-01", h.PurchaseDate.String())

	require.Equal(t, subcommands.ExitSuccess, run("edit", "-current-price", "70", "-notes", "mining", "vale3"))
	holdings = load(t, file)
	require.Len(t, holdings, 1)
	assert.Equal(t, h.ID, holdings[0].ID)
	assert.Equal(t, "Vale", holdings[0].Name)
	assert.Equal(t, "mining", holdings[0].Notes)
	assert.True(t, holdings[0].CurrentPrice.Amount().Equal(decimal.NewFromInt(70)))

	require.Equal(t, subcommands.ExitSuccess, run("delete", h.ID))
	assert.Empty(t, load(t, file))

	assert.Equal(t, subcommands.ExitFailure, run("delete", h.ID))
}

func TestAddRejectsInvalidHolding(t *testing.T) {
	file, _, errOut := setup(t)

	assert.Equal(t, subcommands.ExitFailure, run("add", "-name", "Nothing"))
	assert.Contains(t, errOut.String(), "ticker is missing")
	_, err := folio.LoadHoldings(file)
	assert.True(t, folio.IsNotExist(err))
}

func TestAddRejectsOtherCurrency(t *testing.T) {
	_, _, errOut := setup(t)
	t.Setenv("FOLIO_CURRENCY", "USD")

	status := run("add",
		"-name", "Vale", "-ticker", "VALE3", "-class", "equity", "-sector", "materials", "-risk", "medium",
		"-quantity", "10", "-purchase-price", "60", "-current-price", "65", "-currency", "BRL")
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, errOut.String(), "currency mismatch")
}

func TestExport(t *testing.T) {
	file, out, _ := setup(t)
	require.Equal(t, subcommands.ExitSuccess, run("init"))

	require.Equal(t, subcommands.ExitSuccess, run("export"))
	assert.True(t, strings.HasPrefix(out.String(), "id,name,ticker,"))
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 4)

	jsonl := filepath.Join(filepath.Dir(file), "export.jsonl")
	require.Equal(t, subcommands.ExitSuccess, run("export", "-format", "jsonl", "-o", jsonl))
	assert.Equal(t, load(t, file), load(t, jsonl))
}

func TestChart(t *testing.T) {
	file, out, _ := setup(t)
	require.Equal(t, subcommands.ExitSuccess, run("init"))

	for _, kind := range []string{"profit", "class", "sector", "risk"} {
		out.Reset()
		require.Equal(t, subcommands.ExitSuccess, run("chart", "-kind", kind), kind)
		assert.True(t, strings.HasPrefix(out.String(), "<svg"), kind)
	}

	png := filepath.Join(filepath.Dir(file), "profit.png")
	require.Equal(t, subcommands.ExitSuccess, run("chart", "-format", "png", "-o", png))
	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRefresh(t *testing.T) {
	file, out, _ := setup(t)
	require.Equal(t, subcommands.ExitSuccess, run("init"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"price": 40}`))
	}))
	defer srv.Close()
	t.Setenv("FOLIO_QUOTE_URL", srv.URL+"/quote/{ticker}")
	t.Setenv("FOLIO_QUOTE_PATH", "$.price")

	require.Equal(t, subcommands.ExitSuccess, run("refresh"))
	assert.Contains(t, out.String(), "Updated 3 prices")
	for _, h := range load(t, file) {
		assert.True(t, h.CurrentPrice.Amount().Equal(decimal.NewFromInt(40)), h.Ticker)
	}
}

func TestRefreshNeedsProvider(t *testing.T) {
	_, _, errOut := setup(t)
	assert.Equal(t, subcommands.ExitFailure, run("refresh"))
	assert.Contains(t, errOut.String(), "no quote provider configured")
}

func TestAssistNeedsAPIKey(t *testing.T) {
	_, _, errOut := setup(t)
	assert.Equal(t, subcommands.ExitFailure, run("assist", "hello"))
	assert.Contains(t, errOut.String(), "GEMINI_API_KEY")
}

func TestTopicUnknown(t *testing.T) {
	_, _, errOut := setup(t)
	assert.Equal(t, subcommands.ExitFailure, run("topic", "nope"))
	assert.Contains(t, errOut.String(), "pfd topic -list")
}

func TestTopicList(t *testing.T) {
	_, out, _ := setup(t)
	require.Equal(t, subcommands.ExitSuccess, run("topic", "-list"))
	assert.Contains(t, out.String(), "| holdings | Holdings |")
	assert.Contains(t, out.String(), "| configuration | Configuration |")
	assert.NotContains(t, out.String(), "| readme |")
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, cmds := range commands() {
		for _, cmd := range cmds {
			assert.Contains(t, c.Sub, cmd.Name())
		}
	}
	assert.Contains(t, c.Flags, "holdings-file")
	assert.Contains(t, c.Sub["holdings"].Flags, "class")
	assert.Contains(t, c.Sub["add"].Flags, "purchase-price")
	assert.NotNil(t, c.Sub["topic"].Args)
}
