package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"google.golang.org/genai"
)

// DefaultModel is used when the configuration names none.
const DefaultModel = "gemini-2.5-flash"

// Portfolio is the read side of the store the analyst works on.
type Portfolio interface {
	Snapshot() folio.Snapshot
}

func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and of solving the user's request.

			Learn about the experts' skills from the Tools and ask them questions.
			They keep the context of your previous questions.

			The user is here to understand their investment portfolio: its value, its allocation,
			its risk and the news about the assets they hold.
			Devise a plan of questions to ask each expert and come up with the best response.

			The user assumes you know their tickers, ask the Analyst first to learn what they are.
			Answer in markdown.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded on Google Search.
func NewTrader(model string) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader, aware of financial products and institutions
		and of the latest news about funds and companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in trading, you can search anything related to
			financial institutions, companies, markets and funds. Leverage Google Search to
			ground your assertions. Relate the latest news to the user's request.
			`}}},
		},
	}
}

// NewAnalyst returns an expert that reads the portfolio p.
func NewAnalyst(model string, p Portfolio) *Expert {
	lib := AnalystTools(p)
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. They read the user's portfolio: holdings, totals,
		allocation by class, sector and risk, profit history and risk metrics.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are the analyst of the user's portfolio.
			Use the Tools to extract relevant information about the holdings and the figures computed on them.
			Other experts may ask you questions with approximate wording, figure out what they meant.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// AnalystTools returns the functions reading p.
func AnalystTools(p Portfolio) []*Func {
	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Overview",
				Description: "Overview of the portfolio: total value, total change, allocation by class and main sectors.",
				Response:    markdownResponse,
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return outputResponse(id, "Overview", renderer.Overview(p.Snapshot()))
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Holdings",
				Description: "Table of the holdings, optionally restricted to an asset class and sorted.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"class": {
							Type:        genai.TypeString,
							Description: "Asset class to keep.",
							Enum:        []string{string(folio.Equity), string(folio.FixedIncome), string(folio.PooledFund)},
						},
						"sort": {
							Type:        genai.TypeString,
							Description: "Sort key: value, change, risk, name, quantity, currentPrice or purchasePrice. Sorting is descending.",
						},
					},
				},
				Response: markdownResponse,
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				f, err := parseFilter(args)
				if err != nil {
					return errorResponse(id, "Holdings", err)
				}
				return outputResponse(id, "Holdings", renderer.HoldingsTable(f.Apply(p.Snapshot().Holdings)))
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Holding",
				Description: "Details of a single holding, including its metadata and notes.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"ticker": {Type: genai.TypeString, Description: "Ticker of the holding."},
					},
					Required: []string{"ticker"},
				},
				Response: markdownResponse,
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				ticker, _ := args["ticker"].(string)
				for _, h := range p.Snapshot().Holdings {
					if strings.EqualFold(h.Ticker, ticker) {
						return outputResponse(id, "Holding", renderer.Holding(h))
					}
				}
				return errorResponse(id, "Holding", fmt.Errorf("no holding with ticker %q", ticker))
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Analytics",
				Description: "Risk distribution, profit history by class and summary metrics (dividend yield, Sharpe ratio, beta, alpha, volatility).",
				Response:    markdownResponse,
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return outputResponse(id, "Analytics", renderer.Analytics(p.Snapshot()))
			},
		},
	}
}

var markdownResponse = &genai.Schema{
	Type:        genai.TypeString,
	Description: "A markdown report.",
}

func parseFilter(args map[string]any) (folio.Filter, error) {
	f := folio.Filter{Descending: true}
	if v, ok := args["class"]; ok {
		s, ok := v.(string)
		if !ok {
			return f, fmt.Errorf("argument 'class' is not a string as expected but %T", v)
		}
		c, err := folio.ParseClass(s)
		if err != nil {
			return f, err
		}
		f.Class = c
	}
	if v, ok := args["sort"]; ok {
		s, ok := v.(string)
		if !ok {
			return f, fmt.Errorf("argument 'sort' is not a string as expected but %T", v)
		}
		k, err := folio.ParseSortKey(s)
		if err != nil {
			return f, err
		}
		f.SortBy = k
	}
	return f, nil
}
