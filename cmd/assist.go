package cmd

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/etnz/folio/advisor"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with the portfolio advisor" }
func (*assistCmd) Usage() string {
	return `pfd assist [question...]

  Starts an interactive session with the AI advisor. The arguments are sent
  as the first question. Requires GEMINI_API_KEY.
`
}

func (*assistCmd) SetFlags(*flag.FlagSet) {}

func (*assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	if cfg.Advisor.APIKey == "" {
		return fail(errors.New("the advisor needs a Gemini API key, set GEMINI_API_KEY"))
	}
	store, err := openStore(cfg, newLogger(cfg), true)
	if err != nil {
		return fail(err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Advisor.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fail(err)
	}

	model := cfg.Advisor.Model
	if model == "" {
		model = advisor.DefaultModel
	}
	a := advisor.New(stdout, os.Stdin, model, advisor.NewTrader(model), advisor.NewAnalyst(model, store))
	a.Render = renderMarkdown
	if err := a.Run(ctx, client, strings.Join(f.Args(), " ")); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
