package cmd

import (
	"flag"
	"io"

	"github.com/etnz/folio"
	"github.com/etnz/folio/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors completes flag values with a known set of values.
var flagPredictors = map[string]complete.Predictor{
	"class":         predict.Set{string(folio.Equity), string(folio.FixedIncome), string(folio.PooledFund)},
	"risk":          predict.Set{string(folio.Low), string(folio.Medium), string(folio.High)},
	"sort":          predict.Set{"value", "change", "risk", "name", "quantity", "currentPrice", "purchasePrice"},
	"kind":          predict.Set{"profit", "class", "sector", "risk"},
	"config":        predict.Files("*.toml"),
	"holdings-file": predict.Files("*.jsonl"),
	"o":             predict.Files("*"),
	"daily-cache":   predict.Files("*"),
}

// Completion describes the pfd command line for shell completion.
func Completion() *complete.Command {
	sectors := predict.Set{}
	for _, s := range folio.Sectors {
		sectors = append(sectors, string(s))
	}
	flagPredictors["sector"] = sectors

	root := &complete.Command{
		Flags: predictFlags(flag.CommandLine),
		Sub:   map[string]*complete.Command{},
	}
	for _, cmds := range commands() {
		for _, c := range cmds {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			c.SetFlags(fs)
			root.Sub[c.Name()] = &complete.Command{Flags: predictFlags(fs)}
		}
	}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	for _, name := range []string{"holding", "edit", "delete"} {
		root.Sub[name].Args = predict.Something
	}
	return root
}

// predictFlags predicts every flag of fs, from flagPredictors when known.
func predictFlags(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := flagPredictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}
