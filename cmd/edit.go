package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// holdingFlags are the holding fields settable from the command line.
type holdingFlags struct {
	name, ticker, class, sector, risk        string
	quantity, purchasePrice, currentPrice    string
	currency, exchange, notes, purchaseDate  string
	dividendYield, lastDividend              string
	purchaseFee, managementFee, perfFee      string
	rating, maturity, interestRate           string
	fundManager, strategy, minimumInvestment string
}

func (c *holdingFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name")
	f.StringVar(&c.ticker, "ticker", "", "Ticker symbol")
	f.StringVar(&c.class, "class", "", "Asset class: equity, fixed_income or pooled_fund")
	f.StringVar(&c.sector, "sector", "", "Sector: technology, finance, healthcare, energy, consumer, industry, real_estate, utilities, materials or communication")
	f.StringVar(&c.risk, "risk", "", "Risk level: low, medium or high")
	f.StringVar(&c.quantity, "quantity", "", "Number of units held")
	f.StringVar(&c.purchasePrice, "purchase-price", "", "Price per unit at purchase")
	f.StringVar(&c.currentPrice, "current-price", "", "Latest price per unit")
	f.StringVar(&c.currency, "currency", "", "3-letter currency code of the holding")
	f.StringVar(&c.exchange, "exchange", "", "Exchange the holding trades on")
	f.StringVar(&c.notes, "notes", "", "Free text notes")
	f.StringVar(&c.purchaseDate, "date", "", "Purchase date, YYYY-MM-DD. Defaults to today on add")
	f.StringVar(&c.dividendYield, "yield", "", "Dividend yield in percent")
	f.StringVar(&c.lastDividend, "dividend", "", "Last dividend paid per unit")
	f.StringVar(&c.purchaseFee, "purchase-fee", "", "Fee paid at purchase")
	f.StringVar(&c.managementFee, "management-fee", "", "Management fee")
	f.StringVar(&c.perfFee, "performance-fee", "", "Performance fee")
	f.StringVar(&c.rating, "rating", "", "Credit rating")
	f.StringVar(&c.maturity, "maturity", "", "Maturity date of a fixed income holding, YYYY-MM-DD")
	f.StringVar(&c.interestRate, "interest-rate", "", "Interest rate of a fixed income holding, in percent")
	f.StringVar(&c.fundManager, "fund-manager", "", "Manager of a pooled fund")
	f.StringVar(&c.strategy, "strategy", "", "Strategy of a pooled fund")
	f.StringVar(&c.minimumInvestment, "min-investment", "", "Minimum investment of a pooled fund")
}

// apply sets on h the fields whose flag was set on the command line.
func (c *holdingFlags) apply(f *flag.FlagSet, h *folio.Holding) error {
	set := map[string]bool{}
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["currency"] {
		h.Currency = strings.ToUpper(c.currency)
		for _, m := range []*folio.Money{&h.PurchasePrice, &h.CurrentPrice, &h.LastDividend, &h.Fees.Purchase, &h.Fees.Management, &h.Fees.Performance} {
			*m = m.In(h.Currency)
		}
	}

	var errs []error
	text := func(name, value string, dst *string) {
		if set[name] {
			*dst = value
		}
	}
	amount := func(name, value string, dst *folio.Money) {
		if !set[name] {
			return
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid -%s %q", name, value))
			return
		}
		*dst = folio.M(d, h.Currency)
	}
	percent := func(name, value string, dst *folio.Percent) {
		if !set[name] {
			return
		}
		p, err := strconv.ParseFloat(value, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid -%s %q", name, value))
			return
		}
		*dst = folio.Percent(p)
	}
	day := func(name, value string, dst *date.Date) {
		if !set[name] {
			return
		}
		d, err := date.Parse(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid -%s: %w", name, err))
			return
		}
		*dst = d
	}

	text("name", c.name, &h.Name)
	text("ticker", c.ticker, &h.Ticker)
	text("exchange", c.exchange, &h.Exchange)
	text("notes", c.notes, &h.Notes)
	text("rating", c.rating, &h.Metadata.Rating)
	text("fund-manager", c.fundManager, &h.Metadata.FundManager)
	text("strategy", c.strategy, &h.Metadata.Strategy)
	if set["class"] {
		h.Class = folio.Class(c.class)
	}
	if set["sector"] {
		h.Sector = folio.Sector(c.sector)
	}
	if set["risk"] {
		h.Risk = folio.RiskBand(c.risk)
	}
	if set["quantity"] {
		d, err := decimal.NewFromString(c.quantity)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid -quantity %q", c.quantity))
		} else {
			h.Quantity = folio.Q(d)
		}
	}
	if set["min-investment"] {
		d, err := decimal.NewFromString(c.minimumInvestment)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid -min-investment %q", c.minimumInvestment))
		} else {
			h.Metadata.MinimumInvestment = d
		}
	}
	amount("purchase-price", c.purchasePrice, &h.PurchasePrice)
	amount("current-price", c.currentPrice, &h.CurrentPrice)
	amount("dividend", c.lastDividend, &h.LastDividend)
	amount("purchase-fee", c.purchaseFee, &h.Fees.Purchase)
	amount("management-fee", c.managementFee, &h.Fees.Management)
	amount("performance-fee", c.perfFee, &h.Fees.Performance)
	percent("yield", c.dividendYield, &h.DividendYield)
	percent("interest-rate", c.interestRate, &h.Metadata.InterestRate)
	day("date", c.purchaseDate, &h.PurchaseDate)
	day("maturity", c.maturity, &h.Metadata.MaturityDate)

	if len(errs) > 0 {
		return usageErrorf("%v", errors.Join(errs...))
	}
	return nil
}

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	holdingFlags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a holding" }
func (*addCmd) Usage() string {
	return `pfd add -name <name> -ticker <ticker> -class <class> -sector <sector> -risk <risk> -quantity <q> -purchase-price <p> -current-price <p> [-currency <cur>] [options]

  Adds a holding to the holdings file. The holding gets a fresh ID.
`
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	store, err := openStore(cfg, newLogger(cfg), false)
	if err != nil {
		return fail(err)
	}

	h := folio.Holding{Currency: cfg.Currency, PurchaseDate: date.Today()}
	if err := c.apply(f, &h); err != nil {
		return fail(err)
	}
	if h, err = h.Validate(); err != nil {
		return fail(err)
	}
	if err := checkCurrency(cfg, h); err != nil {
		return fail(err)
	}

	id := store.Add(h)
	if err := saveStore(cfg, store); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Added %s as %s\n", h.Ticker, id)
	return subcommands.ExitSuccess
}

// editCmd holds the flags for the 'edit' subcommand.
type editCmd struct {
	holdingFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit a holding" }
func (*editCmd) Usage() string {
	return `pfd edit [options] <id|ticker>

  Replaces the fields given as flags, the other fields are unchanged.
`
}

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(usageErrorf("edit expects exactly one id or ticker"))
	}
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	store, err := openStore(cfg, newLogger(cfg), false)
	if err != nil {
		return fail(err)
	}
	h, err := findHolding(store, f.Arg(0))
	if err != nil {
		return fail(err)
	}

	if err := c.apply(f, &h); err != nil {
		return fail(err)
	}
	if h, err = h.Validate(); err != nil {
		return fail(err)
	}
	if err := checkCurrency(cfg, h); err != nil {
		return fail(err)
	}
	if err := store.Edit(h.ID, h); err != nil {
		return fail(err)
	}
	if err := saveStore(cfg, store); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Updated %s\n", h.ID)
	return subcommands.ExitSuccess
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a holding" }
func (*deleteCmd) Usage() string {
	return `pfd delete <id|ticker>

  Removes a holding from the holdings file.
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(usageErrorf("delete expects exactly one id or ticker"))
	}
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	store, err := openStore(cfg, newLogger(cfg), false)
	if err != nil {
		return fail(err)
	}
	h, err := findHolding(store, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	if err := store.Delete(h.ID); err != nil {
		return fail(err)
	}
	if err := saveStore(cfg, store); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Deleted %s (%s)\n", h.ID, h.Ticker)
	return subcommands.ExitSuccess
}

// initCmd holds the flags for the 'init' subcommand.
type initCmd struct {
	force bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "write the demo portfolio to the holdings file" }
func (*initCmd) Usage() string {
	return `pfd init [-force]

  Creates the holdings file with the demo portfolio.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Overwrite an existing holdings file")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	if _, err := os.Stat(cfg.HoldingsFile); err == nil && !c.force {
		return fail(fmt.Errorf("%s already exists, use -force to overwrite it", cfg.HoldingsFile))
	}
	store := folio.NewStore(folio.Demo(), folio.WithLogger(newLogger(cfg)))
	if err := saveStore(cfg, store); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Wrote %d holdings to %s\n", len(store.Snapshot().Holdings), cfg.HoldingsFile)
	return subcommands.ExitSuccess
}
