package folio

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHolding wraps every validation failure of a holding.
	ErrInvalidHolding = errors.New("invalid holding")
	// ErrCurrencyMismatch is reported when an amount is not in the holding currency.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Validate checks h and returns a copy with quick fixes applied or an
// error with all validation failures.
//
// Quick fixes: an empty Currency is taken from the current price, and
// amounts without currency are set in the holding currency.
func (h Holding) Validate() (Holding, error) {
	if h.Currency == "" {
		h.Currency = h.CurrentPrice.cur
	}
	for _, a := range h.amounts() {
		if a.money.cur == "" {
			a.money.cur = h.Currency
		}
	}

	var errs []error
	if h.Name == "" {
		errs = append(errs, errors.New("name is missing"))
	}
	if h.Ticker == "" {
		errs = append(errs, errors.New("ticker is missing"))
	}
	if v, err := ParseClass(string(h.Class)); err != nil {
		errs = append(errs, err)
	} else {
		h.Class = v
	}
	if v, err := ParseSector(string(h.Sector)); err != nil {
		errs = append(errs, err)
	} else {
		h.Sector = v
	}
	if v, err := ParseRiskBand(string(h.Risk)); err != nil {
		errs = append(errs, err)
	} else {
		h.Risk = v
	}
	if h.Quantity.IsNegative() {
		errs = append(errs, fmt.Errorf("quantity must not be negative, got %s", h.Quantity))
	}
	if !h.PurchasePrice.IsPositive() {
		errs = append(errs, fmt.Errorf("purchase price must be positive, got %s", h.PurchasePrice))
	}
	if !h.CurrentPrice.IsPositive() {
		errs = append(errs, fmt.Errorf("current price must be positive, got %s", h.CurrentPrice))
	}
	if h.DividendYield < 0 {
		errs = append(errs, fmt.Errorf("dividend yield must not be negative, got %s", h.DividendYield))
	}
	if h.LastDividend.IsNegative() {
		errs = append(errs, fmt.Errorf("last dividend must not be negative, got %s", h.LastDividend))
	}
	if h.Fees.Purchase.IsNegative() || h.Fees.Management.IsNegative() || h.Fees.Performance.IsNegative() {
		errs = append(errs, errors.New("fees must not be negative"))
	}
	for _, a := range h.amounts() {
		if a.money.cur != h.Currency {
			errs = append(errs, fmt.Errorf("%w: %s is in %q, holding is in %q", ErrCurrencyMismatch, a.name, a.money.cur, h.Currency))
		}
	}

	if len(errs) > 0 {
		return h, fmt.Errorf("%w %q: %w", ErrInvalidHolding, h.Ticker, errors.Join(errs...))
	}
	return h, nil
}

type namedAmount struct {
	name  string
	money *Money
}

// amounts returns every money field of h.
func (h *Holding) amounts() []namedAmount {
	return []namedAmount{
		{"purchase price", &h.PurchasePrice},
		{"current price", &h.CurrentPrice},
		{"last dividend", &h.LastDividend},
		{"purchase fee", &h.Fees.Purchase},
		{"management fee", &h.Fees.Management},
		{"performance fee", &h.Fees.Performance},
	}
}
