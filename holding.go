package folio

import (
	"encoding/json"
	"fmt"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Holding is one owned position.
//
// Value, Cost, Change and ChangePercentage are methods computed from
// Quantity, PurchasePrice and CurrentPrice, they are never stored.
type Holding struct {
	ID            string
	Name          string
	Ticker        string
	Class         Class
	Sector        Sector
	Quantity      Quantity
	PurchasePrice Money
	CurrentPrice  Money
	Risk          RiskBand
	DividendYield Percent
	LastDividend  Money // per unit
	PurchaseDate  date.Date
	Notes         string
	Currency      string
	Exchange      string
	Fees          Fees
	Metadata      Metadata
}

// Fees paid on a holding.
type Fees struct {
	Purchase    Money
	Management  Money
	Performance Money
}

// Total returns the sum of all fees.
func (f Fees) Total() decimal.Decimal {
	return f.Purchase.value.Add(f.Management.value).Add(f.Performance.value)
}

// Metadata holds class specific attributes. Fixed income holdings use
// MaturityDate and InterestRate, pooled funds use FundManager, Strategy and
// MinimumInvestment.
type Metadata struct {
	Rating            string          `json:"rating,omitempty"`
	MaturityDate      date.Date       `json:"maturityDate,omitzero"`
	InterestRate      Percent         `json:"interestRate,omitempty"`
	FundManager       string          `json:"fundManager,omitempty"`
	Strategy          string          `json:"strategyType,omitempty"`
	MinimumInvestment decimal.Decimal `json:"minimumInvestment,omitzero"`
}

// currency is the holding currency, falling back on the price currency.
func (h Holding) currency() string {
	if h.Currency != "" {
		return h.Currency
	}
	return h.CurrentPrice.cur
}

// Value is the market value: quantity × current price.
func (h Holding) Value() Money {
	return Money{value: h.CurrentPrice.value.Mul(h.Quantity.value), cur: h.currency()}
}

// Cost is the purchase value: quantity × purchase price.
func (h Holding) Cost() Money {
	return Money{value: h.PurchasePrice.value.Mul(h.Quantity.value), cur: h.currency()}
}

// Change is the unrealized gain: value − cost.
func (h Holding) Change() Money {
	return Money{value: h.Value().value.Sub(h.Cost().value), cur: h.currency()}
}

// ChangePercentage is the change relative to the cost, 0 when the cost is 0.
func (h Holding) ChangePercentage() Percent {
	return percentOf(h.Change().value, h.Cost().value)
}

// Dividends is the last dividend paid for the whole position.
func (h Holding) Dividends() Money {
	return Money{value: h.LastDividend.value.Mul(h.Quantity.value), cur: h.currency()}
}

// holdingJSON is the wire format, amounts are plain numbers in the holding currency.
type holdingJSON struct {
	ID            string          `json:"id,omitempty"`
	Name          string          `json:"name"`
	Ticker        string          `json:"ticker"`
	Class         Class           `json:"class,omitempty"`
	Type          Class           `json:"type,omitempty"` // legacy name for class
	Sector        Sector          `json:"sector,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	Risk          RiskBand        `json:"risk,omitempty"`
	RiskLevel     RiskBand        `json:"riskLevel,omitempty"` // legacy name for risk
	DividendYield float64         `json:"dividendYield"`
	LastDividend  decimal.Decimal `json:"lastDividend"`
	PurchaseDate  date.Date       `json:"purchaseDate"`
	Notes         string          `json:"notes"`
	Currency      string          `json:"currency"`
	Exchange      string          `json:"exchange"`
	Fees          struct {
		Purchase    decimal.Decimal `json:"purchase"`
		Management  decimal.Decimal `json:"management"`
		Performance decimal.Decimal `json:"performance"`
	} `json:"fees"`
	Metadata Metadata `json:"metadata"`
}

// MarshalJSON writes the holding with its derived values (value, change,
// changePercentage) as read-only fields.
func (h Holding) MarshalJSON() ([]byte, error) {
	var fees jsonObjectWriter
	fees.Append("purchase", h.Fees.Purchase.value)
	fees.Append("management", h.Fees.Management.value)
	fees.Append("performance", h.Fees.Performance.value)

	var w jsonObjectWriter
	w.Optional("id", h.ID)
	w.Append("name", h.Name)
	w.Append("ticker", h.Ticker)
	w.Append("class", h.Class)
	w.Append("sector", h.Sector)
	w.Append("quantity", h.Quantity.value)
	w.Append("purchasePrice", h.PurchasePrice.value)
	w.Append("currentPrice", h.CurrentPrice.value)
	w.Append("value", h.Value().value)
	w.Append("change", h.Change().value)
	w.Append("changePercentage", finite(float64(h.ChangePercentage())))
	w.Append("risk", h.Risk)
	w.Append("dividendYield", finite(float64(h.DividendYield)))
	w.Append("lastDividend", h.LastDividend.value)
	w.Append("purchaseDate", h.PurchaseDate)
	w.Append("notes", h.Notes)
	w.Append("currency", h.currency())
	w.Append("exchange", h.Exchange)
	w.Append("fees", &fees)
	w.Append("metadata", h.Metadata)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a holding. Derived fields present in the input are ignored.
func (h *Holding) UnmarshalJSON(data []byte) error {
	var v holdingJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid holding: %w", err)
	}
	if v.Class == "" {
		v.Class = v.Type
	}
	if v.Risk == "" {
		v.Risk = v.RiskLevel
	}
	cur := v.Currency
	*h = Holding{
		ID:            v.ID,
		Name:          v.Name,
		Ticker:        v.Ticker,
		Class:         v.Class,
		Sector:        v.Sector,
		Quantity:      Q(v.Quantity),
		PurchasePrice: M(v.PurchasePrice, cur),
		CurrentPrice:  M(v.CurrentPrice, cur),
		Risk:          v.Risk,
		DividendYield: Percent(v.DividendYield),
		LastDividend:  M(v.LastDividend, cur),
		PurchaseDate:  v.PurchaseDate,
		Notes:         v.Notes,
		Currency:      cur,
		Exchange:      v.Exchange,
		Fees: Fees{
			Purchase:    M(v.Fees.Purchase, cur),
			Management:  M(v.Fees.Management, cur),
			Performance: M(v.Fees.Performance, cur),
		},
		Metadata: v.Metadata,
	}
	return nil
}
