package folio

import "github.com/etnz/folio/date"

// Aggregate is everything derived from a holdings collection. It is never
// edited, only recomputed.
type Aggregate struct {
	AsOf                  date.Date      `json:"asOf"`
	Currency              string         `json:"currency,omitempty"`
	TotalValue            Money          `json:"totalValue"`
	TotalChange           Money          `json:"totalChange"`
	TotalChangePercentage Percent        `json:"totalChangePercentage"`
	Distribution          []Distribution `json:"distribution"`
	SectorDistribution    []Distribution `json:"sectorDistribution"`
	RiskDistribution      []Distribution `json:"riskDistribution"`
	ProfitHistory         []ProfitPoint  `json:"profitHistory"`
	Metrics               Metrics        `json:"metrics"`
}

// Totals are the portfolio wide sums.
type Totals struct {
	Currency              string
	TotalValue            Money
	TotalChange           Money
	TotalChangePercentage Percent
}

// Distribution is the share of the portfolio value held in one group (a
// class, a sector or a risk band).
type Distribution struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Value      Money   `json:"value"`
	Percentage Percent `json:"percentage"`
}

// ProfitPoint is the value per class for one year of the profit history.
type ProfitPoint struct {
	Year        int   `json:"year"`
	Equity      Money `json:"equity"`
	FixedIncome Money `json:"fixedIncome"`
	PooledFund  Money `json:"pooledFund"`
}

// Total is the sum of all classes for the year.
func (p ProfitPoint) Total() Money {
	return Money{value: p.Equity.value.Add(p.FixedIncome.value).Add(p.PooledFund.value), cur: p.Equity.cur}
}

// Metrics are the portfolio level statistics.
//
// The statistics use each holding's change percentage as its return, not a
// real price series.
type Metrics struct {
	DividendYield  Percent  `json:"dividendYield"`
	AverageRisk    RiskBand `json:"averageRisk"`
	TotalDividends Money    `json:"totalDividends"`
	TotalFees      Money    `json:"totalFees"`
	SharpeRatio    float64  `json:"sharpeRatio"`
	Beta           float64  `json:"beta"`
	Alpha          float64  `json:"alpha"`
	Volatility     float64  `json:"volatility"`
}

// Compute runs the whole aggregation engine on holdings, with the profit
// history ending on the year of on.
func Compute(holdings []Holding, on date.Date) Aggregate {
	totals := ComputeTotals(holdings)
	return Aggregate{
		AsOf:                  on,
		Currency:              totals.Currency,
		TotalValue:            totals.TotalValue,
		TotalChange:           totals.TotalChange,
		TotalChangePercentage: totals.TotalChangePercentage,
		Distribution:          ComputeClassDistribution(holdings, totals.TotalValue),
		SectorDistribution:    ComputeSectorDistribution(holdings, totals.TotalValue),
		RiskDistribution:      ComputeRiskDistribution(holdings, totals.TotalValue),
		ProfitHistory:         ComputeProfitHistory(holdings, on),
		Metrics:               ComputeSummaryMetrics(holdings, totals.TotalValue),
	}
}
