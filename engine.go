package folio

import (
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// The profit history is a synthetic linear growth from a fraction of
// today's value up to today's value. The fractions and the window length
// are illustrative constants, the history is not an audited series.
const (
	HistoryLength          = 7
	EquityHistoryBase      = 0.4
	FixedIncomeHistoryBase = 0.5
	PooledFundHistoryBase  = 0.6
)

// commonCurrency returns the currency shared by all holdings, or "" if they
// disagree.
func commonCurrency(holdings []Holding) string {
	cur := ""
	for i, h := range holdings {
		if i == 0 {
			cur = h.currency()
			continue
		}
		if h.currency() != cur {
			return ""
		}
	}
	return cur
}

// ComputeTotals sums value and change over holdings.
//
// TotalChangePercentage is the change relative to the cost basis
// (value − change), 0 when the cost basis is 0, including for an empty
// collection.
func ComputeTotals(holdings []Holding) Totals {
	var value, change decimal.Decimal
	for _, h := range holdings {
		value = value.Add(h.Value().value)
		change = change.Add(h.Change().value)
	}
	cur := commonCurrency(holdings)
	return Totals{
		Currency:              cur,
		TotalValue:            Money{value: value, cur: cur},
		TotalChange:           Money{value: change, cur: cur},
		TotalChangePercentage: percentOf(change, value.Sub(change)),
	}
}

// distribute groups holdings value by key, in first seen order.
func distribute[K comparable](holdings []Holding, total Money, key func(Holding) K, name func(K) string, str func(K) string) []Distribution {
	index := make(map[K]int)
	result := make([]Distribution, 0)
	for _, h := range holdings {
		k := key(h)
		i, exists := index[k]
		if !exists {
			i = len(result)
			index[k] = i
			result = append(result, Distribution{Key: str(k), Name: name(k), Value: Money{cur: total.cur}})
		}
		result[i].Value.value = result[i].Value.value.Add(h.Value().value)
	}
	for i := range result {
		result[i].Percentage = percentOf(result[i].Value.value, total.value)
	}
	return result
}

// ComputeClassDistribution returns the value held per class, classes in
// first seen order.
func ComputeClassDistribution(holdings []Holding, totalValue Money) []Distribution {
	return distribute(holdings, totalValue,
		func(h Holding) Class { return h.Class },
		Class.Label, Class.String)
}

// ComputeSectorDistribution returns the value held per sector, sectors in
// first seen order.
func ComputeSectorDistribution(holdings []Holding, totalValue Money) []Distribution {
	return distribute(holdings, totalValue,
		func(h Holding) Sector { return h.Sector },
		Sector.Label, Sector.String)
}

// ComputeRiskDistribution returns the value held per risk band, bands in
// first seen order.
func ComputeRiskDistribution(holdings []Holding, totalValue Money) []Distribution {
	return distribute(holdings, totalValue,
		func(h Holding) RiskBand { return h.Risk },
		RiskBand.Label, RiskBand.String)
}

// historyBase returns the starting fraction of the class in the profit history.
func historyBase(c Class) decimal.Decimal {
	switch c {
	case Equity:
		return decimal.NewFromFloat(EquityHistoryBase)
	case FixedIncome:
		return decimal.NewFromFloat(FixedIncomeHistoryBase)
	case PooledFund:
		return decimal.NewFromFloat(PooledFundHistoryBase)
	default:
		return decimal.NewFromInt(1)
	}
}

// ComputeProfitHistory returns HistoryLength points, one per year, ending on
// the year of on. Each class grows linearly from its base fraction of
// today's class value to today's class value.
func ComputeProfitHistory(holdings []Holding, on date.Date) []ProfitPoint {
	totals := make(map[Class]decimal.Decimal)
	for _, h := range holdings {
		totals[h.Class] = totals[h.Class].Add(h.Value().value)
	}
	cur := commonCurrency(holdings)

	one := decimal.NewFromInt(1)
	steps := decimal.NewFromInt(HistoryLength - 1)
	at := func(c Class, i int) Money {
		base := historyBase(c)
		fraction := base.Add(one.Sub(base).Mul(decimal.NewFromInt(int64(i))).Div(steps))
		return Money{value: totals[c].Mul(fraction), cur: cur}
	}

	history := make([]ProfitPoint, HistoryLength)
	for i := range history {
		history[i] = ProfitPoint{
			Year:        on.Year() - (HistoryLength - 1 - i),
			Equity:      at(Equity, i),
			FixedIncome: at(FixedIncome, i),
			PooledFund:  at(PooledFund, i),
		}
	}
	return history
}
