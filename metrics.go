package folio

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Market assumptions used by the summary statistics, in percent.
const (
	RiskFreeRate = 4.5
	MarketReturn = 10.0
)

// Risk score thresholds mapping a value weighted score back to a band.
const (
	lowRiskThreshold    = 1.67
	mediumRiskThreshold = 2.33
)

// bandOf returns the risk band of a weighted risk score.
func bandOf(score float64) RiskBand {
	switch {
	case score <= lowRiskThreshold:
		return Low
	case score <= mediumRiskThreshold:
		return Medium
	default:
		return High
	}
}

// ComputeSummaryMetrics returns the portfolio statistics.
//
// Weighted values (dividend yield, risk score) are 0 when totalValue is 0;
// SharpeRatio is 0 when the volatility is 0.
func ComputeSummaryMetrics(holdings []Holding, totalValue Money) Metrics {
	cur := commonCurrency(holdings)
	var (
		yield, score    float64
		dividends, fees decimal.Decimal
	)
	returns := make([]float64, 0, len(holdings))
	for _, h := range holdings {
		if !totalValue.value.IsZero() {
			weight := h.Value().value.Div(totalValue.value).InexactFloat64()
			yield += float64(h.DividendYield) * weight
			score += h.Risk.Score() * weight
		}
		dividends = dividends.Add(h.Dividends().value)
		fees = fees.Add(h.Fees.Total())
		returns = append(returns, float64(h.ChangePercentage()))
	}

	m := Metrics{
		DividendYield:  Percent(finite(yield)),
		AverageRisk:    bandOf(finite(score)),
		TotalDividends: Money{value: dividends, cur: cur},
		TotalFees:      Money{value: fees, cur: cur},
	}
	if len(returns) == 0 {
		return m
	}

	mean, std := stat.PopMeanStdDev(returns, nil)
	mean, std = finite(mean), finite(std)
	m.Volatility = std
	if std != 0 {
		m.SharpeRatio = finite((mean - RiskFreeRate) / std)
	}
	m.Beta = mean / MarketReturn
	m.Alpha = mean - (RiskFreeRate + m.Beta*(MarketReturn-RiskFreeRate))
	return m
}
