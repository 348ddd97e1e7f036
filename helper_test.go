package folio

import (
	"math"

	"github.com/etnz/folio/date"
)

// BRL is a helper for test to create real money from const
func BRL(v float64) Money { return M(v, "BRL") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// near reports whether a and b are equal within tolerance.
func near(a, b, tolerance float64) bool { return math.Abs(a-b) <= tolerance }

// stock is a helper for test to create a minimal valid equity holding.
func stock(ticker string, sector Sector, risk RiskBand, quantity, purchase, current float64) Holding {
	return Holding{
		Name:          ticker,
		Ticker:        ticker,
		Class:         Equity,
		Sector:        sector,
		Quantity:      Q(quantity),
		PurchasePrice: USD(purchase),
		CurrentPrice:  USD(current),
		Risk:          risk,
		PurchaseDate:  date.New(2024, 1, 2),
		Currency:      "USD",
	}
}

// fixedIDs returns an ID generator producing "1", "2", ...
func fixedIDs() func() string {
	i := 0
	return func() string {
		i++
		return string(rune('0' + i))
	}
}

func on2025() date.Date { return date.New(2025, 6, 30) }
