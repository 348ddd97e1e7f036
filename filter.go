package folio

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// SortKey names the holding field a Filter sorts on.
type SortKey string

const (
	SortByValue         SortKey = "value"
	SortByChange        SortKey = "change" // change percentage
	SortByRisk          SortKey = "risk"
	SortByName          SortKey = "name"
	SortByQuantity      SortKey = "quantity"
	SortByCurrentPrice  SortKey = "currentPrice"
	SortByPurchasePrice SortKey = "purchasePrice"
)

// ParseSortKey parses a sort key, "" means no sorting.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "", SortByValue, SortByChange, SortByRisk, SortByName, SortByQuantity, SortByCurrentPrice, SortByPurchasePrice:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key: %q", s)
	}
}

// Filter selects and orders holdings the way the dashboard filter bar does.
//
// The zero value keeps every holding in its original order. A zero MinValue
// or MaxValue is no bound.
type Filter struct {
	Class      Class
	MinValue   decimal.Decimal
	MaxValue   decimal.Decimal
	SortBy     SortKey
	Descending bool
}

func (f Filter) keep(h Holding) bool {
	if f.Class != "" && h.Class != f.Class {
		return false
	}
	v := h.Value().value
	if !f.MinValue.IsZero() && v.LessThan(f.MinValue) {
		return false
	}
	if !f.MaxValue.IsZero() && v.GreaterThan(f.MaxValue) {
		return false
	}
	return true
}

func (f Filter) compare(a, b Holding) int {
	switch f.SortBy {
	case SortByValue:
		return a.Value().value.Cmp(b.Value().value)
	case SortByChange:
		return cmp.Compare(a.ChangePercentage(), b.ChangePercentage())
	case SortByRisk:
		return cmp.Compare(a.Risk.Score(), b.Risk.Score())
	case SortByName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case SortByQuantity:
		return a.Quantity.value.Cmp(b.Quantity.value)
	case SortByCurrentPrice:
		return a.CurrentPrice.value.Cmp(b.CurrentPrice.value)
	case SortByPurchasePrice:
		return a.PurchasePrice.value.Cmp(b.PurchasePrice.value)
	default:
		return 0
	}
}

// Apply returns the holdings kept by f, sorted. holdings is not modified.
func (f Filter) Apply(holdings []Holding) []Holding {
	result := make([]Holding, 0, len(holdings))
	for _, h := range holdings {
		if f.keep(h) {
			result = append(result, h)
		}
	}
	slices.SortStableFunc(result, func(a, b Holding) int {
		if f.Descending {
			return f.compare(b, a)
		}
		return f.compare(a, b)
	})
	return result
}

// QuickStats are the dashboard headline numbers of a selection of holdings.
type QuickStats struct {
	AnnualReturn  Percent `json:"annualReturn"`
	MonthlyChange Money   `json:"monthlyChange"`
	AverageValue  Money   `json:"averageValue"`
	Count         int     `json:"count"`
}

// ComputeQuickStats computes the quick stats of holdings. MonthlyChange is
// the total change spread evenly over twelve months.
func ComputeQuickStats(holdings []Holding) QuickStats {
	totals := ComputeTotals(holdings)
	stats := QuickStats{
		AnnualReturn:  totals.TotalChangePercentage,
		MonthlyChange: Money{value: totals.TotalChange.value.Div(decimal.NewFromInt(12)), cur: totals.Currency},
		AverageValue:  Money{cur: totals.Currency},
		Count:         len(holdings),
	}
	if len(holdings) > 0 {
		stats.AverageValue.value = totals.TotalValue.value.Div(decimal.NewFromInt(int64(len(holdings))))
	}
	return stats
}
