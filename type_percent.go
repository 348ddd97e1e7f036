package folio

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Percent is a percentage, 12.5 means 12.5%.
type Percent float64

var hundred = decimal.NewFromInt(100)

// percentOf returns part/whole as a Percent, or 0 when whole is zero.
func percentOf(part, whole decimal.Decimal) Percent {
	if whole.IsZero() {
		return 0
	}
	return Percent(part.Mul(hundred).Div(whole).InexactFloat64())
}

// finite replaces NaN and infinities with 0.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
