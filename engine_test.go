package folio

import (
	"math"
	"reflect"
	"testing"

	"github.com/etnz/folio/date"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name        string
		holdings    []Holding
		wantValue   Money
		wantChange  Money
		wantPercent Percent
		wantCur     string
	}{
		{
			name:        "single stock",
			holdings:    Demo()[:1],
			wantValue:   BRL(3275),
			wantChange:  BRL(425),
			wantPercent: 14.9123,
			wantCur:     "BRL",
		},
		{
			name:        "demo",
			holdings:    Demo(),
			wantValue:   BRL(17300),
			wantChange:  BRL(450),
			wantPercent: 2.6706,
			wantCur:     "BRL",
		},
		{
			name:        "empty",
			holdings:    nil,
			wantValue:   M(0, ""),
			wantChange:  M(0, ""),
			wantPercent: 0,
		},
		{
			name: "mixed currencies",
			holdings: []Holding{
				stock("AAPL", Technology, High, 1, 100, 110),
				Demo()[0],
			},
			wantValue:   M(3385, ""),
			wantChange:  M(435, ""),
			wantPercent: 435.0 / 2950 * 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.holdings)
			if got.Currency != tt.wantCur {
				t.Errorf("Currency = %q, want %q", got.Currency, tt.wantCur)
			}
			if !got.TotalValue.Equal(tt.wantValue) {
				t.Errorf("TotalValue = %v, want %v", got.TotalValue, tt.wantValue)
			}
			if !got.TotalChange.Equal(tt.wantChange) {
				t.Errorf("TotalChange = %v, want %v", got.TotalChange, tt.wantChange)
			}
			if !got.TotalChangePercentage.Equal(tt.wantPercent) {
				t.Errorf("TotalChangePercentage = %v, want %v", got.TotalChangePercentage, tt.wantPercent)
			}
		})
	}
}

func TestComputeTotals_ZeroCostBasis(t *testing.T) {
	// value equals change: the cost basis is zero.
	h := stock("FREE", Technology, Low, 10, 0, 5)
	got := ComputeTotals([]Holding{h})
	if got.TotalChangePercentage != 0 {
		t.Errorf("TotalChangePercentage = %v, want 0", got.TotalChangePercentage)
	}
}

func TestComputeDistributions(t *testing.T) {
	holdings := Demo()
	total := ComputeTotals(holdings).TotalValue

	type entry struct {
		key     string
		value   Money
		percent Percent
	}
	check := func(t *testing.T, got []Distribution, want []entry) {
		t.Helper()
		if len(got) != len(want) {
			t.Fatalf("len = %d, want %d: %v", len(got), len(want), got)
		}
		for i, w := range want {
			if got[i].Key != w.key {
				t.Errorf("[%d].Key = %q, want %q", i, got[i].Key, w.key)
			}
			if !got[i].Value.Equal(w.value) {
				t.Errorf("[%d].Value = %v, want %v", i, got[i].Value, w.value)
			}
			if !got[i].Percentage.Equal(w.percent) {
				t.Errorf("[%d].Percentage = %v, want %v", i, got[i].Percentage, w.percent)
			}
		}
	}

	t.Run("class", func(t *testing.T) {
		check(t, ComputeClassDistribution(holdings, total), []entry{
			{"equity", BRL(3275), 18.9306},
			{"fixed_income", BRL(5250), 30.3468},
			{"pooled_fund", BRL(8775), 50.7225},
		})
	})
	t.Run("sector", func(t *testing.T) {
		check(t, ComputeSectorDistribution(holdings, total), []entry{
			{"energy", BRL(3275), 18.9306},
			{"finance", BRL(5250), 30.3468},
			{"real_estate", BRL(8775), 50.7225},
		})
	})
	t.Run("risk first seen order", func(t *testing.T) {
		check(t, ComputeRiskDistribution(holdings, total), []entry{
			{"medium", BRL(12050), 69.6532},
			{"low", BRL(5250), 30.3468},
		})
	})
	t.Run("two sectors", func(t *testing.T) {
		two := []Holding{
			stock("A", Technology, Low, 1, 50, 100),
			stock("B", Finance, Low, 2, 50, 50),
		}
		check(t, ComputeSectorDistribution(two, ComputeTotals(two).TotalValue), []entry{
			{"technology", USD(100), 50},
			{"finance", USD(100), 50},
		})
	})
	t.Run("zero total", func(t *testing.T) {
		zero := []Holding{stock("Z", Technology, Low, 0, 1, 1)}
		check(t, ComputeClassDistribution(zero, USD(0)), []entry{
			{"equity", USD(0), 0},
		})
	})
	t.Run("empty", func(t *testing.T) {
		if got := ComputeClassDistribution(nil, M(0, "")); len(got) != 0 {
			t.Errorf("ComputeClassDistribution(nil) = %v, want empty", got)
		}
	})
}

func TestComputeDistributions_SumTo100(t *testing.T) {
	holdings := Demo()
	holdings[0].Quantity = Q(137)
	holdings[2].CurrentPrice = BRL(171.33)
	total := ComputeTotals(holdings).TotalValue

	for name, dist := range map[string][]Distribution{
		"class":  ComputeClassDistribution(holdings, total),
		"sector": ComputeSectorDistribution(holdings, total),
		"risk":   ComputeRiskDistribution(holdings, total),
	} {
		sum := 0.0
		for _, d := range dist {
			sum += float64(d.Percentage)
		}
		if !near(sum, 100, 1e-6) {
			t.Errorf("%s percentages sum to %v, want 100", name, sum)
		}
	}
}

func TestComputeProfitHistory(t *testing.T) {
	got := ComputeProfitHistory(Demo(), on2025())
	if len(got) != HistoryLength {
		t.Fatalf("len(ComputeProfitHistory()) = %d, want %d", len(got), HistoryLength)
	}
	for i, p := range got {
		if want := 2019 + i; p.Year != want {
			t.Errorf("[%d].Year = %d, want %d", i, p.Year, want)
		}
	}
	first, last := got[0], got[HistoryLength-1]
	if want := BRL(1310); !first.Equity.Equal(want) {
		t.Errorf("first Equity = %v, want %v", first.Equity, want)
	}
	if want := BRL(2625); !first.FixedIncome.Equal(want) {
		t.Errorf("first FixedIncome = %v, want %v", first.FixedIncome, want)
	}
	if want := BRL(5265); !first.PooledFund.Equal(want) {
		t.Errorf("first PooledFund = %v, want %v", first.PooledFund, want)
	}
	if want := BRL(3275); !last.Equity.Equal(want) {
		t.Errorf("last Equity = %v, want %v", last.Equity, want)
	}
	if want := BRL(5250); !last.FixedIncome.Equal(want) {
		t.Errorf("last FixedIncome = %v, want %v", last.FixedIncome, want)
	}
	if want := BRL(8775); !last.PooledFund.Equal(want) {
		t.Errorf("last PooledFund = %v, want %v", last.PooledFund, want)
	}
	if want := BRL(17300); !last.Total().Equal(want) {
		t.Errorf("last Total() = %v, want %v", last.Total(), want)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Total().LessThan(got[i-1].Total()) {
			t.Errorf("history decreases between %d and %d", got[i-1].Year, got[i].Year)
		}
	}
}

func TestComputeProfitHistory_Empty(t *testing.T) {
	got := ComputeProfitHistory(nil, date.New(2030, 1, 1))
	if len(got) != HistoryLength {
		t.Fatalf("len(ComputeProfitHistory(nil)) = %d, want %d", len(got), HistoryLength)
	}
	for _, p := range got {
		if !p.Total().IsZero() {
			t.Errorf("%d Total() = %v, want 0", p.Year, p.Total())
		}
	}
	if got[HistoryLength-1].Year != 2030 {
		t.Errorf("last Year = %d, want 2030", got[HistoryLength-1].Year)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	holdings := Demo()
	a := Compute(holdings, on2025())
	b := Compute(holdings, on2025())
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Compute() is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil, on2025())
	if !got.TotalValue.IsZero() || !got.TotalChange.IsZero() || got.TotalChangePercentage != 0 {
		t.Errorf("totals = %v %v %v, want zeros", got.TotalValue, got.TotalChange, got.TotalChangePercentage)
	}
	if len(got.Distribution)+len(got.SectorDistribution)+len(got.RiskDistribution) != 0 {
		t.Errorf("distributions = %v %v %v, want empty", got.Distribution, got.SectorDistribution, got.RiskDistribution)
	}
	if len(got.ProfitHistory) != HistoryLength {
		t.Errorf("len(ProfitHistory) = %d, want %d", len(got.ProfitHistory), HistoryLength)
	}
	m := got.Metrics
	if m.AverageRisk != Low {
		t.Errorf("AverageRisk = %q, want %q", m.AverageRisk, Low)
	}
	for name, v := range map[string]float64{
		"DividendYield": float64(m.DividendYield),
		"SharpeRatio":   m.SharpeRatio,
		"Beta":          m.Beta,
		"Alpha":         m.Alpha,
		"Volatility":    m.Volatility,
	} {
		if v != 0 || math.IsNaN(v) {
			t.Errorf("%s = %v, want 0", name, v)
		}
	}
}
