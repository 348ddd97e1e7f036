package folio

import (
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// Demo returns a small Brazilian portfolio: one stock, one treasury bond and
// one real estate fund, all in BRL.
func Demo() []Holding {
	const brl = "BRL"
	return []Holding{
		{
			Name:          "Petrobras",
			Ticker:        "PETR4",
			Class:         Equity,
			Sector:        Energy,
			Quantity:      Q(100),
			PurchasePrice: M(28.50, brl),
			CurrentPrice:  M(32.75, brl),
			Risk:          Medium,
			DividendYield: 12.5,
			LastDividend:  M(2.75, brl),
			PurchaseDate:  date.MustParse("2023-06-15"),
			Notes:         "State oil company paying strong dividends",
			Currency:      brl,
			Exchange:      "B3",
			Fees:          Fees{Purchase: M(4.90, brl), Management: M(0, brl), Performance: M(0, brl)},
			Metadata:      Metadata{Rating: "Buy"},
		},
		{
			Name:          "Tesouro IPCA+ 2026",
			Ticker:        "IPCA+2026",
			Class:         FixedIncome,
			Sector:        Finance,
			Quantity:      Q(1),
			PurchasePrice: M(5000, brl),
			CurrentPrice:  M(5250, brl),
			Risk:          Low,
			LastDividend:  M(0, brl),
			PurchaseDate:  date.MustParse("2023-01-10"),
			Notes:         "Inflation linked government bond",
			Currency:      brl,
			Exchange:      "Tesouro Direto",
			Fees:          Fees{Purchase: M(0, brl), Management: M(0.25, brl), Performance: M(0, brl)},
			Metadata: Metadata{
				Rating:       "AAA",
				MaturityDate: date.MustParse("2026-08-15"),
				InterestRate: 5.75,
			},
		},
		{
			Name:          "FII HGLG11",
			Ticker:        "HGLG11",
			Class:         PooledFund,
			Sector:        RealEstate,
			Quantity:      Q(50),
			PurchasePrice: M(180, brl),
			CurrentPrice:  M(175.50, brl),
			Risk:          Medium,
			DividendYield: 8.2,
			LastDividend:  M(1.20, brl),
			PurchaseDate:  date.MustParse("2023-09-20"),
			Notes:         "Logistics warehouses real estate fund",
			Currency:      brl,
			Exchange:      "B3",
			Fees:          Fees{Purchase: M(4.90, brl), Management: M(1.5, brl), Performance: M(0, brl)},
			Metadata: Metadata{
				FundManager:       "CSHG",
				Strategy:          "Logistics",
				MinimumInvestment: decimal.NewFromInt(1000),
			},
		},
	}
}
