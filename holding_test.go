package folio

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHolding_DerivedValues(t *testing.T) {
	tests := []struct {
		name        string
		h           Holding
		wantValue   Money
		wantCost    Money
		wantChange  Money
		wantPercent Percent
	}{
		{
			name:        "gain",
			h:           Demo()[0],
			wantValue:   BRL(3275),
			wantCost:    BRL(2850),
			wantChange:  BRL(425),
			wantPercent: 14.9123,
		},
		{
			name:        "loss",
			h:           Demo()[2],
			wantValue:   BRL(8775),
			wantCost:    BRL(9000),
			wantChange:  BRL(-225),
			wantPercent: -2.5,
		},
		{
			name:        "zero quantity",
			h:           stock("ZERO", Technology, Low, 0, 10, 12),
			wantValue:   USD(0),
			wantCost:    USD(0),
			wantChange:  USD(0),
			wantPercent: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.h.Value(); !got.Equal(tt.wantValue) {
				t.Errorf("Value() = %v, want %v", got, tt.wantValue)
			}
			if got := tt.h.Cost(); !got.Equal(tt.wantCost) {
				t.Errorf("Cost() = %v, want %v", got, tt.wantCost)
			}
			if got := tt.h.Change(); !got.Equal(tt.wantChange) {
				t.Errorf("Change() = %v, want %v", got, tt.wantChange)
			}
			if got := tt.h.ChangePercentage(); !got.Equal(tt.wantPercent) {
				t.Errorf("ChangePercentage() = %v, want %v", got, tt.wantPercent)
			}
		})
	}
}

func TestHolding_JSON(t *testing.T) {
	h := Demo()[1]
	h.ID = "bond"
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	got := string(data)
	for _, want := range []string{
		`"id":"bond"`,
		`"class":"fixed_income"`,
		`"value":5250`,
		`"change":250`,
		`"changePercentage":5`,
		`"purchaseDate":"2023-01-10"`,
		`"maturityDate":"2026-08-15"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("json.Marshal() = %s, want it to contain %s", got, want)
		}
	}
	if !strings.HasPrefix(got, `{"id":"bond","name":`) {
		t.Errorf("json.Marshal() = %s, want id then name first", got)
	}

	var back Holding
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if back.ID != h.ID || back.Ticker != h.Ticker || back.Class != h.Class {
		t.Errorf("json.Unmarshal() = %+v, want %+v", back, h)
	}
	if !back.CurrentPrice.Equal(h.CurrentPrice) || !back.Fees.Management.Equal(h.Fees.Management) {
		t.Errorf("json.Unmarshal() prices = %v / %v, want %v / %v", back.CurrentPrice, back.Fees.Management, h.CurrentPrice, h.Fees.Management)
	}
	if back.Metadata.MaturityDate != h.Metadata.MaturityDate {
		t.Errorf("json.Unmarshal() maturity = %v, want %v", back.Metadata.MaturityDate, h.Metadata.MaturityDate)
	}
}

func TestHolding_UnmarshalDashboardNames(t *testing.T) {
	const input = `{"name":"Petrobras","ticker":"PETR4","type":"stock","sector":"energy","quantity":100,` +
		`"purchasePrice":28.5,"currentPrice":32.75,"value":1,"change":2,"riskLevel":"medium","currency":"BRL"}`
	var h Holding
	if err := json.Unmarshal([]byte(input), &h); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if h.Class != Equity {
		t.Errorf("Class = %q, want %q", h.Class, Equity)
	}
	if h.Risk != Medium {
		t.Errorf("Risk = %q, want %q", h.Risk, Medium)
	}
	// derived fields on input are ignored
	if got, want := h.Value(), BRL(3275); !got.Equal(want) {
		t.Errorf("Value() = %v, want %v", got, want)
	}
}

func TestHolding_UnmarshalUnknownClass(t *testing.T) {
	var h Holding
	if err := json.Unmarshal([]byte(`{"name":"x","ticker":"x","class":"crypto"}`), &h); err == nil {
		t.Error("json.Unmarshal() error = nil, want an error for an unknown class")
	}
}
