package folio

import "fmt"

// Class is the coarse instrument category of a holding.
type Class string

const (
	Equity      Class = "equity"
	FixedIncome Class = "fixed_income"
	PooledFund  Class = "pooled_fund"
)

// Classes lists every known class.
var Classes = []Class{Equity, FixedIncome, PooledFund}

func (c Class) String() string { return string(c) }

// Label is the display name of the class.
func (c Class) Label() string {
	switch c {
	case Equity:
		return "Equities"
	case FixedIncome:
		return "Fixed income"
	case PooledFund:
		return "Pooled funds"
	default:
		return "Unknown"
	}
}

// ParseClass parses a class. Legacy names
// (stock, bond, mutual_fund) are accepted too.
func ParseClass(s string) (Class, error) {
	switch s {
	case "equity", "stock":
		return Equity, nil
	case "fixed_income", "bond":
		return FixedIncome, nil
	case "pooled_fund", "mutual_fund":
		return PooledFund, nil
	default:
		return "", fmt.Errorf("unknown class: %q", s)
	}
}

func (c Class) MarshalText() ([]byte, error) { return []byte(c), nil }
func (c *Class) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*c = ""
		return nil
	}
	v, err := ParseClass(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Sector is the economic sector of a holding.
type Sector string

const (
	Technology    Sector = "technology"
	Finance       Sector = "finance"
	Healthcare    Sector = "healthcare"
	Consumer      Sector = "consumer"
	Industry      Sector = "industry"
	Energy        Sector = "energy"
	Utilities     Sector = "utilities"
	RealEstate    Sector = "real_estate"
	Materials     Sector = "materials"
	Communication Sector = "communication"
)

// Sectors lists every known sector.
var Sectors = []Sector{Technology, Finance, Healthcare, Consumer, Industry, Energy, Utilities, RealEstate, Materials, Communication}

func (s Sector) String() string { return string(s) }

// Label is the display name of the sector.
func (s Sector) Label() string {
	switch s {
	case Technology:
		return "Technology"
	case Finance:
		return "Finance"
	case Healthcare:
		return "Healthcare"
	case Consumer:
		return "Consumer"
	case Industry:
		return "Industry"
	case Energy:
		return "Energy"
	case Utilities:
		return "Utilities"
	case RealEstate:
		return "Real estate"
	case Materials:
		return "Materials"
	case Communication:
		return "Communication"
	default:
		return "Unknown"
	}
}

// ParseSector parses a sector.
func ParseSector(s string) (Sector, error) {
	for _, sector := range Sectors {
		if string(sector) == s {
			return sector, nil
		}
	}
	return "", fmt.Errorf("unknown sector: %q", s)
}

func (s Sector) MarshalText() ([]byte, error) { return []byte(s), nil }
func (s *Sector) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*s = ""
		return nil
	}
	v, err := ParseSector(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// RiskBand is the qualitative risk of a holding.
type RiskBand string

const (
	Low    RiskBand = "low"
	Medium RiskBand = "medium"
	High   RiskBand = "high"
)

// RiskBands lists every band from the safest.
var RiskBands = []RiskBand{Low, Medium, High}

func (r RiskBand) String() string { return string(r) }

// Label is the display name of the band.
func (r RiskBand) Label() string {
	switch r {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	default:
		return "Unknown"
	}
}

// Score is the weight of the band in the average risk: 1, 2 or 3, 0 if unknown.
func (r RiskBand) Score() float64 {
	switch r {
	case Low:
		return 1
	case Medium:
		return 2
	case High:
		return 3
	default:
		return 0
	}
}

// ParseRiskBand parses a risk band.
func ParseRiskBand(s string) (RiskBand, error) {
	switch s {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	default:
		return "", fmt.Errorf("unknown risk band: %q", s)
	}
}

func (r RiskBand) MarshalText() ([]byte, error) { return []byte(r), nil }
func (r *RiskBand) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = ""
		return nil
	}
	v, err := ParseRiskBand(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
