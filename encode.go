package folio

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Holdings are persisted as JSON Lines: one holding per line, human-readable
// and git friendly. Empty lines are ignored.

// DecodeHoldings reads holdings from r.
func DecodeHoldings(r io.Reader) ([]Holding, error) {
	holdings := make([]Holding, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if strings.TrimSpace(string(line)) == "" {
			continue
		}
		var h Holding
		if err := json.Unmarshal(line, &h); err != nil {
			return nil, fmt.Errorf("parse error on line %d: %w", i, err)
		}
		holdings = append(holdings, h)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read holdings: %w", err)
	}
	return holdings, nil
}

// EncodeHoldings writes holdings to w, one per line.
func EncodeHoldings(w io.Writer, holdings []Holding) error {
	for _, h := range holdings {
		line, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("cannot encode holding %q: %w", h.Ticker, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// LoadHoldings reads a holdings file. It returns an error wrapping
// os.ErrNotExist if the file does not exist.
func LoadHoldings(filename string) ([]Holding, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open holdings file %q: %w", filename, err)
	}
	defer f.Close()
	holdings, err := DecodeHoldings(f)
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", filename, err)
	}
	return holdings, nil
}

// SaveHoldings writes holdings into filename, replacing its content. The
// file is written to a temporary file in the same directory, then renamed,
// so that readers never see a partial file.
func SaveHoldings(filename string, holdings []Holding) (err error) {
	f, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create holdings file %q: %w", filename, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if err := f.Chmod(0o644); err != nil {
		return err
	}
	if err := EncodeHoldings(f, holdings); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), filename); err != nil {
		return fmt.Errorf("cannot replace holdings file %q: %w", filename, err)
	}
	return nil
}

// IsNotExist reports whether err comes from a missing holdings file.
func IsNotExist(err error) bool { return errors.Is(err, os.ErrNotExist) }

var csvHeader = []string{
	"id", "name", "ticker", "class", "sector", "quantity", "purchase_price", "current_price",
	"value", "change", "change_percentage", "risk", "dividend_yield", "last_dividend",
	"purchase_date", "currency", "exchange", "fees", "notes",
}

// EncodeCSV writes holdings as a CSV table with a header row. Amounts are
// plain decimals in the holding currency.
func EncodeCSV(w io.Writer, holdings []Holding) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, h := range holdings {
		record := []string{
			h.ID,
			h.Name,
			h.Ticker,
			h.Class.String(),
			h.Sector.String(),
			h.Quantity.String(),
			h.PurchasePrice.value.String(),
			h.CurrentPrice.value.String(),
			h.Value().value.String(),
			h.Change().value.String(),
			fmt.Sprintf("%.2f", float64(h.ChangePercentage())),
			h.Risk.String(),
			fmt.Sprintf("%g", float64(h.DividendYield)),
			h.LastDividend.value.String(),
			h.PurchaseDate.String(),
			h.currency(),
			h.Exchange,
			h.Fees.Total().String(),
			h.Notes,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
