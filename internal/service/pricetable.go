package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// PriceTable maps a YYYY-MM-DD date string to a daily price used for USD
// conversion. Sourced externally, one table per native currency.
type PriceTable map[string]float64

// LoadPriceTable reads a date,price CSV file into a PriceTable.
// An optional "date,price" header row is skipped. Malformed rows fail the
// load; a price table with silent holes would defeat its purpose.
func LoadPriceTable(path string) (PriceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price table: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	table := make(PriceTable)
	line := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read price table line %d: %w", line+1, err)
		}
		line++

		date := strings.TrimSpace(rec[0])
		if line == 1 && strings.EqualFold(date, "date") {
			continue
		}
		if _, err := time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("price table line %d: invalid date %q: %w", line, date, err)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("price table line %d: invalid price %q: %w", line, rec[1], err)
		}
		table[date] = price
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("price table %s: no rows", path)
	}
	return table, nil
}
