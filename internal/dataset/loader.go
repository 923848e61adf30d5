// Package dataset reads the cleaned Price Paid CSV and derives the filtered
// views and summary statistics the dashboard pages show.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/emiliopalmerini/pricepaid/internal/domain"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// Load reads every row of the CSV file at path.
func Load(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a dataset from r. The first row must be a header containing a
// Price column.
func Read(r io.Reader) ([]domain.Record, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	if indexOf(header, domain.ColPrice) < 0 {
		return nil, fmt.Errorf("dataset has no %q column", domain.ColPrice)
	}

	var records []domain.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				fields[name] = strings.TrimSpace(row[i])
			}
		}

		rec, err := parseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRecord(fields map[string]string) (domain.Record, error) {
	rec := domain.Record{
		PropertyType: fields[domain.ColPropertyType],
		Duration:     fields[domain.ColDuration],
		TownCity:     fields[domain.ColTownCity],
		District:     fields[domain.ColDistrict],
		County:       fields[domain.ColCounty],
		PPDCategory:  fields[domain.ColPPDCategory],
		OldNew:       domain.OldNewUnknown,
		Fields:       fields,
	}

	price, err := strconv.ParseFloat(fields[domain.ColPrice], 64)
	if err != nil {
		return rec, fmt.Errorf("invalid price %q", fields[domain.ColPrice])
	}
	rec.Price = price

	if v := fields[domain.ColDate]; v != "" {
		d, err := ParseDate(v)
		if err != nil {
			return rec, err
		}
		rec.DateOfTransfer = d
		rec.Year = d.Year()
		rec.Month = int(d.Month())
	}

	if v := fields[domain.ColYear]; v != "" {
		y, err := parseInt(v)
		if err != nil {
			return rec, fmt.Errorf("invalid year %q", v)
		}
		rec.Year = y
	}
	if v := fields[domain.ColMonth]; v != "" {
		m, err := parseInt(v)
		if err != nil {
			return rec, fmt.Errorf("invalid month %q", v)
		}
		rec.Month = m
	}

	if v := fields[domain.ColOldNew]; !isBlank(v) {
		flag, err := ParseOldNew(v)
		if err != nil {
			return rec, err
		}
		rec.OldNew = flag
	}

	return rec, nil
}

// ParseDate accepts the date formats found in cleaned PPD exports.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseOldNew converts the Old/New column to 1 (new build) or 0 (established).
func ParseOldNew(s string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1", "1.0", "Y", "NEW", "TRUE":
		return 1, nil
	case "0", "0.0", "N", "OLD", "FALSE":
		return 0, nil
	}
	return 0, fmt.Errorf("invalid Old/New flag %q", s)
}

// isBlank reports whether a cell is empty or holds a pandas missing marker.
func isBlank(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "na", "null", "none":
		return true
	}
	return false
}

// parseInt accepts integers written as floats ("2021.0"), which pandas emits
// for integer columns that once held NaN.
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}

// Prices returns the price column of records.
func Prices(records []domain.Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Price
	}
	return out
}

// DateRange returns the earliest and latest transfer dates. ok is false when
// no record carries a date.
func DateRange(records []domain.Record) (minDate, maxDate time.Time, ok bool) {
	for _, r := range records {
		if r.DateOfTransfer.IsZero() {
			continue
		}
		if !ok || r.DateOfTransfer.Before(minDate) {
			minDate = r.DateOfTransfer
		}
		if !ok || r.DateOfTransfer.After(maxDate) {
			maxDate = r.DateOfTransfer
		}
		ok = true
	}
	return minDate, maxDate, ok
}
