package dataset

import (
	"math"
	"slices"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/emiliopalmerini/pricepaid/internal/domain"
)

// Summary holds descriptive statistics of a numeric column.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe summarises values. The standard deviation is the sample (n-1)
// estimate; it is NaN when fewer than two values are given.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, variance := stat.MeanVariance(sorted, nil)
	return Summary{
		Count:  len(sorted),
		Mean:   mean,
		Std:    math.Sqrt(variance),
		Min:    sorted[0],
		Q25:    Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q75:    Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// Quantile returns the p-quantile of sorted values, interpolating linearly
// between the two nearest order statistics at rank (n-1)p.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// Bin is one bar of a histogram covering [Lower, Upper).
type Bin struct {
	Lower float64
	Upper float64
	Count int
}

// Histogram splits values into equal-width bins spanning their range.
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins < 1 {
		return nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(sorted)}}
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// The last divider is exclusive, so nudge it past the maximum.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lower: dividers[i], Upper: dividers[i+1], Count: int(counts[i])}
	}
	out[bins-1].Upper = hi
	return out
}

// Group is the mean price of the records sharing a key.
type Group struct {
	Key   string
	Mean  float64
	Count int
}

// MeanPriceBy groups records by key and averages their price. Groups are
// returned in key order.
func MeanPriceBy(records []domain.Record, key func(domain.Record) string) []Group {
	values := make(map[string][]float64)
	for _, r := range records {
		k := key(r)
		values[k] = append(values[k], r.Price)
	}

	out := make([]Group, 0, len(values))
	for k, v := range values {
		out = append(out, Group{Key: k, Mean: stat.Mean(v, nil), Count: len(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ByYear keys a record by its transfer year.
func ByYear(r domain.Record) string { return strconv.Itoa(r.Year) }

// ByPropertyType keys a record by its property type.
func ByPropertyType(r domain.Record) string { return r.PropertyType }

// Numeric returns the value of a numeric column for r.
func Numeric(r domain.Record, column string) (float64, bool) {
	switch column {
	case domain.ColPrice:
		return r.Price, true
	case domain.ColYear:
		return float64(r.Year), true
	case domain.ColMonth:
		return float64(r.Month), true
	case domain.ColOldNew:
		if !r.HasOldNew() {
			return 0, false
		}
		return float64(r.OldNew), true
	}
	v, ok := r.Fields[column]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// NumericColumns returns the columns that parse as numbers on every record,
// with Price first. Old/New is included when any record has a known flag.
func NumericColumns(records []domain.Record) []string {
	if len(records) == 0 {
		return nil
	}

	cols := []string{domain.ColPrice, domain.ColYear, domain.ColMonth}
	if _, ok := records[0].Fields[domain.ColOldNew]; ok && slices.ContainsFunc(records, domain.Record.HasOldNew) {
		cols = append(cols, domain.ColOldNew)
	}

	known := map[string]bool{
		domain.ColPrice: true, domain.ColYear: true, domain.ColMonth: true,
		domain.ColOldNew: true, domain.ColDate: true,
	}
	var extra []string
	for name := range records[0].Fields {
		if known[name] {
			continue
		}
		numeric := true
		for _, r := range records {
			if _, ok := Numeric(r, name); !ok {
				numeric = false
				break
			}
		}
		if numeric {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

// Correlation is a Pearson correlation matrix over Columns. Cells involving a
// constant column are NaN.
type Correlation struct {
	Columns []string
	Values  [][]float64
}

// CorrelationMatrix computes pairwise Pearson correlations between columns.
// Each cell uses the records where both of its columns are present.
func CorrelationMatrix(records []domain.Record, columns []string) Correlation {
	values := make([][]float64, len(columns))
	present := make([][]bool, len(columns))
	for i, c := range columns {
		values[i] = make([]float64, len(records))
		present[i] = make([]bool, len(records))
		for k, r := range records {
			values[i][k], present[i][k] = Numeric(r, c)
		}
	}

	m := Correlation{Columns: columns, Values: make([][]float64, len(columns))}
	for i := range columns {
		m.Values[i] = make([]float64, len(columns))
	}
	for i := range columns {
		for j := i; j < len(columns); j++ {
			var x, y []float64
			for k := range records {
				if present[i][k] && present[j][k] {
					x = append(x, values[i][k])
					y = append(y, values[j][k])
				}
			}
			m.Values[i][j] = pearson(x, y)
			m.Values[j][i] = m.Values[i][j]
		}
	}
	return m
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
