package dataset

import (
	"sort"

	"github.com/emiliopalmerini/pricepaid/internal/domain"
)

// DefaultCountyCount is how many counties the sidebar preselects.
const DefaultCountyCount = 10

// Options lists the values offered by the sidebar filters.
type Options struct {
	Years    []int
	Counties []string
}

// Selection is the set of years and counties a user picked.
type Selection struct {
	Years    []int
	Counties []string
}

// BuildOptions returns the sorted distinct years and counties in records.
func BuildOptions(records []domain.Record) Options {
	years := make(map[int]struct{})
	counties := make(map[string]struct{})
	for _, r := range records {
		years[r.Year] = struct{}{}
		counties[r.County] = struct{}{}
	}

	opts := Options{
		Years:    make([]int, 0, len(years)),
		Counties: make([]string, 0, len(counties)),
	}
	for y := range years {
		opts.Years = append(opts.Years, y)
	}
	for c := range counties {
		opts.Counties = append(opts.Counties, c)
	}
	sort.Ints(opts.Years)
	sort.Strings(opts.Counties)
	return opts
}

// DefaultSelection selects every year and the first counties in sort order.
func DefaultSelection(opts Options) Selection {
	n := min(DefaultCountyCount, len(opts.Counties))
	return Selection{
		Years:    append([]int(nil), opts.Years...),
		Counties: append([]string(nil), opts.Counties[:n]...),
	}
}

// Filter keeps the records whose year and county are both selected. An empty
// set selects nothing.
func Filter(records []domain.Record, sel Selection) []domain.Record {
	years := make(map[int]struct{}, len(sel.Years))
	for _, y := range sel.Years {
		years[y] = struct{}{}
	}
	counties := make(map[string]struct{}, len(sel.Counties))
	for _, c := range sel.Counties {
		counties[c] = struct{}{}
	}

	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if _, ok := years[r.Year]; !ok {
			continue
		}
		if _, ok := counties[r.County]; !ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Distinct returns the sorted distinct non-empty values of a raw column.
func Distinct(records []domain.Record, column string) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		if v := r.Fields[column]; v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
