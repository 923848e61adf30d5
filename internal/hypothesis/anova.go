package hypothesis

import (
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/emiliopalmerini/pricepaid/internal/domain"
)

// ANOVA is the outcome of a one-way analysis of variance.
type ANOVA struct {
	F        float64
	P        float64
	DFWithin float64
	DFGroups float64
	Groups   []string
}

// OneWayANOVA tests whether the means of the named groups differ. Groups with
// no observations are ignored.
func OneWayANOVA(groups map[string][]float64) (ANOVA, error) {
	names := make([]string, 0, len(groups))
	for name, values := range groups {
		if len(values) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	k := len(names)
	n := 0
	var all []float64
	for _, name := range names {
		n += len(groups[name])
		all = append(all, groups[name]...)
	}
	if k < 2 || n <= k {
		return ANOVA{}, ErrInsufficientData
	}

	grand := stat.Mean(all, nil)
	var ssBetween, ssWithin float64
	for _, name := range names {
		values := groups[name]
		mean := stat.Mean(values, nil)
		d := mean - grand
		ssBetween += float64(len(values)) * d * d
		for _, v := range values {
			ssWithin += (v - mean) * (v - mean)
		}
	}
	if ssWithin == 0 {
		return ANOVA{}, ErrInsufficientData
	}

	dfb := float64(k - 1)
	dfw := float64(n - k)
	f := (ssBetween / dfb) / (ssWithin / dfw)

	dist := distuv.F{D1: dfb, D2: dfw}
	return ANOVA{
		F:        f,
		P:        dist.Survival(f),
		DFGroups: dfb,
		DFWithin: dfw,
		Groups:   names,
	}, nil
}

// PriceByPropertyType tests whether mean price differs across property types.
func PriceByPropertyType(records []domain.Record) (ANOVA, error) {
	groups := make(map[string][]float64)
	for _, r := range records {
		if r.PropertyType == "" {
			continue
		}
		groups[r.PropertyType] = append(groups[r.PropertyType], r.Price)
	}
	return OneWayANOVA(groups)
}
