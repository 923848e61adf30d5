package pipeline

import (
	"math"
	"sort"
)

// Importance is the relative weight of one encoded feature.
type Importance struct {
	Feature string
	Value   float64
}

// Importances returns feature importances sorted from most to least important.
// Explicit importances from the pipeline file are used when present; otherwise
// the absolute coefficients are normalised to sum to one.
func (p *Pipeline) Importances() []Importance {
	names := p.FeatureNames()
	raw := p.FeatureImportances
	if raw == nil {
		raw = make([]float64, len(p.Estimator.Coefficients))
		var total float64
		for i, c := range p.Estimator.Coefficients {
			raw[i] = math.Abs(c)
			total += raw[i]
		}
		if total > 0 {
			for i := range raw {
				raw[i] /= total
			}
		}
	}

	out := make([]Importance, len(names))
	for i, name := range names {
		out[i] = Importance{Feature: name, Value: raw[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// TopImportances returns at most n entries of Importances.
func (p *Pipeline) TopImportances(n int) []Importance {
	all := p.Importances()
	if n > 0 && len(all) > n {
		return all[:n]
	}
	return all
}
