// Package hypothesis runs the significance tests shown on the hypothesis page.
package hypothesis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/emiliopalmerini/pricepaid/internal/domain"
)

// ErrInsufficientData is returned when a group is too small or has no spread.
var ErrInsufficientData = errors.New("not enough data to run the test")

// TTest is the outcome of a two-sample t-test.
type TTest struct {
	T      float64
	DF     float64
	P      float64
	MeanA  float64
	MeanB  float64
	CountA int
	CountB int
}

// WelchTTest runs a two-sided two-sample t-test without assuming equal
// variances.
func WelchTTest(a, b []float64) (TTest, error) {
	if len(a) < 2 || len(b) < 2 {
		return TTest{}, ErrInsufficientData
	}

	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)
	na, nb := float64(len(a)), float64(len(b))

	sa, sb := varA/na, varB/nb
	se := math.Sqrt(sa + sb)
	if se == 0 {
		return TTest{}, ErrInsufficientData
	}

	t := (meanA - meanB) / se
	df := (sa + sb) * (sa + sb) / (sa*sa/(na-1) + sb*sb/(nb-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))

	return TTest{
		T:      t,
		DF:     df,
		P:      math.Min(p, 1),
		MeanA:  meanA,
		MeanB:  meanB,
		CountA: len(a),
		CountB: len(b),
	}, nil
}

// SplitNewOld returns the prices of new builds (flag 1) and established
// properties (flag 0). Records with an unknown flag are in neither.
func SplitNewOld(records []domain.Record) (newPrices, oldPrices []float64) {
	for _, r := range records {
		switch r.OldNew {
		case 1:
			newPrices = append(newPrices, r.Price)
		case 0:
			oldPrices = append(oldPrices, r.Price)
		}
	}
	return newPrices, oldPrices
}

// NewVsOld tests whether new builds and established properties differ in price.
func NewVsOld(records []domain.Record) (TTest, error) {
	newPrices, oldPrices := SplitNewOld(records)
	return WelchTTest(newPrices, oldPrices)
}
