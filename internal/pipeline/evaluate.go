package pipeline

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/emiliopalmerini/pricepaid/internal/domain"
)

// EvalOptions controls the train/test split.
type EvalOptions struct {
	TestSize float64
	Seed     uint64
}

// DefaultEvalOptions holds out a fifth of the rows with a fixed seed.
var DefaultEvalOptions = EvalOptions{TestSize: 0.2, Seed: 42}

// Scores are the error figures for one split.
type Scores struct {
	Count int
	MAE   float64
	RMSE  float64
	R2    float64
}

// Residual is one test-set prediction.
type Residual struct {
	Actual    float64
	Predicted float64
}

// Delta is actual minus predicted.
func (r Residual) Delta() float64 {
	return r.Actual - r.Predicted
}

// Evaluation is the model's performance on a held-out split of the dataset.
type Evaluation struct {
	Train     Scores
	Test      Scores
	Residuals []Residual
	// Skipped counts rows the pipeline could not score.
	Skipped int
}

// Split deterministically partitions n row indices into train and test sets.
// The test set holds ceil(n*testSize) rows.
func Split(n int, opts EvalOptions) (train, test []int) {
	if n == 0 {
		return nil, nil
	}
	size := opts.TestSize
	if size <= 0 || size >= 1 {
		size = DefaultEvalOptions.TestSize
	}
	nTest := int(math.Ceil(float64(n) * size))
	if nTest >= n {
		nTest = n - 1
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	perm := rng.Perm(n)
	return perm[nTest:], perm[:nTest]
}

// Evaluate scores the pipeline on a train/test split of records.
func Evaluate(p *Pipeline, records []domain.Record, opts EvalOptions) (Evaluation, error) {
	if len(records) < 2 {
		return Evaluation{}, errors.New("need at least two rows to evaluate")
	}

	var eval Evaluation
	trainIdx, testIdx := Split(len(records), opts)

	score := func(idx []int) (actual, predicted []float64) {
		for _, i := range idx {
			y, err := p.Predict(records[i].Features())
			if err != nil {
				eval.Skipped++
				continue
			}
			actual = append(actual, records[i].Price)
			predicted = append(predicted, y)
		}
		return actual, predicted
	}

	trainActual, trainPred := score(trainIdx)
	testActual, testPred := score(testIdx)
	if len(testActual) == 0 {
		return Evaluation{}, errors.New("pipeline could not score any test row")
	}

	eval.Train = newScores(trainActual, trainPred)
	eval.Test = newScores(testActual, testPred)
	eval.Residuals = make([]Residual, len(testActual))
	for i := range testActual {
		eval.Residuals[i] = Residual{Actual: testActual[i], Predicted: testPred[i]}
	}
	return eval, nil
}

func newScores(actual, predicted []float64) Scores {
	return Scores{
		Count: len(actual),
		MAE:   MAE(actual, predicted),
		RMSE:  RMSE(actual, predicted),
		R2:    R2(actual, predicted),
	}
}
