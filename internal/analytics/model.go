package analytics

import (
	"time"

	"github.com/emiliopalmerini/pricepaid/internal/dataset"
	"github.com/emiliopalmerini/pricepaid/internal/domain"
	"github.com/emiliopalmerini/pricepaid/internal/hypothesis"
	"github.com/emiliopalmerini/pricepaid/internal/pipeline"
)

// SampleRows is how many filtered rows the exploration page lists.
const SampleRows = 10

// HistogramBins is the number of bars in the price distribution.
const HistogramBins = 30

// TopFeatures is how many importances the model page charts.
const TopFeatures = 15

// Overview is the project summary. Metrics and Glimpse are optional.
type Overview struct {
	Metrics        domain.Metrics
	MetricsMissing string
	Glimpse        *Glimpse
	DatasetMissing string
}

// Glimpse is a few headline numbers about the dataset.
type Glimpse struct {
	Rows        int
	MedianPrice float64
	FirstYear   int
	LastYear    int
	Counties    int
}

// Exploration is the correlation and EDA page for one filter selection.
type Exploration struct {
	Options     dataset.Options
	Selection   dataset.Selection
	TotalRows   int
	Rows        int
	Price       dataset.Summary
	Histogram   []dataset.Bin
	ByYear      []dataset.Group
	ByType      []dataset.Group
	Correlation dataset.Correlation
	Sample      []domain.Record
}

// HypothesisReport holds both significance tests.
type HypothesisReport struct {
	TTest         hypothesis.TTest
	TTestVerdict  hypothesis.Verdict
	TTestMessage  string
	ANOVA         *hypothesis.ANOVA
	ANOVAVerdict  hypothesis.Verdict
	ANOVAMessage  string
	ANOVAError    string
	Alpha         float64
	NewCount      int
	OldCount      int
	ExcludedCount int
}

// ModelReport is the model evaluation page.
type ModelReport struct {
	Metrics        domain.Metrics
	MetricsMissing string
	Evaluation     *pipeline.Evaluation
	EvalError      string
	Importances    []pipeline.Importance
	Inputs         []string
}

// Choice is one dropdown entry.
type Choice struct {
	Value string
	Label string
}

// PredictionForm holds the dropdown values and date bounds of the prediction page.
type PredictionForm struct {
	PropertyTypes []Choice
	OldNew        []Choice
	Durations     []Choice
	Towns         []Choice
	Districts     []Choice
	Counties      []Choice
	PPDCategories []Choice
	MinDate       time.Time
	MaxDate       time.Time
	Defaults      PredictionInput
}

// PredictionInput is what a user submits to get a price estimate.
type PredictionInput struct {
	PropertyType string
	OldNew       string
	Duration     string
	TownCity     string
	District     string
	County       string
	// PPDCategory holds either the category label or its code.
	PPDCategory string
	Date        time.Time
}
