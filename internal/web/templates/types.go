package templates

import (
	"github.com/emiliopalmerini/pricepaid/internal/analytics"
	"github.com/emiliopalmerini/pricepaid/internal/domain"
)

// Every page carries an Error. When it is set the page shows it and nothing else.

type SummaryPage struct {
	Error    string
	Overview analytics.Overview
}

type ExplorePage struct {
	Error string
	Data  analytics.Exploration
}

type HypothesisPage struct {
	Error  string
	Report analytics.HypothesisReport
}

type ModelPage struct {
	Error  string
	Report analytics.ModelReport
}

type PredictPage struct {
	Error string
	Form  analytics.PredictionForm
	// Input is what the form shows: the defaults or the last submission.
	Input      analytics.PredictionInput
	InputError string
	Result     *domain.Prediction
	History    []*domain.Prediction
}
