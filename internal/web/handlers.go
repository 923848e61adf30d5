package web

import (
	"errors"
	"net/http"

	"github.com/emiliopalmerini/pricepaid/internal/hypothesis"
	"github.com/emiliopalmerini/pricepaid/internal/web/templates"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.telemetry.RecordPageView(ctx, "summary")

	ov, err := s.analytics.Overview(ctx)
	if err != nil {
		status, msg := s.describeError(r, err)
		s.render(w, r, status, templates.Summary(templates.SummaryPage{Error: msg}))
		return
	}
	s.render(w, r, http.StatusOK, templates.Summary(templates.SummaryPage{Overview: ov}))
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.telemetry.RecordPageView(ctx, "correlation")

	data, err := s.explore(r)
	if err == nil {
		s.render(w, r, http.StatusOK, templates.Correlation(templates.ExplorePage{Data: data}))
		return
	}
	status, msg := s.describeError(r, err)
	s.render(w, r, status, templates.Correlation(templates.ExplorePage{Error: msg}))
}

func (s *Server) handleHypothesis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.telemetry.RecordPageView(ctx, "hypothesis")

	rep, err := s.analytics.Hypotheses(ctx)
	if err != nil {
		status, msg := s.describeError(r, err)
		if errors.Is(err, hypothesis.ErrInsufficientData) {
			status = http.StatusUnprocessableEntity
		}
		s.render(w, r, status, templates.Hypothesis(templates.HypothesisPage{Error: msg}))
		return
	}

	s.telemetry.RecordTest(ctx, "welch_new_vs_old", rep.TTestVerdict == hypothesis.Reject)
	if rep.ANOVA != nil {
		s.telemetry.RecordTest(ctx, "anova_property_type", rep.ANOVAVerdict == hypothesis.Reject)
	}
	s.render(w, r, http.StatusOK, templates.Hypothesis(templates.HypothesisPage{Report: rep}))
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.telemetry.RecordPageView(ctx, "model")

	rep, err := s.analytics.ModelReport(ctx)
	if err != nil {
		status, msg := s.describeError(r, err)
		s.render(w, r, status, templates.Model(templates.ModelPage{Error: msg}))
		return
	}
	s.render(w, r, http.StatusOK, templates.Model(templates.ModelPage{Report: rep}))
}

func (s *Server) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.telemetry.RecordPageView(ctx, "predict")

	form, err := s.analytics.PredictionForm(ctx)
	if err != nil {
		status, msg := s.describeError(r, err)
		s.render(w, r, status, templates.Predict(templates.PredictPage{Error: msg}))
		return
	}

	s.render(w, r, http.StatusOK, templates.Predict(templates.PredictPage{
		Form:    form,
		Input:   form.Defaults,
		History: s.recentPredictions(r),
	}))
}

func (s *Server) handlePredictSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, err := s.analytics.PredictionForm(ctx)
	if err != nil {
		status, msg := s.describeError(r, err)
		s.render(w, r, status, templates.Predict(templates.PredictPage{Error: msg}))
		return
	}

	in, err := predictionRequestFromForm(r).input()
	page := templates.PredictPage{Form: form, Input: in}
	if err == nil {
		page.Result, err = s.analytics.Predict(ctx, in)
	}
	if err != nil {
		status, msg := s.describeError(r, err)
		if status != http.StatusBadRequest {
			s.render(w, r, status, templates.Predict(templates.PredictPage{Error: msg}))
			return
		}
		page.InputError = msg
		page.History = s.recentPredictions(r)
		s.render(w, r, status, templates.Predict(page))
		return
	}

	s.telemetry.RecordPrediction(ctx, page.Result.PredictedPrice)
	page.History = s.recentPredictions(r)
	s.render(w, r, http.StatusOK, templates.Predict(page))
}
