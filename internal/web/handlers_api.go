package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/emiliopalmerini/pricepaid/internal/analytics"
	"github.com/emiliopalmerini/pricepaid/internal/dataset"
	"github.com/emiliopalmerini/pricepaid/internal/domain"
	"github.com/emiliopalmerini/pricepaid/internal/util"
)

func (s *Server) handleAPIChartDistribution(w http.ResponseWriter, r *http.Request) {
	data, err := s.explore(r)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	labels := make([]string, len(data.Histogram))
	counts := make([]int, len(data.Histogram))
	for i, b := range data.Histogram {
		labels[i] = util.FormatPrice(b.Lower)
		counts[i] = b.Count
	}

	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"label":  "Transactions",
		"labels": labels,
		"values": counts,
	})
}

func (s *Server) handleAPIChartByYear(w http.ResponseWriter, r *http.Request) {
	s.writeGroupChart(w, r, func(e analytics.Exploration) []dataset.Group { return e.ByYear })
}

func (s *Server) handleAPIChartByType(w http.ResponseWriter, r *http.Request) {
	s.writeGroupChart(w, r, func(e analytics.Exploration) []dataset.Group { return e.ByType })
}

func (s *Server) writeGroupChart(w http.ResponseWriter, r *http.Request, pick func(analytics.Exploration) []dataset.Group) {
	data, err := s.explore(r)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	groups := pick(data)
	labels := make([]string, len(groups))
	means := make([]float64, len(groups))
	counts := make([]int, len(groups))
	for i, g := range groups {
		labels[i] = g.Key
		means[i] = g.Mean
		counts[i] = g.Count
	}

	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"label":  "Mean price (£)",
		"labels": labels,
		"values": means,
		"counts": counts,
	})
}

func (s *Server) handleAPIChartResiduals(w http.ResponseWriter, r *http.Request) {
	rep, err := s.analytics.ModelReport(r.Context())
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	if rep.Evaluation == nil {
		s.writeJSON(w, r, http.StatusOK, map[string]any{"label": "Residual", "points": []any{}, "note": rep.EvalError})
		return
	}

	points := make([]map[string]float64, len(rep.Evaluation.Residuals))
	for i, res := range rep.Evaluation.Residuals {
		points[i] = map[string]float64{"x": res.Predicted, "y": res.Delta()}
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"label":  "Residual",
		"points": points,
	})
}

func (s *Server) handleAPIChartImportances(w http.ResponseWriter, r *http.Request) {
	rep, err := s.analytics.ModelReport(r.Context())
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	labels := make([]string, len(rep.Importances))
	values := make([]float64, len(rep.Importances))
	for i, imp := range rep.Importances {
		labels[i] = imp.Feature
		values[i] = imp.Value
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"label":  "Importance",
		"labels": labels,
		"values": values,
	})
}

type predictionResponse struct {
	ID             string            `json:"id"`
	PredictedPrice float64           `json:"predicted_price"`
	Features       map[string]string `json:"features"`
	CreatedAt      time.Time         `json:"created_at"`
}

func toPredictionResponse(p *domain.Prediction) predictionResponse {
	return predictionResponse{
		ID:             p.ID,
		PredictedPrice: p.PredictedPrice,
		Features:       p.Features,
		CreatedAt:      p.CreatedAt,
	}
}

func (s *Server) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req predictionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeJSONError(w, r, fmt.Errorf("%w: %v", errBadQuery, err))
		return
	}

	in, err := req.input()
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	pred, err := s.analytics.Predict(ctx, in)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	s.telemetry.RecordPrediction(ctx, pred.PredictedPrice)
	s.writeJSON(w, r, http.StatusOK, toPredictionResponse(pred))
}

func (s *Server) handleAPIPredictions(w http.ResponseWriter, r *http.Request) {
	limit := historyLimit(r.URL.Query(), s.historyLimit)
	preds, err := s.analytics.History(r.Context(), limit)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	out := make([]predictionResponse, len(preds))
	for i, p := range preds {
		out[i] = toPredictionResponse(p)
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"predictions": out})
}

// recentPredictions is best effort: history errors never block a page.
func (s *Server) recentPredictions(r *http.Request) []*domain.Prediction {
	preds, err := s.analytics.History(r.Context(), s.historyLimit)
	if err != nil {
		s.logger.Warn("failed to load prediction history", "error", err)
		return nil
	}
	return preds
}
