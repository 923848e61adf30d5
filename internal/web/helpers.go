package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/pricepaid/internal/analytics"
	"github.com/emiliopalmerini/pricepaid/internal/artifact"
	"github.com/emiliopalmerini/pricepaid/internal/dataset"
)

var errBadQuery = errors.New("bad query")

// describeError maps a service error to the status and message shown to users.
func (s *Server) describeError(r *http.Request, err error) (int, string) {
	if me, ok := artifact.IsMissing(err); ok {
		s.logger.Warn("artifact missing", "kind", string(me.Kind), "artifact", me.Path, "path", r.URL.Path)
		return http.StatusNotFound, me.Message()
	}
	if errors.Is(err, analytics.ErrInvalidInput) || errors.Is(err, errBadQuery) {
		return http.StatusBadRequest, err.Error()
	}
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	return http.StatusInternalServerError, err.Error()
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		s.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}

// writeJSON answers 500 with an error body when v cannot be encoded.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode response", "path", r.URL.Path, "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Warn("failed to write response", "path", r.URL.Path, "error", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := s.describeError(r, err)
	s.writeJSON(w, r, status, map[string]string{"error": msg})
}

// parseSelection reads the sidebar filters. It returns nil when the request
// carries no filter so the default selection applies. Once the form has been
// submitted (filtered=1) an empty list means nothing is selected; otherwise
// the selection is partial and an omitted dimension keeps every value.
func parseSelection(q url.Values) (sel *dataset.Selection, partial bool, err error) {
	years, counties := q["year"], q["county"]
	submitted := q.Get("filtered") != ""
	if !submitted && len(years) == 0 && len(counties) == 0 {
		return nil, false, nil
	}

	sel = &dataset.Selection{}
	for _, v := range years {
		y, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, false, fmt.Errorf("%w: invalid year %q", errBadQuery, v)
		}
		sel.Years = append(sel.Years, y)
	}
	for _, c := range counties {
		if c = strings.TrimSpace(c); c != "" {
			sel.Counties = append(sel.Counties, c)
		}
	}
	return sel, !submitted, nil
}

// explore runs the EDA for the filters in the request query.
func (s *Server) explore(r *http.Request) (analytics.Exploration, error) {
	sel, partial, err := parseSelection(r.URL.Query())
	if err != nil {
		return analytics.Exploration{}, err
	}
	if partial {
		return s.analytics.ExplorePartial(r.Context(), *sel)
	}
	return s.analytics.Explore(r.Context(), sel)
}

// predictionRequest is the input accepted by the form and the JSON API.
type predictionRequest struct {
	PropertyType string `json:"property_type"`
	OldNew       string `json:"old_new"`
	Duration     string `json:"duration"`
	TownCity     string `json:"town_city"`
	District     string `json:"district"`
	County       string `json:"county"`
	PPDCategory  string `json:"ppd_category"`
	Date         string `json:"date"`
}

func predictionRequestFromForm(r *http.Request) predictionRequest {
	return predictionRequest{
		PropertyType: r.PostFormValue("property_type"),
		OldNew:       r.PostFormValue("old_new"),
		Duration:     r.PostFormValue("duration"),
		TownCity:     r.PostFormValue("town_city"),
		District:     r.PostFormValue("district"),
		County:       r.PostFormValue("county"),
		PPDCategory:  r.PostFormValue("ppd_category"),
		Date:         r.PostFormValue("date"),
	}
}

// input converts the request; an unparsable date is reported alongside the
// partially filled input so the form can be shown again.
func (p predictionRequest) input() (analytics.PredictionInput, error) {
	in := analytics.PredictionInput{
		PropertyType: p.PropertyType,
		OldNew:       p.OldNew,
		Duration:     p.Duration,
		TownCity:     p.TownCity,
		District:     p.District,
		County:       p.County,
		PPDCategory:  p.PPDCategory,
	}
	date, err := analytics.ParseDate(p.Date)
	in.Date = date
	return in, err
}

func historyLimit(q url.Values, fallback int) int {
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return min(n, 100)
		}
	}
	return fallback
}
