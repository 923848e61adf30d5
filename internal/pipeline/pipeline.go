// Package pipeline loads the regression pipeline produced by the training
// process and applies it to dataset rows or user input.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/emiliopalmerini/pricepaid/internal/domain"
)

// ErrMissingFeature is returned when the input lacks a column the pipeline needs.
var ErrMissingFeature = errors.New("missing feature")

// ErrNonFinite is returned when the estimator yields NaN or an infinity.
var ErrNonFinite = errors.New("non-finite prediction")

// NumericFeature is standard-scaled before it reaches the estimator.
type NumericFeature struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

// CategoricalFeature is one-hot encoded. Values outside Categories encode as
// all zeros.
type CategoricalFeature struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Estimator is the linear model applied to the encoded feature vector.
type Estimator struct {
	Type         string    `json:"type"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// Pipeline bundles preprocessing and the estimator.
type Pipeline struct {
	Version            int                  `json:"version"`
	Target             string               `json:"target"`
	LogTarget          bool                 `json:"log_target"`
	Numeric            []NumericFeature     `json:"numeric"`
	Categorical        []CategoricalFeature `json:"categorical"`
	Estimator          Estimator            `json:"estimator"`
	FeatureImportances []float64            `json:"feature_importances,omitempty"`
}

// Load reads and validates a pipeline file.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline: %w", err)
	}

	var p Pipeline
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode pipeline: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline: %w", err)
	}
	return &p, nil
}

// Validate checks that the estimator matches the encoded feature vector.
func (p *Pipeline) Validate() error {
	if p.Estimator.Type != "" && p.Estimator.Type != "linear" {
		return fmt.Errorf("unsupported estimator %q", p.Estimator.Type)
	}
	width := p.Width()
	if width == 0 {
		return errors.New("no features")
	}
	if len(p.Estimator.Coefficients) != width {
		return fmt.Errorf("expected %d coefficients, got %d", width, len(p.Estimator.Coefficients))
	}
	if p.FeatureImportances != nil && len(p.FeatureImportances) != width {
		return fmt.Errorf("expected %d feature importances, got %d", width, len(p.FeatureImportances))
	}
	return nil
}

// Width is the length of the encoded feature vector.
func (p *Pipeline) Width() int {
	n := len(p.Numeric)
	for _, c := range p.Categorical {
		n += len(c.Categories)
	}
	return n
}

// FeatureNames names every slot of the encoded vector. One-hot slots are
// named "<column>_<category>".
func (p *Pipeline) FeatureNames() []string {
	names := make([]string, 0, p.Width())
	for _, n := range p.Numeric {
		names = append(names, n.Name)
	}
	for _, c := range p.Categorical {
		for _, cat := range c.Categories {
			names = append(names, c.Name+"_"+cat)
		}
	}
	return names
}

// InputColumns lists the raw columns the pipeline reads.
func (p *Pipeline) InputColumns() []string {
	cols := make([]string, 0, len(p.Numeric)+len(p.Categorical))
	for _, n := range p.Numeric {
		cols = append(cols, n.Name)
	}
	for _, c := range p.Categorical {
		cols = append(cols, c.Name)
	}
	return cols
}

// Encode turns raw features into the vector the estimator consumes.
func (p *Pipeline) Encode(f domain.Features) ([]float64, error) {
	vec := make([]float64, 0, p.Width())

	for _, n := range p.Numeric {
		raw, ok := f[n.Name]
		if !ok || strings.TrimSpace(raw) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingFeature, n.Name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("feature %s: invalid number %q", n.Name, raw)
		}
		scale := n.Scale
		if scale == 0 {
			scale = 1
		}
		vec = append(vec, (v-n.Mean)/scale)
	}

	for _, c := range p.Categorical {
		raw, ok := f[c.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingFeature, c.Name)
		}
		for _, cat := range c.Categories {
			if raw == cat {
				vec = append(vec, 1)
			} else {
				vec = append(vec, 0)
			}
		}
	}

	return vec, nil
}

// Predict returns the point estimate for one input.
func (p *Pipeline) Predict(f domain.Features) (float64, error) {
	vec, err := p.Encode(f)
	if err != nil {
		return 0, err
	}
	y := p.Estimator.Intercept + floats.Dot(vec, p.Estimator.Coefficients)
	if p.LogTarget {
		y = math.Exp(y)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNonFinite, y)
	}
	return y, nil
}

// LoadMetrics reads the metrics file written alongside the pipeline.
func LoadMetrics(path string) (domain.Metrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("failed to read metrics: %w", err)
	}
	var m domain.Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return domain.Metrics{}, fmt.Errorf("failed to decode metrics: %w", err)
	}
	return m, nil
}
