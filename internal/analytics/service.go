// Package analytics computes the content of every dashboard page from the
// training artifacts. Each call resolves, checks and loads the artifacts it
// needs afresh.
package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/emiliopalmerini/pricepaid/internal/artifact"
	"github.com/emiliopalmerini/pricepaid/internal/dataset"
	"github.com/emiliopalmerini/pricepaid/internal/domain"
	"github.com/emiliopalmerini/pricepaid/internal/hypothesis"
	"github.com/emiliopalmerini/pricepaid/internal/pipeline"
	"github.com/emiliopalmerini/pricepaid/internal/ports"
)

// Service provides the page computations shared by the web dashboard and CLI.
type Service struct {
	layout  artifact.Layout
	eval    pipeline.EvalOptions
	history ports.PredictionRepository
	logger  *slog.Logger
}

// NewService creates a Service. history may be nil, in which case
// predictions are not recorded.
func NewService(layout artifact.Layout, eval pipeline.EvalOptions, history ports.PredictionRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		layout:  layout,
		eval:    eval,
		history: history,
		logger:  logger,
	}
}

// Layout returns the artifact locations the service reads.
func (s *Service) Layout() artifact.Layout {
	return s.layout
}

func (s *Service) loadDataset() ([]domain.Record, error) {
	path, err := s.layout.Require(artifact.Dataset)
	if err != nil {
		return nil, err
	}
	records, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("dataset loaded", "path", path, "rows", len(records))
	return records, nil
}

func (s *Service) loadPipeline() (*pipeline.Pipeline, error) {
	path, err := s.layout.Require(artifact.Pipeline)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.Load(path)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("pipeline loaded", "path", path, "features", p.Width())
	return p, nil
}

// loadMetrics returns the metrics file content, or the user-facing message
// when the file is absent.
func (s *Service) loadMetrics() (domain.Metrics, string, error) {
	path, err := s.layout.Require(artifact.Metrics)
	if me, ok := artifact.IsMissing(err); ok {
		return domain.Metrics{}, me.Message(), nil
	}
	if err != nil {
		return domain.Metrics{}, "", err
	}
	m, err := pipeline.LoadMetrics(path)
	if err != nil {
		return domain.Metrics{}, "", err
	}
	return m, "", nil
}

// Overview gathers the headline figures of the summary page. Neither
// artifact is required.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var ov Overview

	m, missing, err := s.loadMetrics()
	if err != nil {
		return Overview{}, err
	}
	ov.Metrics = m
	ov.MetricsMissing = missing

	records, err := s.loadDataset()
	if me, ok := artifact.IsMissing(err); ok {
		ov.DatasetMissing = me.Message()
		return ov, nil
	}
	if err != nil {
		return Overview{}, err
	}

	opts := dataset.BuildOptions(records)
	g := &Glimpse{
		Rows:        len(records),
		MedianPrice: dataset.Describe(dataset.Prices(records)).Median,
		Counties:    len(opts.Counties),
	}
	if n := len(opts.Years); n > 0 {
		g.FirstYear = opts.Years[0]
		g.LastYear = opts.Years[n-1]
	}
	ov.Glimpse = g
	return ov, nil
}

// Explore filters the dataset and computes the EDA page. A nil selection
// means the default one: every year and the first counties.
func (s *Service) Explore(ctx context.Context, sel *dataset.Selection) (Exploration, error) {
	records, err := s.loadDataset()
	if err != nil {
		return Exploration{}, err
	}

	opts := dataset.BuildOptions(records)
	selection := dataset.DefaultSelection(opts)
	if sel != nil {
		selection = *sel
	}
	return explore(records, opts, selection), nil
}

// ExplorePartial is Explore for a selection naming only some dimensions: a
// dimension left empty keeps every value in the dataset.
func (s *Service) ExplorePartial(ctx context.Context, sel dataset.Selection) (Exploration, error) {
	records, err := s.loadDataset()
	if err != nil {
		return Exploration{}, err
	}

	opts := dataset.BuildOptions(records)
	if len(sel.Years) == 0 {
		sel.Years = append([]int(nil), opts.Years...)
	}
	if len(sel.Counties) == 0 {
		sel.Counties = append([]string(nil), opts.Counties...)
	}
	return explore(records, opts, sel), nil
}

func explore(records []domain.Record, opts dataset.Options, selection dataset.Selection) Exploration {
	filtered := dataset.Filter(records, selection)
	prices := dataset.Prices(filtered)

	exp := Exploration{
		Options:     opts,
		Selection:   selection,
		TotalRows:   len(records),
		Rows:        len(filtered),
		Price:       dataset.Describe(prices),
		Histogram:   dataset.Histogram(prices, HistogramBins),
		ByYear:      dataset.MeanPriceBy(filtered, dataset.ByYear),
		ByType:      dataset.MeanPriceBy(filtered, dataset.ByPropertyType),
		Correlation: dataset.CorrelationMatrix(filtered, dataset.NumericColumns(filtered)),
	}
	exp.Sample = filtered[:min(SampleRows, len(filtered))]
	return exp
}

// Hypotheses runs the new-versus-old t-test and the property type ANOVA.
// A failing ANOVA is reported on the page; a failing t-test is an error.
func (s *Service) Hypotheses(ctx context.Context) (HypothesisReport, error) {
	records, err := s.loadDataset()
	if err != nil {
		return HypothesisReport{}, err
	}

	newPrices, oldPrices := hypothesis.SplitNewOld(records)
	tt, err := hypothesis.WelchTTest(newPrices, oldPrices)
	if err != nil {
		return HypothesisReport{}, fmt.Errorf("failed to compare new and old houses: %w", err)
	}

	rep := HypothesisReport{
		TTest:         tt,
		TTestVerdict:  hypothesis.Decide(tt.P),
		Alpha:         hypothesis.Alpha,
		NewCount:      len(newPrices),
		OldCount:      len(oldPrices),
		ExcludedCount: len(records) - len(newPrices) - len(oldPrices),
	}
	rep.TTestMessage = hypothesis.NewVsOldMessage(rep.TTestVerdict)

	anova, err := hypothesis.PriceByPropertyType(records)
	if err != nil {
		rep.ANOVAError = err.Error()
	} else {
		rep.ANOVA = &anova
		rep.ANOVAVerdict = hypothesis.Decide(anova.P)
		rep.ANOVAMessage = hypothesis.PropertyTypeMessage(rep.ANOVAVerdict)
	}

	s.logger.Debug("hypothesis tests run",
		"t", tt.T, "p", tt.P, "verdict", rep.TTestVerdict.String())
	return rep, nil
}

// ModelReport evaluates the pipeline. The pipeline is required; without the
// metrics file the values show as unavailable, and without the dataset no
// train/test figures are computed.
func (s *Service) ModelReport(ctx context.Context) (ModelReport, error) {
	if _, err := s.layout.Require(artifact.Pipeline); err != nil {
		return ModelReport{}, err
	}

	var (
		p              *pipeline.Pipeline
		metrics        domain.Metrics
		metricsMissing string
		records        []domain.Record
		datasetErr     error
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = s.loadPipeline()
		return err
	})
	g.Go(func() error {
		var err error
		metrics, metricsMissing, err = s.loadMetrics()
		return err
	})
	g.Go(func() error {
		records, datasetErr = s.loadDataset()
		return nil
	})
	if err := g.Wait(); err != nil {
		return ModelReport{}, err
	}

	rep := ModelReport{
		Metrics:        metrics,
		MetricsMissing: metricsMissing,
		Importances:    p.TopImportances(TopFeatures),
		Inputs:         p.InputColumns(),
	}

	if me, ok := artifact.IsMissing(datasetErr); ok {
		rep.EvalError = me.Message()
		return rep, nil
	}
	if datasetErr != nil {
		return ModelReport{}, datasetErr
	}

	eval, err := pipeline.Evaluate(p, records, s.eval)
	if err != nil {
		rep.EvalError = err.Error()
		return rep, nil
	}
	if eval.Skipped > 0 {
		s.logger.Warn("pipeline skipped rows during evaluation", "skipped", eval.Skipped)
	}
	rep.Evaluation = &eval
	return rep, nil
}
