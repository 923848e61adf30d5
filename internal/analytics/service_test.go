package analytics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/emiliopalmerini/pricepaid/internal/artifact"
	"github.com/emiliopalmerini/pricepaid/internal/dataset"
	"github.com/emiliopalmerini/pricepaid/internal/hypothesis"
	"github.com/emiliopalmerini/pricepaid/internal/pipeline"
	"github.com/emiliopalmerini/pricepaid/internal/ports"
	"github.com/emiliopalmerini/pricepaid/internal/testutil"
)

func testService(t *testing.T, a testutil.Artifacts, history ports.PredictionRepository) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(testutil.Layout(t, a), pipeline.DefaultEvalOptions, history, logger)
}

func assertMissing(t *testing.T, err error, kind artifact.Kind) {
	t.Helper()
	me, ok := artifact.IsMissing(err)
	if !ok {
		t.Fatalf("expected missing %s error, got %v", kind, err)
	}
	if me.Kind != kind {
		t.Errorf("expected missing %s, got %s", kind, me.Kind)
	}
}

func TestOverview(t *testing.T) {
	s := testService(t, testutil.All, nil)

	ov, err := s.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if ov.Metrics.MAE == nil || *ov.Metrics.MAE != 25000.5 {
		t.Errorf("expected MAE from metrics file, got %v", ov.Metrics.MAE)
	}
	if ov.MetricsMissing != "" || ov.DatasetMissing != "" {
		t.Errorf("unexpected missing messages %q %q", ov.MetricsMissing, ov.DatasetMissing)
	}
	if ov.Glimpse == nil {
		t.Fatal("expected dataset glimpse")
	}
	if ov.Glimpse.Rows != 8 || ov.Glimpse.Counties != 3 {
		t.Errorf("unexpected glimpse %+v", ov.Glimpse)
	}
	if ov.Glimpse.FirstYear != 2021 || ov.Glimpse.LastYear != 2023 {
		t.Errorf("unexpected year span %d-%d", ov.Glimpse.FirstYear, ov.Glimpse.LastYear)
	}
}

func TestOverview_NoArtifacts(t *testing.T) {
	s := testService(t, testutil.Artifacts{}, nil)

	ov, err := s.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview should not fail without artifacts: %v", err)
	}
	if ov.MetricsMissing == "" || ov.DatasetMissing == "" {
		t.Error("expected missing messages for both artifacts")
	}
	if ov.Glimpse != nil {
		t.Error("expected no glimpse without a dataset")
	}
	if !ov.Metrics.IsEmpty() {
		t.Error("expected empty metrics")
	}
}

func TestExplore_DefaultSelection(t *testing.T) {
	s := testService(t, testutil.Artifacts{Dataset: true}, nil)

	exp, err := s.Explore(context.Background(), nil)
	if err != nil {
		t.Fatalf("Explore failed: %v", err)
	}
	if exp.TotalRows != 8 || exp.Rows != 8 {
		t.Errorf("expected all 8 rows selected, got %d of %d", exp.Rows, exp.TotalRows)
	}
	if len(exp.Selection.Years) != 3 || len(exp.Selection.Counties) != 3 {
		t.Errorf("unexpected default selection %+v", exp.Selection)
	}
	if len(exp.Histogram) != HistogramBins {
		t.Errorf("expected %d bins, got %d", HistogramBins, len(exp.Histogram))
	}
	if len(exp.ByYear) != 3 {
		t.Errorf("expected 3 year groups, got %d", len(exp.ByYear))
	}
	if len(exp.Sample) != 8 {
		t.Errorf("expected 8 sample rows, got %d", len(exp.Sample))
	}
	if len(exp.Correlation.Columns) == 0 || exp.Correlation.Columns[0] != "Price" {
		t.Errorf("expected Price first in correlation columns, got %v", exp.Correlation.Columns)
	}
}

func TestExplore_Selection(t *testing.T) {
	s := testService(t, testutil.Artifacts{Dataset: true}, nil)

	tests := []struct {
		name string
		sel  dataset.Selection
		want int
	}{
		{"one year one county", dataset.Selection{Years: []int{2023}, Counties: []string{"WEST YORKSHIRE"}}, 2},
		{"two counties", dataset.Selection{Years: []int{2021, 2022, 2023}, Counties: []string{"GREATER LONDON", "CITY OF BRISTOL"}}, 5},
		{"no counties", dataset.Selection{Years: []int{2021}}, 0},
		{"nothing", dataset.Selection{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := tt.sel
			exp, err := s.Explore(context.Background(), &sel)
			if err != nil {
				t.Fatalf("Explore failed: %v", err)
			}
			if exp.Rows != tt.want {
				t.Errorf("expected %d rows, got %d", tt.want, exp.Rows)
			}
			for _, r := range exp.Sample {
				if !containsInt(tt.sel.Years, r.Year) || !containsString(tt.sel.Counties, r.County) {
					t.Errorf("row %+v is outside the selection", r)
				}
			}
		})
	}
}

func TestExplorePartial(t *testing.T) {
	s := testService(t, testutil.Artifacts{Dataset: true}, nil)

	tests := []struct {
		name         string
		sel          dataset.Selection
		want         int
		wantYears    int
		wantCounties int
	}{
		{"year only keeps every county", dataset.Selection{Years: []int{2023}}, 4, 1, 3},
		{"county only keeps every year", dataset.Selection{Counties: []string{"GREATER LONDON"}}, 3, 3, 1},
		{"both given", dataset.Selection{Years: []int{2023}, Counties: []string{"WEST YORKSHIRE"}}, 2, 1, 1},
		{"year outside the data", dataset.Selection{Years: []int{2020}}, 0, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := s.ExplorePartial(context.Background(), tt.sel)
			if err != nil {
				t.Fatalf("ExplorePartial failed: %v", err)
			}
			if exp.Rows != tt.want {
				t.Errorf("expected %d rows, got %d", tt.want, exp.Rows)
			}
			if len(exp.Selection.Years) != tt.wantYears || len(exp.Selection.Counties) != tt.wantCounties {
				t.Errorf("unexpected selection %+v", exp.Selection)
			}
		})
	}
}

func TestExplore_MissingDataset(t *testing.T) {
	s := testService(t, testutil.Artifacts{Pipeline: true}, nil)

	_, err := s.Explore(context.Background(), nil)
	assertMissing(t, err, artifact.Dataset)
}

func TestHypotheses(t *testing.T) {
	s := testService(t, testutil.Artifacts{Dataset: true}, nil)

	rep, err := s.Hypotheses(context.Background())
	if err != nil {
		t.Fatalf("Hypotheses failed: %v", err)
	}
	if rep.NewCount != 4 || rep.OldCount != 4 || rep.ExcludedCount != 0 {
		t.Errorf("unexpected group sizes new=%d old=%d excluded=%d", rep.NewCount, rep.OldCount, rep.ExcludedCount)
	}
	if rep.TTest.MeanA <= rep.TTest.MeanB {
		t.Errorf("expected new builds to be more expensive, got %v vs %v", rep.TTest.MeanA, rep.TTest.MeanB)
	}
	if rep.TTestVerdict != hypothesis.Reject {
		t.Errorf("expected reject at p=%v", rep.TTest.P)
	}
	if rep.TTestMessage != hypothesis.NewVsOldMessage(hypothesis.Reject) {
		t.Errorf("unexpected message %q", rep.TTestMessage)
	}
	if rep.ANOVA == nil {
		t.Fatalf("expected ANOVA result, got error %q", rep.ANOVAError)
	}
	if len(rep.ANOVA.Groups) != 4 {
		t.Errorf("expected 4 property types, got %v", rep.ANOVA.Groups)
	}
}

func TestHypotheses_UnknownFlagExcluded(t *testing.T) {
	s := testService(t, testutil.Artifacts{}, nil)
	testutil.WriteFile(t, s.Layout().Path(artifact.Dataset),
		testutil.DatasetCSV+"999999,2023-05-01,D,,F,LONDON,CAMDEN,GREATER LONDON,A,2023,5\n")

	rep, err := s.Hypotheses(context.Background())
	if err != nil {
		t.Fatalf("Hypotheses failed: %v", err)
	}
	if rep.NewCount != 4 || rep.OldCount != 4 || rep.ExcludedCount != 1 {
		t.Errorf("unexpected group sizes new=%d old=%d excluded=%d", rep.NewCount, rep.OldCount, rep.ExcludedCount)
	}
	// Same test as without the unflagged row.
	if math.Abs(rep.TTest.P-0.0028) > 1e-4 {
		t.Errorf("expected p around 0.0028, got %v", rep.TTest.P)
	}
}

func TestHypotheses_InsufficientData(t *testing.T) {
	s := testService(t, testutil.Artifacts{}, nil)
	testutil.WriteFile(t, s.Layout().Path(artifact.Dataset),
		"Price,Date of Transfer,Property Type,Old/New,County\n"+
			"100000,2021-01-01,D,1,KENT\n"+
			"200000,2021-02-01,D,0,KENT\n"+
			"300000,2021-03-01,T,0,KENT\n")

	_, err := s.Hypotheses(context.Background())
	if !errors.Is(err, hypothesis.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestHypotheses_MissingDataset(t *testing.T) {
	s := testService(t, testutil.Artifacts{}, nil)

	_, err := s.Hypotheses(context.Background())
	assertMissing(t, err, artifact.Dataset)
}

func TestModelReport(t *testing.T) {
	s := testService(t, testutil.All, nil)

	rep, err := s.ModelReport(context.Background())
	if err != nil {
		t.Fatalf("ModelReport failed: %v", err)
	}
	if rep.Metrics.R2 == nil || *rep.Metrics.R2 != 0.81 {
		t.Errorf("expected R2 from metrics file, got %v", rep.Metrics.R2)
	}
	if rep.Evaluation == nil {
		t.Fatalf("expected evaluation, got %q", rep.EvalError)
	}
	if rep.Evaluation.Test.Count != 2 || rep.Evaluation.Train.Count != 6 {
		t.Errorf("unexpected split sizes train=%d test=%d", rep.Evaluation.Train.Count, rep.Evaluation.Test.Count)
	}
	if len(rep.Evaluation.Residuals) != 2 {
		t.Errorf("expected 2 residuals, got %d", len(rep.Evaluation.Residuals))
	}
	if len(rep.Importances) != 4 {
		t.Errorf("expected 4 importances, got %d", len(rep.Importances))
	}
	if rep.Importances[0].Feature != "Property Type_D" {
		t.Errorf("expected Property Type_D to dominate, got %s", rep.Importances[0].Feature)
	}
}

func TestModelReport_MissingPipeline(t *testing.T) {
	s := testService(t, testutil.Artifacts{Dataset: true, Metrics: true}, nil)

	_, err := s.ModelReport(context.Background())
	assertMissing(t, err, artifact.Pipeline)
}

func TestModelReport_OptionalArtifacts(t *testing.T) {
	s := testService(t, testutil.Artifacts{Pipeline: true}, nil)

	rep, err := s.ModelReport(context.Background())
	if err != nil {
		t.Fatalf("ModelReport failed: %v", err)
	}
	if rep.MetricsMissing == "" {
		t.Error("expected metrics missing message")
	}
	if rep.Evaluation != nil || rep.EvalError == "" {
		t.Error("expected no evaluation without a dataset")
	}
	if len(rep.Importances) == 0 {
		t.Error("importances should not need the dataset")
	}
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
