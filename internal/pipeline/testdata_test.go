package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// testPipeline prices a house as 200000 + 10000 per year above 2020,
// +100000 when detached and +50000 when new.
func testPipeline() *Pipeline {
	return &Pipeline{
		Version: 1,
		Target:  "Price",
		Numeric: []NumericFeature{
			{Name: "Year", Mean: 2020, Scale: 1},
			{Name: "Old/New", Mean: 0, Scale: 1},
		},
		Categorical: []CategoricalFeature{
			{Name: "Property Type", Categories: []string{"D", "T"}},
		},
		Estimator: Estimator{
			Type:         "linear",
			Intercept:    200000,
			Coefficients: []float64{10000, 50000, 100000, 0},
		},
	}
}

func writePipeline(t *testing.T, p any) string {
	t.Helper()

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("failed to marshal pipeline: %v", err)
	}
	path := filepath.Join(t.TempDir(), "house_price_pipeline.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write pipeline: %v", err)
	}
	return path
}
