// Package testutil writes artifact fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/emiliopalmerini/pricepaid/internal/artifact"
)

// DatasetCSV has four new builds that sell well above four established homes.
const DatasetCSV = `Price,Date of Transfer,Property Type,Old/New,Duration,Town/City,District,County,PPD Category Type,Year,Month
250000,2021-03-15,D,0,F,LONDON,CAMDEN,GREATER LONDON,A,2021,3
310000,2021-07-01,S,1,L,LEEDS,LEEDS,WEST YORKSHIRE,A,2021,7
180000,2022-01-20,T,0,F,BRISTOL,BRISTOL,CITY OF BRISTOL,B,2022,1
420000,2022-11-05,D,1,F,LONDON,CAMDEN,GREATER LONDON,A,2022,11
150000,2023-02-14,F,0,L,LEEDS,LEEDS,WEST YORKSHIRE,A,2023,2
395000,2023-06-30,D,1,F,BRISTOL,BRISTOL,CITY OF BRISTOL,A,2023,6
205000,2023-09-12,T,0,F,LONDON,CAMDEN,GREATER LONDON,B,2023,9
330000,2023-12-01,S,1,F,LEEDS,LEEDS,WEST YORKSHIRE,A,2023,12
`

// PipelineJSON prices a house as 200000 + 10000 per year above 2020,
// +50000 when new and +100000 when detached.
const PipelineJSON = `{
  "version": 1,
  "target": "Price",
  "numeric": [
    {"name": "Year", "mean": 2020, "scale": 1},
    {"name": "Old/New", "mean": 0, "scale": 1}
  ],
  "categorical": [
    {"name": "Property Type", "categories": ["D", "T"]}
  ],
  "estimator": {
    "type": "linear",
    "intercept": 200000,
    "coefficients": [10000, 50000, 100000, 0]
  }
}`

// MetricsJSON is a metrics file with every value set.
const MetricsJSON = `{"mae": 25000.5, "rmse": 31000, "r2": 0.81}`

// Artifacts selects which fixtures Layout writes.
type Artifacts struct {
	Dataset  bool
	Pipeline bool
	Metrics  bool
}

// All writes every artifact.
var All = Artifacts{Dataset: true, Pipeline: true, Metrics: true}

// Layout writes the selected fixtures under a temporary base dir using the
// default relative paths and returns the resulting layout.
func Layout(t *testing.T, a Artifacts) artifact.Layout {
	t.Helper()

	base := t.TempDir()
	l := artifact.NewLayout(base,
		filepath.Join("datasets", "collection", "HousePricesRecords_clean.csv"),
		filepath.Join("models", "house_price_pipeline.json"),
		filepath.Join("models", "metrics.json"),
	)

	if a.Dataset {
		WriteFile(t, l.Path(artifact.Dataset), DatasetCSV)
	}
	if a.Pipeline {
		WriteFile(t, l.Path(artifact.Pipeline), PipelineJSON)
	}
	if a.Metrics {
		WriteFile(t, l.Path(artifact.Metrics), MetricsJSON)
	}
	return l
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
