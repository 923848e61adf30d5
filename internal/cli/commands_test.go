package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emiliopalmerini/pricepaid/internal/analytics"
	"github.com/emiliopalmerini/pricepaid/internal/testutil"
)

func detachedNewBuild() analytics.PredictionInput {
	return analytics.PredictionInput{
		PropertyType: "D",
		OldNew:       "1",
		Duration:     "F",
		TownCity:     "LONDON",
		District:     "CAMDEN",
		County:       "GREATER LONDON",
		PPDCategory:  "A",
		Date:         time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

var predictArgs = []string{
	"predict", "--type", "D", "--old-new", "1", "--duration", "F",
	"--town", "LONDON", "--district", "CAMDEN", "--county", "GREATER LONDON",
	"--ppd", "A", "--date", "2023-06-01",
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t, testutil.Artifacts{})

	out, err := env.run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	assertContains(t, out, "pricepaid "+Version)
}

func TestSummary(t *testing.T) {
	env := newTestEnv(t, testutil.All)

	out, err := env.run(t, "summary")
	if err != nil {
		t.Fatalf("summary error = %v", err)
	}
	assertContains(t, out,
		"UK House Price Summary",
		"£25,001",
		"0.810",
		"Sales:             8",
		"Years:             2021-2023",
		"Counties:          3",
		"Median price:      £280,000",
	)
}

func TestSummary_MissingArtifacts(t *testing.T) {
	env := newTestEnv(t, testutil.Artifacts{})

	out, err := env.run(t, "summary")
	if err != nil {
		t.Fatalf("summary without artifacts should not fail, got %v", err)
	}
	assertContains(t, out, "Metrics file not found", "Cleaned dataset not found")
}

func TestExplore(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "default selection",
			args: []string{"explore"},
			want: []string{"Sales:             8 of 8", "Mean price by year", "2021", "2023"},
		},
		{
			name: "one county keeps every year",
			args: []string{"explore", "--county", "WEST YORKSHIRE"},
			want: []string{"Sales:             3 of 8", "Counties:          1 selected"},
		},
		{
			name: "one year keeps every county",
			args: []string{"explore", "--year", "2023"},
			want: []string{"Sales:             4 of 8", "Counties:          3 selected"},
		},
		{
			name: "selection matching nothing",
			args: []string{"explore", "--county", "NOWHERE"},
			want: []string{"No sales match this selection."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, testutil.Artifacts{Dataset: true})

			out, err := env.run(t, tt.args...)
			if err != nil {
				t.Fatalf("explore error = %v", err)
			}
			assertContains(t, out, tt.want...)
		})
	}
}

func TestExplore_MissingDataset(t *testing.T) {
	env := newTestEnv(t, testutil.Artifacts{Pipeline: true})

	_, err := env.run(t, "explore")
	if err == nil {
		t.Fatal("expected an error without the dataset")
	}
	assertContains(t, err.Error(), "Cleaned dataset not found")
}

func TestHypothesis(t *testing.T) {
	env := newTestEnv(t, testutil.Artifacts{Dataset: true})

	out, err := env.run(t, "hypothesis")
	if err != nil {
		t.Fatalf("hypothesis error = %v", err)
	}
	assertContains(t, out,
		"New builds:        4",
		"Established:       4",
		"Reject H0: new houses are significantly more expensive.",
		"one-way ANOVA",
	)
}

func TestHypothesis_ReportsUnknownFlag(t *testing.T) {
	env := newTestEnv(t, testutil.Artifacts{})
	testutil.WriteFile(t, filepath.Join(env.baseDir, "datasets", "collection", "HousePricesRecords_clean.csv"),
		testutil.DatasetCSV+"999999,2023-05-01,D,,F,LONDON,CAMDEN,GREATER LONDON,A,2023,5\n")

	out, err := env.run(t, "hypothesis")
	if err != nil {
		t.Fatalf("hypothesis error = %v", err)
	}
	assertContains(t, out, "New builds:        4", "Established:       4", "Excluded:          1 (unknown Old/New)")
}

func TestEvaluate(t *testing.T) {
	env := newTestEnv(t, testutil.All)

	out, err := env.run(t, "evaluate")
	if err != nil {
		t.Fatalf("evaluate error = %v", err)
	}
	assertContains(t, out, "£31,000", "train", "test", "Property Type_D")
}

func TestEvaluate_Top(t *testing.T) {
	env := newTestEnv(t, testutil.All)

	out, err := env.run(t, "evaluate", "--top", "1")
	if err != nil {
		t.Fatalf("evaluate error = %v", err)
	}
	assertContains(t, out, "Property Type_D")
	assertNotContains(t, out, "Property Type_T")
}

func TestEvaluate_MissingPipeline(t *testing.T) {
	env := newTestEnv(t, testutil.Artifacts{Dataset: true, Metrics: true})

	_, err := env.run(t, "evaluate")
	if err == nil {
		t.Fatal("expected an error without the pipeline")
	}
	assertContains(t, err.Error(), "Pipeline not found")
}

func TestPredictAndHistory(t *testing.T) {
	env := newTestEnv(t, testutil.All)

	out, err := env.run(t, predictArgs...)
	if err != nil {
		t.Fatalf("predict error = %v", err)
	}
	assertContains(t, out, "Estimated price:   £380,000", "GREATER LONDON", "2023-06-01")

	out, err = env.run(t, "history")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	assertContains(t, out, "GREATER LONDON", "£380,000")

	if _, err := env.run(t, "history", "clear"); err == nil {
		t.Error("history clear without --yes should fail")
	}

	out, err = env.run(t, "history", "clear", "--yes")
	if err != nil {
		t.Fatalf("history clear error = %v", err)
	}
	assertContains(t, out, "Deleted 1 predictions")

	out, err = env.run(t, "history")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	assertContains(t, out, "No predictions recorded")
}

func TestPredict_DefaultsFillUnsetFeatures(t *testing.T) {
	env := newTestEnv(t, testutil.All)

	out, err := env.run(t, "predict")
	if err != nil {
		t.Fatalf("predict error = %v", err)
	}
	// Latest sale date, first property type (D) and Old/New value (0).
	assertContains(t, out, "2023-12-01", "Estimated price:   £330,000")
}

func TestPredict_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"date after latest sale", []string{"predict", "--date", "2024-01-01"}},
		{"date before window", []string{"predict", "--date", "2019-01-01"}},
		{"malformed date", []string{"predict", "--date", "01/06/2023"}},
		{"unknown ppd category", []string{"predict", "--ppd", "Z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, testutil.All)

			_, err := env.run(t, tt.args...)
			if !errors.Is(err, analytics.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestPredict_Options(t *testing.T) {
	env := newTestEnv(t, testutil.All)

	out, err := env.run(t, "predict", "--options")
	if err != nil {
		t.Fatalf("predict --options error = %v", err)
	}
	assertContains(t, out, "--county", "GREATER LONDON", "New build", "2020-12-01 to 2023-12-01")
}

func TestMigrate(t *testing.T) {
	env := newTestEnv(t, testutil.Artifacts{})

	out, err := env.run(t, "migrate")
	if err != nil {
		t.Fatalf("migrate error = %v", err)
	}
	assertContains(t, out, "Current version: 0", "Migrated to version 1 (1 migrations applied)")

	out, err = env.run(t, "migrate")
	if err != nil {
		t.Fatalf("second migrate error = %v", err)
	}
	assertContains(t, out, "Already at target version")

	out, err = env.run(t, "migrate", "0")
	if err != nil {
		t.Fatalf("migrate 0 error = %v", err)
	}
	assertContains(t, out, "Migrated to version 0")

	if _, err := env.run(t, "migrate", "99"); err == nil {
		t.Error("migrating past the latest version should fail")
	}
}

func TestConfigSources(t *testing.T) {
	t.Run("environment", func(t *testing.T) {
		env := newTestEnv(t, testutil.Artifacts{Dataset: true})
		t.Setenv("PRICEPAID_ARTIFACTS_BASE_DIR", env.baseDir)

		out, err := executeCommand(t, "--log-level", "error", "summary")
		if err != nil {
			t.Fatalf("summary error = %v", err)
		}
		assertContains(t, out, "Sales:             8")
	})

	t.Run("config file", func(t *testing.T) {
		env := newTestEnv(t, testutil.Artifacts{Dataset: true})
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "artifacts:\n  base_dir: " + env.baseDir + "\nlog:\n  level: error\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		out, err := executeCommand(t, "--config", path, "summary")
		if err != nil {
			t.Fatalf("summary error = %v", err)
		}
		assertContains(t, out, "Sales:             8")
	})

	t.Run("flag beats environment", func(t *testing.T) {
		env := newTestEnv(t, testutil.Artifacts{Dataset: true})
		t.Setenv("PRICEPAID_ARTIFACTS_BASE_DIR", t.TempDir())

		out, err := env.run(t, "summary")
		if err != nil {
			t.Fatalf("summary error = %v", err)
		}
		assertContains(t, out, "Sales:             8")
	})

	t.Run("missing config file", func(t *testing.T) {
		newTestEnv(t, testutil.Artifacts{})

		_, err := executeCommand(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "version")
		if err == nil {
			t.Error("an explicit config file that does not exist should fail")
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		env := newTestEnv(t, testutil.Artifacts{})

		_, err := executeCommand(t, "--base-dir", env.baseDir, "--log-level", "loud", "version")
		if err == nil {
			t.Error("an unknown log level should fail")
		}
	})
}
