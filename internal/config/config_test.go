package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/emiliopalmerini/pricepaid/internal/artifact"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	cfg, err := Load(newViper())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Artifacts.BaseDir != "outputs" {
		t.Errorf("expected base dir outputs, got %q", cfg.Artifacts.BaseDir)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Evaluation.TestSize != 0.2 || cfg.Evaluation.Seed != 42 {
		t.Errorf("unexpected evaluation defaults %+v", cfg.Evaluation)
	}
	if cfg.Database.URL != "file:/tmp/xdg-data/pricepaid/pricepaid.db" {
		t.Errorf("unexpected database url %q", cfg.Database.URL)
	}
	if cfg.OTel.Enabled {
		t.Error("expected OTEL disabled by default")
	}
}

func TestLayout_SingleBaseDir(t *testing.T) {
	cfg, err := Load(newViper())
	if err != nil {
		t.Fatal(err)
	}

	l := cfg.Layout()
	for _, k := range []artifact.Kind{artifact.Dataset, artifact.Pipeline, artifact.Metrics} {
		if !strings.HasPrefix(l.Path(k), "outputs"+string(filepath.Separator)) {
			t.Errorf("%s path %q is not under the base dir", k, l.Path(k))
		}
	}
	if l.Path(artifact.Dataset) != filepath.Join("outputs", "datasets", "collection", "HousePricesRecords_clean.csv") {
		t.Errorf("unexpected dataset path %q", l.Path(artifact.Dataset))
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PRICEPAID_ARTIFACTS_BASE_DIR", "/srv/house-prices")
	t.Setenv("PRICEPAID_SERVER_PORT", "9090")
	t.Setenv("PRICEPAID_DATABASE_URL", "file:/tmp/history.db")

	cfg, err := Load(newViper())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Artifacts.BaseDir != "/srv/house-prices" {
		t.Errorf("expected env base dir, got %q", cfg.Artifacts.BaseDir)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.URL != "file:/tmp/history.db" {
		t.Errorf("unexpected database url %q", cfg.Database.URL)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
artifacts:
  base_dir: /data/outputs
  pipeline: /models/pipeline.json
evaluation:
  test_size: 0.25
  seed: 7
log:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig failed: %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Layout().Path(artifact.Pipeline) != "/models/pipeline.json" {
		t.Errorf("expected absolute pipeline path to be kept, got %q", cfg.Layout().Path(artifact.Pipeline))
	}
	if cfg.EvalOptions().TestSize != 0.25 || cfg.EvalOptions().Seed != 7 {
		t.Errorf("unexpected eval options %+v", cfg.EvalOptions())
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected json log format, got %q", cfg.Log.Format)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(c *Config)
	}{
		{"empty base dir", func(c *Config) { c.Artifacts.BaseDir = "" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"test size zero", func(c *Config) { c.Evaluation.TestSize = 0 }},
		{"test size one", func(c *Config) { c.Evaluation.TestSize = 1 }},
		{"negative history", func(c *Config) { c.Prediction.HistoryLimit = -1 }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(newViper())
			if err != nil {
				t.Fatal(err)
			}
			tt.mod(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
