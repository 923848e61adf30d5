// Package config resolves pricepaid settings from flags, environment,
// config file and defaults.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/emiliopalmerini/pricepaid/internal/adapters/otel"
	"github.com/emiliopalmerini/pricepaid/internal/artifact"
	"github.com/emiliopalmerini/pricepaid/internal/pipeline"
	"github.com/emiliopalmerini/pricepaid/internal/util"
)

// EnvPrefix is prepended to every environment variable, e.g.
// PRICEPAID_ARTIFACTS_BASE_DIR.
const EnvPrefix = "PRICEPAID"

// Artifacts locates the files written by the training process.
type Artifacts struct {
	BaseDir  string `mapstructure:"base_dir"`
	Dataset  string `mapstructure:"dataset"`
	Pipeline string `mapstructure:"pipeline"`
	Metrics  string `mapstructure:"metrics"`
}

// Server holds web dashboard settings.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the prediction history store connection.
type Database struct {
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// Evaluation controls the train/test split of the model page.
type Evaluation struct {
	TestSize float64 `mapstructure:"test_size"`
	Seed     uint64  `mapstructure:"seed"`
}

// Prediction holds prediction page settings.
type Prediction struct {
	HistoryLimit int `mapstructure:"history_limit"`
}

// Log configures the process logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// OTel configures metric export.
type OTel struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

type Config struct {
	Artifacts  Artifacts  `mapstructure:"artifacts"`
	Server     Server     `mapstructure:"server"`
	Database   Database   `mapstructure:"database"`
	Evaluation Evaluation `mapstructure:"evaluation"`
	Prediction Prediction `mapstructure:"prediction"`
	Log        Log        `mapstructure:"log"`
	OTel       OTel       `mapstructure:"otel"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("artifacts.base_dir", "outputs")
	v.SetDefault("artifacts.dataset", filepath.Join("datasets", "collection", "HousePricesRecords_clean.csv"))
	v.SetDefault("artifacts.pipeline", filepath.Join("models", "house_price_pipeline.json"))
	v.SetDefault("artifacts.metrics", filepath.Join("models", "metrics.json"))

	v.SetDefault("server.port", 8080)

	v.SetDefault("database.url", "")
	v.SetDefault("database.auth_token", "")

	v.SetDefault("evaluation.test_size", pipeline.DefaultEvalOptions.TestSize)
	v.SetDefault("evaluation.seed", pipeline.DefaultEvalOptions.Seed)

	v.SetDefault("prediction.history_limit", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.color", true)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.insecure", false)
}

// BindEnv makes every key readable from PRICEPAID_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Database.URL == "" {
		dir, err := util.GetXDGDataDir()
		if err != nil {
			return nil, err
		}
		cfg.Database.URL = "file:" + filepath.Join(dir, "pricepaid.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no command can work with.
func (c *Config) Validate() error {
	if c.Artifacts.BaseDir == "" {
		return fmt.Errorf("artifacts.base_dir must not be empty")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Evaluation.TestSize <= 0 || c.Evaluation.TestSize >= 1 {
		return fmt.Errorf("evaluation.test_size must be between 0 and 1, got %v", c.Evaluation.TestSize)
	}
	if c.Prediction.HistoryLimit < 0 {
		return fmt.Errorf("prediction.history_limit must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Layout resolves every artifact path against the one configured base dir.
func (c *Config) Layout() artifact.Layout {
	return artifact.NewLayout(c.Artifacts.BaseDir, c.Artifacts.Dataset, c.Artifacts.Pipeline, c.Artifacts.Metrics)
}

// EvalOptions returns the train/test split settings.
func (c *Config) EvalOptions() pipeline.EvalOptions {
	return pipeline.EvalOptions{TestSize: c.Evaluation.TestSize, Seed: c.Evaluation.Seed}
}

// OTelConfig returns the exporter settings.
func (c *Config) OTelConfig() otel.Config {
	return otel.Config{Endpoint: c.OTel.Endpoint, Enabled: c.OTel.Enabled, Insecure: c.OTel.Insecure}
}
