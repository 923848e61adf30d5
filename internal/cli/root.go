package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/emiliopalmerini/pricepaid/internal/config"
	"github.com/emiliopalmerini/pricepaid/internal/logging"
	"github.com/emiliopalmerini/pricepaid/internal/util"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

// flagKeys maps command line flags onto config keys. Flags a command does
// not define are skipped.
var flagKeys = map[string]string{
	"base-dir":   "artifacts.base_dir",
	"database":   "database.url",
	"log-level":  "log.level",
	"log-format": "log.format",
	"port":       "server.port",
}

var rootCmd = &cobra.Command{
	Use:   "pricepaid",
	Short: "Dashboard and price estimates for UK house sales",
	Long: `pricepaid explores HM Land Registry Price Paid data and the regression model
trained on it.

Every artifact (cleaned dataset, trained pipeline, metrics) is resolved from
one base directory, set with --base-dir, PRICEPAID_ARTIFACTS_BASE_DIR or
artifacts.base_dir in the config file.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/pricepaid/config.yaml)")
	flags.String("base-dir", "", "directory holding the training artifacts")
	flags.String("database", "", "prediction history database URL")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")

	rootCmd.AddCommand(migrateCmd)
}

// initConfig resolves the configuration for the command about to run, in
// order of precedence: flags, PRICEPAID_* environment (a .env file is read
// first), config file, defaults.
func initConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	config.SetDefaults(v)
	config.BindEnv(v)
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if dir, err := util.GetXDGConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(loaded.Log.Level)
	if err != nil {
		return err
	}
	logger = logging.New(logging.Options{
		Writer: cmd.ErrOrStderr(),
		Level:  level,
		JSON:   loaded.Log.Format == "json",
		Color:  loaded.Log.Color,
	})
	slog.SetDefault(logger)

	cfg = loaded
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "file", used)
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}
