package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/ensureline/internal/config"
	"github.com/aretw0/ensureline/internal/logging"
	"github.com/aretw0/ensureline/pkg/params"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	debug      bool
	catalog    string
	redis      string
	logFormat  string
}

var global globalOptions

var rootCmd = &cobra.Command{
	Use:   "ensureline",
	Short: "Keep a single line of a file or dataset in the desired state",
	Long: `ensureline makes sure a line is present in a file or dataset, replacing the last
line a regular expression matches or inserting it where asked, or makes sure no
line matches, removing every match. Running the same edit twice changes nothing.

Without a subcommand it runs 'apply'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&global.configPath, "config", "", "settings file (default ./"+config.DefaultFile+" when present)")
	pf.BoolVar(&global.debug, "debug", false, "log every step to stderr")
	pf.StringVar(&global.catalog, "catalog", "", "dataset catalog directory (default $ENSURELINE_CATALOG or ~/.ensureline/catalog)")
	pf.StringVar(&global.redis, "redis", "", "Redis address for the distributed lock")
	pf.StringVar(&global.logFormat, "log-format", string(logging.FormatText), "log format: text or json")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &params.ValidationError{Field: "flags", Message: err.Error(), Err: err}
	})
}

// loadSettings reads the configuration, applies the persistent flag overrides and
// builds the logger.
func loadSettings(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(global.configPath)
	if err != nil {
		return cfg, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog = global.catalog
	}
	if flags.Changed("redis") {
		cfg.Redis.Addr = global.redis
	}

	level := cfg.Level()
	if global.debug {
		level = slog.LevelDebug
	}
	logger := logging.NewWithWriter(os.Stderr, logging.Format(global.logFormat), level)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
