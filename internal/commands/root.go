// Package commands implements the statement-flagger command line.
package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-flagger/internal/config"
	"github.com/insightdelivered/statement-flagger/internal/logger"
)

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "statement-flagger",
		Short: "Flag statement transactions that may indicate unreported income or assets",
		Long: `Scans text extracted from bank statements for transaction lines and flags
those over an amount threshold or mentioning review keywords such as
"pension" or "unknown account". Results are written as CSV.`,
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (built-in defaults if omitted)")

	root.AddCommand(
		newScanCommand(&configPath),
		newServeCommand(&configPath, version),
		newConfigCommand(&configPath),
	)
	return root
}

// loadConfig layers defaults, the optional YAML file, .env and the
// environment, in that order.
func loadConfig(path string) (*config.Config, error) {
	config.LoadDotEnv()

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := config.FromEnv(cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.WithLevel(logger.New(), cfg.Log.Level)
}
