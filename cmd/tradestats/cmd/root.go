package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradestats/config"
	"github.com/rustyeddy/tradestats/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "tradestats",
	Short: "Performance metrics for closed option trade logs",
	Long: `Tradestats turns a log of closed option trades into a performance report.

It provides tools for:
  - Win rate, profit factor, expectancy, drawdown, Sharpe and Calmar
  - Yearly, monthly and days-to-expiry breakdowns
  - Flat per-trade cost overlays and itemized NSE F&O charges
  - VIX band filtering
  - A SQLite journal of imported trade logs and stored metric runs
  - An HTTP API over the same engine`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var (
	cfgFile  string
	logLevel string
	envFile  string

	cfg    = config.Default()
	logger = zap.NewNop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with TRADESTATS_* overrides")
}

// setup loads configuration and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	c := config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
		c = loaded
	}
	if err := c.ApplyEnv(envFile); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	l, err := logging.New(c.Log)
	if err != nil {
		return err
	}
	cfg, logger = c, l
	return nil
}
