package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradestats/metrics"
	"github.com/rustyeddy/tradestats/report"
	"github.com/rustyeddy/tradestats/trade"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare execution modes side by side",
	Long: `Compute metrics for several execution modes of the same strategy and
print them next to each other. Each mode is charged its own resolved cost.

Examples:
  tradestats compare -t strat_01_trades.json
  tradestats compare --dataset strat01 --modes hard,close,intrabar`,
	RunE: runCompare,
}

var (
	cmpSource sourceFlags
	cmpModes  []string
	cmpGross  bool
)

func init() {
	rootCmd.AddCommand(compareCmd)

	addSourceFlags(compareCmd, &cmpSource)
	compareCmd.Flags().StringSliceVar(&cmpModes, "modes", []string{"hard", "close"}, "modes to compare")
	compareCmd.Flags().BoolVar(&cmpGross, "gross", false, "skip the cost overlay")
}

func runCompare(cmd *cobra.Command, args []string) error {
	if err := cmpSource.validate(); err != nil {
		return err
	}
	if cmd.Flags().Changed("mode") {
		return fmt.Errorf("compare does not take --mode; list modes with --modes")
	}
	if len(cmpModes) < 2 {
		return fmt.Errorf("--modes needs at least two modes")
	}

	vix := cmpSource.vix(cmd)
	sides := make([]report.Side, 0, len(cmpModes))
	for _, mode := range cmpModes {
		trades, err := cmpSource.load(cmd.Context(), mode)
		if err != nil {
			return fmt.Errorf("load %s: %w", mode, err)
		}

		side := report.Side{Label: mode}
		s, err := metrics.Compute(trade.FilterVIX(trades, vix))
		switch {
		case errors.Is(err, metrics.ErrNoTrades):
			logger.Warn("no trades for mode", zap.String("mode", mode), zap.String("vix", vix.String()))
		case err != nil:
			return fmt.Errorf("%s: %w", mode, err)
		default:
			side.Summary = s
			if !cmpGross {
				_, model := cfg.ResolveCost(mode)
				side.Net = model.Apply(s)
			}
		}
		sides = append(sides, side)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Comparison: %s (VIX %s)\n\n", cmpSource.source(), vix.String())
	return report.WriteComparison(cmd.OutOrStdout(), sides...)
}
