package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradestats/metrics"
	"github.com/rustyeddy/tradestats/report"
	"github.com/rustyeddy/tradestats/trade"
)

var equityCmd = &cobra.Command{
	Use:   "equity",
	Short: "Write the daily equity curve as CSV",
	Long: `Fold trades into one row per trading day with cumulative gross P&L and
drawdown from the running peak.

Example:
  tradestats equity -t strat_01_trades.json -m hard -o hard_equity.csv`,
	RunE: runEquity,
}

var (
	eqSource  sourceFlags
	eqOutPath string
)

func init() {
	rootCmd.AddCommand(equityCmd)

	addSourceFlags(equityCmd, &eqSource)
	equityCmd.Flags().StringVarP(&eqOutPath, "output", "o", "", "output CSV (default stdout)")
}

func runEquity(cmd *cobra.Command, args []string) (err error) {
	if err := eqSource.validate(); err != nil {
		return err
	}

	trades, err := eqSource.load(cmd.Context(), eqSource.mode)
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}

	w, closeOut, err := output(cmd, eqOutPath)
	if err != nil {
		return err
	}
	defer closeWith(closeOut, &err)

	points := metrics.DailyEquity(trade.FilterVIX(trades, eqSource.vix(cmd)))
	return report.WriteEquityCSV(w, points)
}
