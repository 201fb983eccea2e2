package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/report"
	"github.com/rustyeddy/tradestats/trade"
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Show the per-trade cost and itemized charges",
	Long: `Print the flat per-trade cost resolved from the config for a mode, and
optionally an itemized NSE F&O charge breakdown for one round trip.

Examples:
  tradestats cost -m hard
  tradestats cost --detail --date 2024-11-14 --action SELL --entry 120 --exit 80 --qty 75 --legs 2`,
	Args: cobra.NoArgs,
	RunE: runCost,
}

var (
	costMode   string
	costDetail bool
	costDate   string
	costAction string
	costEntry  float64
	costExit   float64
	costQty    int
	costLegs   int
	costNoTax  bool
)

func init() {
	rootCmd.AddCommand(costCmd)

	costCmd.Flags().StringVarP(&costMode, "mode", "m", "", "mode whose cost settings to resolve")
	costCmd.Flags().BoolVar(&costDetail, "detail", false, "itemize charges for one round trip")
	costCmd.Flags().StringVar(&costDate, "date", "", "trade date for the tax schedule (YYYY-MM-DD)")
	costCmd.Flags().StringVar(&costAction, "action", "SELL", "entry side (BUY or SELL)")
	costCmd.Flags().Float64Var(&costEntry, "entry", 0, "entry premium per unit")
	costCmd.Flags().Float64Var(&costExit, "exit", 0, "exit premium per unit")
	costCmd.Flags().IntVar(&costQty, "qty", 0, "quantity per leg (default resolved from config)")
	costCmd.Flags().IntVar(&costLegs, "legs", 1, "number of legs")
	costCmd.Flags().BoolVar(&costNoTax, "no-tax", false, "skip statutory charges")
}

func runCost(cmd *cobra.Command, args []string) error {
	in, model := cfg.ResolveCost(costMode)
	w := cmd.OutOrStdout()

	mode := costMode
	if mode == "" {
		mode = "(global)"
	}
	fmt.Fprintf(w, "Mode:               %s\n", mode)
	fmt.Fprintf(w, "Slippage:           %.2f pts x %d\n", in.SlippagePts, in.Quantity)
	fmt.Fprintf(w, "Brokerage/Order:    %s\n", report.Money(in.BrokeragePerOrder))
	fmt.Fprintf(w, "Flat Tax:           %s\n", report.Money(in.FlatTax))
	fmt.Fprintf(w, "Derived/Trade:      %s\n", report.Money(in.PerTrade()))
	fmt.Fprintf(w, "Cost/Trade:         %s\n", report.Money(model.PerTrade))

	if !costDetail {
		return nil
	}

	date, err := trade.ParseDate(costDate)
	if err != nil {
		return fmt.Errorf("--date: %w", err)
	}
	qty := costQty
	if qty == 0 {
		qty = in.Quantity
	}

	calc := cost.NewCalculator(in.SlippagePts, in.BrokeragePerOrder)
	calc.UseTaxes = !costNoTax
	b, err := calc.Calculate(cost.Order{
		Date:         date,
		Action:       costAction,
		EntryPremium: costEntry,
		ExitPremium:  costExit,
		Quantity:     qty,
		Legs:         costLegs,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Round Trip Charges")
	fmt.Fprintln(w, "--------------------------------------------------")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, row := range []struct {
		label string
		v     float64
	}{
		{"Slippage", b.Slippage},
		{"Brokerage", b.Brokerage},
		{"STT", b.STT},
		{"Exchange", b.ExchangeCharges},
		{"SEBI Fee", b.SEBIFee},
		{"GST", b.GST},
		{"Stamp Duty", b.StampDuty},
		{"Total", b.Total()},
	} {
		fmt.Fprintf(tw, "%s\t%s\t\n", row.label, report.Money(row.v))
	}
	return tw.Flush()
}
