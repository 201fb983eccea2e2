package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradestats/journal"
	"github.com/rustyeddy/tradestats/report"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Query stored metric runs",
	Long: `List and display metric runs recorded with "metrics --record".

Subcommands:
  list - List recent runs, newest first
  show - Show one run in full

Examples:
  tradestats runs list --limit 10
  tradestats runs show 01HQ3V7Y9K8M2N4P6R8T0V2X4Z --format org`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var (
	runsDBPath string
	runsLimit  int
	runsFormat string
)

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)

	runsCmd.PersistentFlags().StringVarP(&runsDBPath, "db", "d", "", "SQLite journal (default from config)")
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum runs to list (0 = all)")
	runsShowCmd.Flags().StringVarP(&runsFormat, "format", "f", "text", "output format (text, markdown, org, json)")
}

func runRunsList(cmd *cobra.Command, args []string) error {
	j, err := openJournal(runsDBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tCREATED\tDATASET\tMODE\tVIX\tTRADES\tWIN %\tNET P&L\tMAX DD")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%.1f\t%s\t%s\n",
			r.RunID, r.Created.Local().Format(time.DateTime), r.Dataset, r.Mode, r.VIX.String(),
			r.Trades, r.WinRate, report.Money(r.NetPnl), report.Money(r.MaxDrawdown))
	}
	return tw.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	j, err := openJournal(runsDBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	r, err := j.GetRun(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	w := cmd.OutOrStdout()
	if runsFormat == "org" {
		return journal.WriteRunOrg(w, r)
	}

	snap, err := r.Decode()
	if err != nil {
		return fmt.Errorf("decode run %s: %w", r.RunID, err)
	}
	title := fmt.Sprintf("Run %s: %s %s (VIX %s)", r.RunID, r.Dataset, r.Mode, r.VIX.String())
	if err := render(w, runsFormat, title, snap.Summary, snap.Net); err != nil {
		return err
	}
	if runsFormat == "text" && len(r.Notes) > 0 {
		fmt.Fprintln(w, "Observations")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, note := range r.Notes {
			fmt.Fprintf(w, "- %s\n", note)
		}
	}
	return nil
}
