package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradestats/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query imported trade data",
	Long: `Query and display trades imported into the SQLite journal.

Subcommands:
  datasets - List imported datasets and modes
  trades   - Print a dataset's trades as Org-mode entries or CSV

Examples:
  tradestats journal datasets
  tradestats journal trades strat01 -m hard
  tradestats journal trades strat01 -m hard -f csv > hard.csv`,
}

var journalDatasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List imported datasets",
	Args:  cobra.NoArgs,
	RunE:  runJournalDatasets,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades <dataset>",
	Short: "Print a dataset's trades as Org-mode entries or CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrades,
}

var (
	journalDBPath string
	journalMode   string
	journalFormat string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalDatasetsCmd)
	journalCmd.AddCommand(journalTradesCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "SQLite journal (default from config)")
	journalTradesCmd.Flags().StringVarP(&journalMode, "mode", "m", "", "mode (default: the journal default mode)")
	journalTradesCmd.Flags().StringVarP(&journalFormat, "format", "f", "org", "output format (org, csv)")
}

func runJournalDatasets(cmd *cobra.Command, args []string) error {
	j, err := openJournal(journalDBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	ds, err := j.ListDatasets(cmd.Context())
	if err != nil {
		return fmt.Errorf("list datasets: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATASET\tMODE\tTRADES\tFIRST\tLAST")
	for _, d := range ds {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", d.Name, d.Mode, d.Trades, d.First, d.Last)
	}
	return tw.Flush()
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	if journalFormat != "org" && journalFormat != "csv" {
		return fmt.Errorf("unknown format %q (org, csv)", journalFormat)
	}

	j, err := openJournal(journalDBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	mode := journalMode
	if mode == "" {
		mode = j.Mode
	}
	recs, err := j.ListTrades(cmd.Context(), args[0], mode)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	if journalFormat == "org" {
		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
		return nil
	}

	cw, err := journal.NewCSVWriter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if _, err := journal.RecordAll(cw, recs); err != nil {
		return err
	}
	return cw.Close()
}
