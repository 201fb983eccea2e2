package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradestats/journal"
)

var importCmd = &cobra.Command{
	Use:   "import <trade-log>",
	Short: "Import a trade log into the journal",
	Long: `Load a trade log and store it in the journal under a dataset and mode.
Re-importing the same dataset and mode replaces the stored trades unless
--append is set.

With --csv, or when the config sets journal.type: csv, the trades of one
mode are written to a CSV journal instead.

Examples:
  tradestats import strat_01_trades.json --dataset strat01 -m hard
  tradestats import trades.csv.xz --dataset live --db ./tradestats.db
  tradestats import today.json --dataset live -m close --append
  tradestats import strat_01_trades.json -m hard --csv hard.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	impDB      string
	impDataset string
	impModes   []string
	impCSV     string
	impAppend  bool
)

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&impDB, "db", "d", "", "SQLite journal (default from config)")
	importCmd.Flags().StringVar(&impDataset, "dataset", "", "dataset name (default from config)")
	importCmd.Flags().StringSliceVarP(&impModes, "mode", "m", nil, "mode(s) to import from the log (default: the log's only mode)")
	importCmd.Flags().StringVar(&impCSV, "csv", "", "write to a CSV journal at this path instead of SQLite")
	importCmd.Flags().BoolVar(&impAppend, "append", false, "append to the stored trades instead of replacing them")
}

func runImport(cmd *cobra.Command, args []string) error {
	src := sourceFlags{trades: args[0]}

	csvPath := impCSV
	if csvPath == "" && impDB == "" && cfg.Journal.Type == "csv" {
		csvPath = cfg.Journal.TradesFile
	}
	if csvPath != "" {
		return importCSV(cmd, src, csvPath)
	}

	dataset := impDataset
	if dataset == "" {
		dataset = cfg.Journal.Dataset
	}

	j, err := openJournal(impDB)
	if err != nil {
		return err
	}
	defer j.Close()
	defaultMode := j.Mode

	modes := impModes
	if len(modes) == 0 {
		modes = []string{""}
	}
	for _, mode := range modes {
		trades, err := src.load(cmd.Context(), mode)
		if err != nil {
			return fmt.Errorf("load %s: %w", args[0], err)
		}

		stored := mode
		if stored == "" {
			stored = defaultMode
		}

		verb := "Imported"
		var n int
		if impAppend {
			j.Dataset, j.Mode = dataset, stored
			n, err = journal.RecordAll(j, trades)
			verb = "Appended"
		} else {
			n, err = j.ImportTrades(cmd.Context(), dataset, stored, trades)
		}
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}

		logger.Info("imported trades",
			zap.String("dataset", dataset), zap.String("mode", stored),
			zap.Int("trades", n), zap.Bool("append", impAppend))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %d trades into %s/%s\n", verb, n, dataset, stored)
	}
	return nil
}

// importCSV writes one mode of the log to a CSV journal at path.
func importCSV(cmd *cobra.Command, src sourceFlags, path string) error {
	if len(impModes) > 1 {
		return fmt.Errorf("a CSV journal holds one mode; got %d", len(impModes))
	}
	if impAppend {
		return fmt.Errorf("--append needs the SQLite journal")
	}
	mode := ""
	if len(impModes) == 1 {
		mode = impModes[0]
	}

	trades, err := src.load(cmd.Context(), mode)
	if err != nil {
		return fmt.Errorf("load %s: %w", src.trades, err)
	}

	j, err := journal.NewCSV(path)
	if err != nil {
		return fmt.Errorf("open csv journal: %w", err)
	}
	n, err := journal.RecordAll(j, trades)
	if cerr := j.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logger.Info("wrote csv journal", zap.String("path", path), zap.Int("trades", n))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d trades to %s\n", n, path)
	return nil
}
