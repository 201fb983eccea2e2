package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradestats/journal"
	"github.com/rustyeddy/tradestats/trade"
)

// sourceFlags select where a command reads trades from: a trade log file
// or a dataset imported into the SQLite journal.
type sourceFlags struct {
	trades  string
	mode    string
	db      string
	dataset string
	vixMin  float64
	vixMax  float64
}

func addSourceFlags(c *cobra.Command, f *sourceFlags) {
	c.Flags().StringVarP(&f.trades, "trades", "t", "", "trade log (.json, .csv, optionally .xz)")
	c.Flags().StringVarP(&f.mode, "mode", "m", "", "execution mode inside the log or dataset (hard, close, ...)")
	c.Flags().StringVarP(&f.db, "db", "d", "", "SQLite journal (default from config)")
	c.Flags().StringVar(&f.dataset, "dataset", "", "read the named dataset from the journal instead of --trades")
	c.Flags().Float64Var(&f.vixMin, "vix-min", 0, "keep trades with VIX >= this (0 = unbounded, default from config)")
	c.Flags().Float64Var(&f.vixMax, "vix-max", 0, "keep trades with VIX <= this (0 = unbounded, default from config)")
}

// validate checks the source selection. With neither flag set, a config
// with journal.type: csv reads its trades_file.
func (f *sourceFlags) validate() error {
	if f.trades == "" && f.dataset == "" && cfg.Journal.Type == "csv" {
		f.trades = cfg.Journal.TradesFile
	}
	if (f.trades == "") == (f.dataset == "") {
		return fmt.Errorf("exactly one of --trades or --dataset is required")
	}
	return nil
}

// vix merges the filter flags over the configured band.
func (f *sourceFlags) vix(c *cobra.Command) trade.VIXRange {
	r := cfg.Filter
	if c.Flags().Changed("vix-min") {
		r.Min = f.vixMin
	}
	if c.Flags().Changed("vix-max") {
		r.Max = f.vixMax
	}
	return r
}

// source names the trades for reports and stored runs.
func (f *sourceFlags) source() string {
	if f.trades != "" {
		return f.trades
	}
	return "journal:" + f.dataset
}

func (f *sourceFlags) datasetName() string {
	if f.dataset != "" {
		return f.dataset
	}
	return cfg.Journal.Dataset
}

func (f *sourceFlags) load(ctx context.Context, mode string) ([]trade.Record, error) {
	var (
		trades []trade.Record
		err    error
	)
	if f.trades != "" {
		trades, err = journal.OpenTradeLog(f.trades, mode)
	} else {
		trades, err = f.loadDataset(ctx, mode)
	}
	if err != nil {
		return nil, err
	}

	if !trade.IsChronological(trades) {
		logger.Warn("trades are not in date order; sorting by date",
			zap.String("source", f.source()), zap.String("mode", mode))
		trades = trade.SortChronological(trades)
	}
	logger.Debug("loaded trades",
		zap.String("source", f.source()), zap.String("mode", mode), zap.Int("trades", len(trades)))
	return trades, nil
}

func (f *sourceFlags) loadDataset(ctx context.Context, mode string) ([]trade.Record, error) {
	j, err := openJournal(f.db)
	if err != nil {
		return nil, err
	}
	defer j.Close()

	if mode == "" {
		mode = j.Mode
	}
	return j.ListTrades(ctx, f.dataset, mode)
}

// openJournal opens the SQLite journal at path, or the configured one.
func openJournal(path string) (*journal.SQLite, error) {
	if path == "" {
		path = cfg.Journal.DBPath
	}
	if path == "" {
		return nil, fmt.Errorf("no journal: set --db or journal.db_path")
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}
