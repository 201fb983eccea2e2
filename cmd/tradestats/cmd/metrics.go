package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/journal"
	"github.com/rustyeddy/tradestats/metrics"
	"github.com/rustyeddy/tradestats/report"
	"github.com/rustyeddy/tradestats/trade"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute performance metrics for a trade log",
	Long: `Compute the full performance summary of a closed-trade log.

Trades are read from a file (--trades) or from a dataset imported into the
journal (--dataset). An optional VIX band filters trades first; the cost
per trade comes from --cost-per-trade or from the config, resolved for the
selected mode.

Formats: text, markdown, org, json, csv (breakdown rows)

Examples:
  tradestats metrics -t strat_01_trades.json -m hard
  tradestats metrics -t trades.csv --vix-min 12 --vix-max 18 --cost-per-trade 50
  tradestats metrics --dataset strat01 -m close --format org --record`,
	RunE: runMetrics,
}

var (
	mSource  sourceFlags
	mCost    float64
	mGross   bool
	mFormat  string
	mTitle   string
	mRecord  bool
	mNotes   []string
	mOutPath string
)

func init() {
	rootCmd.AddCommand(metricsCmd)

	addSourceFlags(metricsCmd, &mSource)
	metricsCmd.Flags().Float64Var(&mCost, "cost-per-trade", 0, "flat cost per trade (default resolved from config)")
	metricsCmd.Flags().BoolVar(&mGross, "gross", false, "skip the cost overlay")
	metricsCmd.Flags().StringVarP(&mFormat, "format", "f", "text", "output format (text, markdown, org, json, csv)")
	metricsCmd.Flags().StringVar(&mTitle, "title", "", "report title (default derived from source and mode)")
	metricsCmd.Flags().BoolVar(&mRecord, "record", false, "store the run in the journal")
	metricsCmd.Flags().StringArrayVar(&mNotes, "note", nil, "observation stored with --record (repeatable)")
	metricsCmd.Flags().StringVarP(&mOutPath, "output", "o", "", "write the report to a file instead of stdout")
}

// costModel resolves the cost for mode: the flag wins over the config.
func costModel(c *cobra.Command, flag float64, mode string) (cost.Model, error) {
	m := cost.Model{PerTrade: flag}
	if !c.Flags().Changed("cost-per-trade") {
		_, m = cfg.ResolveCost(mode)
	}
	return m, m.Validate()
}

func runMetrics(cmd *cobra.Command, args []string) (err error) {
	if err := mSource.validate(); err != nil {
		return err
	}

	trades, err := mSource.load(cmd.Context(), mSource.mode)
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}

	vix := mSource.vix(cmd)
	filtered := trade.FilterVIX(trades, vix)
	if vix.Active() {
		logger.Info("applied VIX filter",
			zap.String("band", vix.String()),
			zap.Int("kept", len(filtered)),
			zap.Int("dropped", len(trades)-len(filtered)))
	}

	title := mTitle
	if title == "" {
		title = strings.TrimSpace("Metrics: " + mSource.source() + " " + mSource.mode)
	}

	w, closeOut, err := output(cmd, mOutPath)
	if err != nil {
		return err
	}
	defer closeWith(closeOut, &err)

	s, err := metrics.Compute(filtered)
	if errors.Is(err, metrics.ErrNoTrades) {
		if mFormat == "json" {
			return report.WriteJSON(w, report.Payload{Title: title, Empty: true})
		}
		fmt.Fprintf(w, "%s\nNo trades match (%d loaded, VIX %s).\n", title, len(trades), vix.String())
		return nil
	}
	if err != nil {
		return err
	}

	var n *cost.NetSummary
	if !mGross {
		model, err := costModel(cmd, mCost, mSource.mode)
		if err != nil {
			return err
		}
		n = model.Apply(s)
	}

	if err := render(w, mFormat, title, s, n); err != nil {
		return err
	}

	if mRecord {
		return recordRun(cmd, s, n, vix)
	}
	return nil
}

func render(w io.Writer, format, title string, s *metrics.Summary, n *cost.NetSummary) error {
	switch format {
	case "text":
		return report.WriteText(w, title, s, n)
	case "markdown", "md":
		return report.WriteMarkdown(w, title, s, n)
	case "org":
		return report.WriteOrg(w, title, s, n)
	case "json":
		return report.WriteJSON(w, report.Payload{Title: title, Summary: s, Net: n})
	case "csv":
		return report.WriteBreakdownCSV(w, s, n)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func recordRun(cmd *cobra.Command, s *metrics.Summary, n *cost.NetSummary, vix trade.VIXRange) error {
	if n == nil {
		n = cost.Model{}.Apply(s)
	}

	j, err := openJournal(mSource.db)
	if err != nil {
		return err
	}
	defer j.Close()

	mode := mSource.mode
	if mode == "" {
		mode = j.Mode
	}
	run, err := journal.NewRun(mSource.datasetName(), mode, mSource.source(), vix, s, n)
	if err != nil {
		return err
	}
	run.Notes = mNotes
	if err := j.RecordRun(cmd.Context(), run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	logger.Info("recorded metric run",
		zap.String("run_id", run.RunID),
		zap.String("dataset", run.Dataset),
		zap.String("mode", run.Mode),
		zap.Int("trades", run.Trades))
	fmt.Fprintf(cmd.ErrOrStderr(), "Run ID: %s\n", run.RunID)
	return nil
}
