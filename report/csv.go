package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/metrics"
)

var breakdownHeader = []string{"scope", "key", "trades", "winners", "win_rate", "gross_pnl", "net_pnl"}

// WriteBreakdownCSV writes the total, yearly, monthly and DTE-cell
// aggregates as flat rows. DTE keys are "YEAR/BUCKET". net_pnl is empty
// when n is nil. Amounts are plain numbers without grouping.
func WriteBreakdownCSV(w io.Writer, s *metrics.Summary, n *cost.NetSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(breakdownHeader); err != nil {
		return err
	}

	net := func(gross float64, trades int) string {
		if n == nil {
			return ""
		}
		return num(cost.Model{PerTrade: n.CostPerTrade}.Net(gross, trades))
	}
	row := func(scope, key string, b metrics.Bucket) error {
		return cw.Write([]string{
			scope, key,
			strconv.Itoa(b.Trades),
			strconv.Itoa(b.Winners),
			strconv.FormatFloat(b.WinRate(), 'f', 1, 64),
			num(b.GrossPnl),
			net(b.GrossPnl, b.Trades),
		})
	}

	total := metrics.Bucket{Trades: s.Trades, GrossPnl: s.GrossPnl, Winners: s.Winners}
	if err := row("total", "all", total); err != nil {
		return err
	}
	for _, y := range s.Years() {
		if err := row("year", strconv.Itoa(y), s.Yearly[y]); err != nil {
			return err
		}
	}
	for _, m := range s.Months() {
		if err := row("month", m, s.Monthly[m]); err != nil {
			return err
		}
	}
	// winners are not tracked per DTE cell
	for _, y := range s.Years() {
		for _, bk := range s.DTEBuckets() {
			gross, trades, ok := s.DTECell(y, bk)
			if !ok {
				continue
			}
			err := cw.Write([]string{
				"dte", strconv.Itoa(y) + "/" + bk,
				strconv.Itoa(trades), "", "",
				num(gross), net(gross, trades),
			})
			if err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

var equityHeader = []string{"date", "daily_pnl", "cumulative", "drawdown"}

// WriteEquityCSV writes the daily equity curve.
func WriteEquityCSV(w io.Writer, points []metrics.DailyPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(equityHeader); err != nil {
		return err
	}
	for _, p := range points {
		err := cw.Write([]string{
			p.Date.Format("2006-01-02"),
			num(p.DailyPnl),
			num(p.Cumulative),
			num(p.Drawdown),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
