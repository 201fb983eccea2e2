package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/metrics"
)

const rule = "--------------------------------------------------"

// WriteText renders the console report. n may be nil for a gross-only
// view.
func WriteText(w io.Writer, title string, s *metrics.Summary, n *cost.NetSummary) error {
	var b strings.Builder

	fmt.Fprintln(&b, "==================================================")
	fmt.Fprintf(&b, " %s\n", title)
	fmt.Fprintln(&b, "==================================================")

	for _, l := range summaryLines(s, n) {
		fmt.Fprintf(&b, "%-18s %s\n", l.label+":", l.value)
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Yearly Breakdown")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "%-8s %7s %7s %12s %12s\n", "Year", "Trades", "Win %", "Gross", "Net")
	for _, y := range s.Years() {
		bk := s.Yearly[y]
		fmt.Fprintf(&b, "%-8d %7d %7s %12s %12s\n",
			y, bk.Trades, pct(bk.WinRate()), Whole(bk.GrossPnl), yearNet(n, y))
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Monthly Breakdown")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "%-8s %7s %7s %12s %12s\n", "Month", "Trades", "Win %", "Gross", "Net")
	for _, m := range s.Months() {
		bk := s.Monthly[m]
		fmt.Fprintf(&b, "%-8s %7d %7s %12s %12s\n",
			m, bk.Trades, pct(bk.WinRate()), Whole(bk.GrossPnl), monthNet(n, m))
	}

	buckets := s.DTEBuckets()
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, matrixTitle(n))
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "%-6s", "Year")
	for _, bk := range buckets {
		fmt.Fprintf(&b, " %10s", "DTE "+bk)
	}
	fmt.Fprintln(&b)
	for _, y := range s.Years() {
		fmt.Fprintf(&b, "%-6s", strconv.Itoa(y))
		for _, bk := range buckets {
			fmt.Fprintf(&b, " %10s", dteCell(s, n, y, bk))
		}
		fmt.Fprintln(&b)
	}
	fmt.Fprintln(&b)

	_, err := io.WriteString(w, b.String())
	return err
}
