package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/metrics"
)

// WriteOrg renders the report as an Org-mode subtree. Headline metrics go
// in the PROPERTIES drawer with upper-cased keys.
func WriteOrg(w io.Writer, title string, s *metrics.Summary, n *cost.NetSummary) error {
	var b strings.Builder

	fmt.Fprintf(&b, "* %s\n", title)
	b.WriteString(":PROPERTIES:\n")
	for _, l := range summaryLines(s, n) {
		fmt.Fprintf(&b, ":%s: %s\n", orgKey(l.label), l.value)
	}
	b.WriteString(":END:\n")

	b.WriteString("\n** Yearly\n")
	b.WriteString("| Year | Trades | Win % | Gross | Net |\n|-\n")
	for _, y := range s.Years() {
		bk := s.Yearly[y]
		fmt.Fprintf(&b, "| %d | %d | %s | %s | %s |\n",
			y, bk.Trades, pct(bk.WinRate()), Whole(bk.GrossPnl), yearNet(n, y))
	}

	b.WriteString("\n** Monthly\n")
	b.WriteString("| Month | Trades | Win % | Gross | Net |\n|-\n")
	for _, m := range s.Months() {
		bk := s.Monthly[m]
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
			m, bk.Trades, pct(bk.WinRate()), Whole(bk.GrossPnl), monthNet(n, m))
	}

	buckets := s.DTEBuckets()
	fmt.Fprintf(&b, "\n** %s\n", matrixTitle(n))
	b.WriteString("| Year |")
	for _, bk := range buckets {
		fmt.Fprintf(&b, " DTE %s |", bk)
	}
	b.WriteString("\n|-\n")
	for _, y := range s.Years() {
		fmt.Fprintf(&b, "| %d |", y)
		for _, bk := range buckets {
			fmt.Fprintf(&b, " %s |", dteCell(s, n, y, bk))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// orgKey turns "Gross P&L" into "GROSS_PNL".
func orgKey(label string) string {
	r := strings.NewReplacer("P&L", "PNL", " ", "_", "/", "_PER_", "-", "_")
	return strings.ToUpper(r.Replace(label))
}
