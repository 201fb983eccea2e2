package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/metrics"
)

// WriteMarkdown renders the report as GitHub-flavoured Markdown tables.
func WriteMarkdown(w io.Writer, title string, s *metrics.Summary, n *cost.NetSummary) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	for _, l := range summaryLines(s, n) {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", l.label, l.value))
	}
	sb.WriteString("\n")

	sb.WriteString("## Yearly\n\n")
	sb.WriteString("| Year | Trades | Win % | Gross | Net |\n")
	sb.WriteString("|------|--------|-------|-------|-----|\n")
	for _, y := range s.Years() {
		b := s.Yearly[y]
		sb.WriteString(fmt.Sprintf("| %d | %d | %s | %s | %s |\n",
			y, b.Trades, pct(b.WinRate()), Whole(b.GrossPnl), yearNet(n, y)))
	}
	sb.WriteString("\n")

	sb.WriteString("## Monthly\n\n")
	sb.WriteString("| Month | Trades | Win % | Gross | Net |\n")
	sb.WriteString("|-------|--------|-------|-------|-----|\n")
	for _, m := range s.Months() {
		b := s.Monthly[m]
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s |\n",
			m, b.Trades, pct(b.WinRate()), Whole(b.GrossPnl), monthNet(n, m)))
	}
	sb.WriteString("\n")

	buckets := s.DTEBuckets()
	sb.WriteString(fmt.Sprintf("## %s\n\n", matrixTitle(n)))
	sb.WriteString("| Year |")
	for _, b := range buckets {
		sb.WriteString(fmt.Sprintf(" DTE %s |", b))
	}
	sb.WriteString("\n|------|")
	for range buckets {
		sb.WriteString("------|")
	}
	sb.WriteString("\n")
	for _, y := range s.Years() {
		sb.WriteString(fmt.Sprintf("| %d |", y))
		for _, b := range buckets {
			sb.WriteString(fmt.Sprintf(" %s |", dteCell(s, n, y, b)))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
