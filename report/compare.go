package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/metrics"
)

// Side is one column of a comparison, typically one execution mode.
type Side struct {
	Label   string
	Summary *metrics.Summary
	Net     *cost.NetSummary
}

// WriteComparison prints the headline metrics of each side next to each
// other, the score and rank of each side (see Rank), and the yearly net
// (or gross) P&L per side. A side with a nil Summary had no trades and is
// shown as absent.
func WriteComparison(w io.Writer, sides ...Side) error {
	if len(sides) < 2 {
		return errors.New("comparison needs at least two sides")
	}

	var (
		b      strings.Builder
		labels []string
		values = make([]map[string]string, len(sides))
		years  = map[int]bool{}
	)
	for i, sd := range sides {
		values[i] = map[string]string{}
		if sd.Summary == nil {
			continue
		}
		ls := summaryLines(sd.Summary, sd.Net)
		if len(ls) > len(labels) {
			labels = labels[:0]
			for _, l := range ls {
				labels = append(labels, l.label)
			}
		}
		for _, l := range ls {
			values[i][l.label] = l.value
		}
		for y := range sd.Summary.Yearly {
			years[y] = true
		}
	}

	fmt.Fprintf(&b, "%-18s", "Metric")
	for _, sd := range sides {
		fmt.Fprintf(&b, " %14s", sd.Label)
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 18+15*len(sides)))
	b.WriteString("\n")
	for _, label := range labels {
		fmt.Fprintf(&b, "%-18s", label)
		for i := range sides {
			v, ok := values[i][label]
			if !ok {
				v = Absent
			}
			fmt.Fprintf(&b, " %14s", v)
		}
		b.WriteString("\n")
	}

	rk := Rank(sides...)
	b.WriteString(strings.Repeat("-", 18+15*len(sides)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-18s", "Score")
	for i := range sides {
		fmt.Fprintf(&b, " %14s", rankCell(rk, i, rk.Scores[i]))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-18s", "Rank")
	for i := range sides {
		fmt.Fprintf(&b, " %14s", rankCell(rk, i, rk.Ranks[i]))
	}
	b.WriteString("\n")
	if rk.Best >= 0 {
		fmt.Fprintf(&b, "Best Overall: %s\n", sides[rk.Best].Label)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%-18s", "Year P&L")
	for _, sd := range sides {
		fmt.Fprintf(&b, " %14s", sd.Label)
	}
	b.WriteString("\n")
	for _, y := range sortedYears(years) {
		fmt.Fprintf(&b, "%-18d", y)
		for _, sd := range sides {
			fmt.Fprintf(&b, " %14s", yearPnl(sd, y))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func rankCell(rk Ranking, i, v int) string {
	if rk.Ranks[i] == 0 {
		return Absent
	}
	return strconv.Itoa(v)
}

func yearPnl(sd Side, y int) string {
	if sd.Summary == nil {
		return Absent
	}
	bk, ok := sd.Summary.Yearly[y]
	if !ok {
		return Absent
	}
	if sd.Net != nil {
		return Whole(sd.Net.Yearly[y])
	}
	return Whole(bk.GrossPnl)
}

func sortedYears(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for y := range set {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}
