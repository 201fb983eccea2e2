package metrics

import (
	"sort"
	"strconv"

	"github.com/rustyeddy/tradestats/trade"
)

// Trades with more than MaxDTEBucket days to expiry share OverflowBucket.
const (
	MaxDTEBucket   = 6
	OverflowBucket = "7+"
)

// DTEBucket returns the DTE matrix column for dte.
func DTEBucket(dte int) string {
	if dte > MaxDTEBucket {
		return OverflowBucket
	}
	return strconv.Itoa(dte)
}

func breakdowns(trades []trade.Record) (map[int]Bucket, map[string]Bucket, map[int]map[string]float64, map[int]map[string]int) {
	yearly := make(map[int]Bucket)
	monthly := make(map[string]Bucket)
	matrix := make(map[int]map[string]float64)
	counts := make(map[int]map[string]int)

	for _, t := range trades {
		y := t.Year()
		yearly[y] = yearly[y].add(t.GrossPnl)

		m := t.Month()
		monthly[m] = monthly[m].add(t.GrossPnl)

		if matrix[y] == nil {
			matrix[y] = make(map[string]float64)
			counts[y] = make(map[string]int)
		}
		b := DTEBucket(t.DTE)
		matrix[y][b] += t.GrossPnl
		counts[y][b]++
	}
	return yearly, monthly, matrix, counts
}

func (b Bucket) add(pnl float64) Bucket {
	b.Trades++
	b.GrossPnl += pnl
	if pnl > 0 {
		b.Winners++
	}
	return b
}

// Years returns the years present in the breakdown, ascending.
func (s *Summary) Years() []int {
	out := make([]int, 0, len(s.Yearly))
	for y := range s.Yearly {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Months returns the "YYYY-MM" keys present in the breakdown, ascending.
func (s *Summary) Months() []string {
	out := make([]string, 0, len(s.Monthly))
	for m := range s.Monthly {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// DTEBuckets returns every bucket label used in any year, in numeric
// order with the overflow bucket last.
func (s *Summary) DTEBuckets() []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range s.DTECounts {
		for b := range row {
			if !seen[b] {
				seen[b] = true
				out = append(out, b)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return bucketOrder(out[i]) < bucketOrder(out[j])
	})
	return out
}

func bucketOrder(label string) int {
	if label == OverflowBucket {
		return MaxDTEBucket + 1
	}
	n, err := strconv.Atoi(label)
	if err != nil {
		return MaxDTEBucket + 2
	}
	return n
}

// DTECell looks up one matrix cell. ok is false when no trade fell in it,
// which callers render as a placeholder rather than a zero.
func (s *Summary) DTECell(year int, bucket string) (pnl float64, trades int, ok bool) {
	trades, ok = s.DTECounts[year][bucket]
	if !ok {
		return 0, 0, false
	}
	return s.DTEMatrix[year][bucket], trades, true
}
