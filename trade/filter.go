package trade

import (
	"fmt"
	"sort"
)

// VIXRange is an inclusive VIX band. A zero bound is unbounded.
type VIXRange struct {
	Min float64 `json:"vix_min" yaml:"vix_min"`
	Max float64 `json:"vix_max" yaml:"vix_max"`
}

// Active reports whether either bound is set.
func (r VIXRange) Active() bool {
	return r.Min > 0 || r.Max > 0
}

// String renders the band as "lo..hi" with "-" for an open bound, or
// "all" when inactive.
func (r VIXRange) String() string {
	if !r.Active() {
		return "all"
	}
	lo, hi := "-", "-"
	if r.Min > 0 {
		lo = fmt.Sprintf("%.1f", r.Min)
	}
	if r.Max > 0 {
		hi = fmt.Sprintf("%.1f", r.Max)
	}
	return lo + ".." + hi
}

// Contains reports whether v lies inside the band.
func (r VIXRange) Contains(v float64) bool {
	if r.Min > 0 && v < r.Min {
		return false
	}
	if r.Max > 0 && v > r.Max {
		return false
	}
	return true
}

// FilterVIX returns the trades whose VIX lies within r, in input order.
// When r is inactive every trade is kept. When r is active, trades
// without a VIX reading are dropped. The input slice is never modified.
func FilterVIX(trades []Record, r VIXRange) []Record {
	out := make([]Record, 0, len(trades))
	for _, t := range trades {
		if r.Active() {
			if t.VIX == nil || !r.Contains(*t.VIX) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// IsChronological reports whether trades are in non-decreasing date order.
func IsChronological(trades []Record) bool {
	for i := 1; i < len(trades); i++ {
		if trades[i].Date.Before(trades[i-1].Date) {
			return false
		}
	}
	return true
}

// SortChronological returns a copy of trades ordered by date. The sort is
// stable so trades closed on the same day keep their original order.
func SortChronological(trades []Record) []Record {
	out := make([]Record, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
