package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/tradestats/trade"
)

// DailyPoint is one day of the gross equity curve.
type DailyPoint struct {
	Date       time.Time `json:"date"`
	DailyPnl   float64   `json:"daily_pnl"`
	Cumulative float64   `json:"cumulative"`
	Drawdown   float64   `json:"drawdown"`
}

// DailyEquity folds trades into one point per trading day, ascending by
// date. Unlike Compute it does not depend on input order. Drawdown is
// measured from a running peak that starts at zero.
func DailyEquity(trades []trade.Record) []DailyPoint {
	byDay := make(map[string]*DailyPoint)
	for _, t := range trades {
		key := t.Day()
		p, ok := byDay[key]
		if !ok {
			p = &DailyPoint{Date: t.Date}
			byDay[key] = p
		}
		p.DailyPnl += t.GrossPnl
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]DailyPoint, 0, len(keys))
	var cumulative, peak float64
	for _, k := range keys {
		p := *byDay[k]
		cumulative += p.DailyPnl
		peak = math.Max(peak, cumulative)
		p.Cumulative = cumulative
		p.Drawdown = peak - cumulative
		out = append(out, p)
	}
	return out
}
