package report

import (
	"math"
	"sort"
)

type rankedMetric struct {
	label string
	value func(Side) float64
	lower bool // smaller magnitude wins
}

var rankedMetrics = []rankedMetric{
	{label: "P&L", value: sidePnl},
	{label: "Win Rate", value: func(sd Side) float64 { return sd.Summary.WinRate }},
	{label: "Profit Factor", value: func(sd Side) float64 { return sd.Summary.ProfitFactor }},
	{label: "Expectancy", value: func(sd Side) float64 { return sd.Summary.Expectancy }},
	{label: "Avg Win", value: func(sd Side) float64 { return sd.Summary.AvgWin }},
	{label: "Sharpe", value: func(sd Side) float64 { return sd.Summary.Sharpe }},
	{label: "Sortino", value: func(sd Side) float64 { return sd.Summary.Sortino }},
	{label: "Calmar", value: func(sd Side) float64 { return sd.Summary.Calmar }},
	{label: "Max Drawdown", value: func(sd Side) float64 { return sd.Summary.MaxDrawdown }, lower: true},
	{label: "Avg Loss", value: func(sd Side) float64 { return sd.Summary.AvgLoss }, lower: true},
	{label: "Max Loss", value: func(sd Side) float64 { return sd.Summary.MaxLoss }, lower: true},
}

// sidePnl is net P&L when the side carries a cost overlay, gross otherwise.
func sidePnl(sd Side) float64 {
	if sd.Net != nil {
		return sd.Net.NetPnl
	}
	return sd.Summary.GrossPnl
}

// Ranking scores comparison sides on every ranked metric: among N ranked
// sides the best earns N points, the next N-1 and so on. Equal values
// earn equal points. Sides without a summary are not ranked.
type Ranking struct {
	Scores []int // per side, in input order
	Ranks  []int // 1 is best, 0 for an unranked side
	Best   int   // index of the top side, -1 when no side is ranked
}

// Rank scores sides. Ties in total score keep input order.
func Rank(sides ...Side) Ranking {
	r := Ranking{
		Scores: make([]int, len(sides)),
		Ranks:  make([]int, len(sides)),
		Best:   -1,
	}

	var ranked []int
	for i, sd := range sides {
		if sd.Summary != nil {
			ranked = append(ranked, i)
		}
	}
	if len(ranked) == 0 {
		return r
	}

	for _, m := range rankedMetrics {
		key := func(i int) float64 {
			v := m.value(sides[i])
			if m.lower {
				return -math.Abs(v)
			}
			return v
		}
		order := append([]int(nil), ranked...)
		sort.SliceStable(order, func(a, b int) bool { return key(order[a]) > key(order[b]) })

		points := len(order)
		for pos, i := range order {
			if pos > 0 && key(i) != key(order[pos-1]) {
				points = len(order) - pos
			}
			r.Scores[i] += points
		}
	}

	order := append([]int(nil), ranked...)
	sort.SliceStable(order, func(a, b int) bool { return r.Scores[order[a]] > r.Scores[order[b]] })
	for pos, i := range order {
		r.Ranks[i] = pos + 1
	}
	r.Best = order[0]
	return r
}
