// Package report renders metric summaries for people: console text,
// Markdown, Org-mode, CSV breakdowns and side-by-side comparisons.
//
// Amounts are rupees and use Indian digit grouping (12,34,567.50).
package report

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/metrics"
)

// Absent marks a breakdown cell no trade fell into.
const Absent = "—"

var inr = message.NewPrinter(language.MustParse("en-IN"))

// Money formats v with two decimals.
func Money(v float64) string {
	return inr.Sprint(number.Decimal(v, number.Scale(2)))
}

// Whole formats v rounded to rupees.
func Whole(v float64) string {
	return inr.Sprint(number.Decimal(v, number.Scale(0)))
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func ratio(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

type line struct {
	label string
	value string
}

// summaryLines is the headline metric list shared by every format.
func summaryLines(s *metrics.Summary, n *cost.NetSummary) []line {
	ls := []line{
		{"Trades", strconv.Itoa(s.Trades)},
		{"Trading Days", strconv.Itoa(s.TradingDays)},
		{"Winners", strconv.Itoa(s.Winners)},
		{"Losers", strconv.Itoa(s.Losers)},
		{"Break-even", strconv.Itoa(s.BreakEven())},
		{"Win Rate", pct(s.WinRate)},
		{"Gross P&L", Money(s.GrossPnl)},
		{"Gross Profit", Money(s.GrossProfit)},
		{"Gross Loss", Money(s.GrossLoss)},
	}
	if n != nil {
		ls = append(ls,
			line{"Cost/Trade", Money(n.CostPerTrade)},
			line{"Total Cost", Money(n.TotalCost)},
			line{"Net P&L", Money(n.NetPnl)},
		)
	}
	return append(ls,
		line{"Max Drawdown", Money(s.MaxDrawdown)},
		line{"Profit Factor", ratio(s.ProfitFactor)},
		line{"Payoff Ratio", ratio(s.PayoffRatio)},
		line{"Expectancy", Whole(s.Expectancy)},
		line{"Avg Win", Whole(s.AvgWin)},
		line{"Avg Loss", Whole(s.AvgLoss)},
		line{"Max Win", Money(s.MaxWin)},
		line{"Max Loss", Money(s.MaxLoss)},
		line{"Sharpe", ratio(s.Sharpe)},
		line{"Sortino", ratio(s.Sortino)},
		line{"Calmar", ratio(s.Calmar)},
		line{"Max Consec Wins", strconv.Itoa(s.MaxConsecWins)},
		line{"Max Consec Losses", strconv.Itoa(s.MaxConsecLosses)},
		line{"Long Trades", strconv.Itoa(s.LongTrades)},
		line{"Long P&L", Money(s.LongPnl)},
		line{"Short Trades", strconv.Itoa(s.ShortTrades)},
		line{"Short P&L", Money(s.ShortPnl)},
	)
}

// netOr returns the net figure when a cost overlay is present.
func netOr(n *cost.NetSummary, pick func(*cost.NetSummary) (float64, bool)) string {
	if n == nil {
		return Absent
	}
	v, ok := pick(n)
	if !ok {
		return Absent
	}
	return Whole(v)
}

func yearNet(n *cost.NetSummary, y int) string {
	return netOr(n, func(n *cost.NetSummary) (float64, bool) {
		v, ok := n.Yearly[y]
		return v, ok
	})
}

func monthNet(n *cost.NetSummary, m string) string {
	return netOr(n, func(n *cost.NetSummary) (float64, bool) {
		v, ok := n.Monthly[m]
		return v, ok
	})
}

// dteCell renders one matrix cell, net when n is present.
func dteCell(s *metrics.Summary, n *cost.NetSummary, year int, bucket string) string {
	gross, _, ok := s.DTECell(year, bucket)
	if !ok {
		return Absent
	}
	if n != nil {
		if v, ok := n.DTEMatrix[year][bucket]; ok {
			return Whole(v)
		}
	}
	return Whole(gross)
}

func matrixTitle(n *cost.NetSummary) string {
	if n != nil {
		return fmt.Sprintf("DTE Matrix (net, cost %s/trade)", Money(n.CostPerTrade))
	}
	return "DTE Matrix (gross)"
}
