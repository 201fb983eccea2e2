package metrics

import (
	"fmt"
	"math"
	"strings"

	"github.com/rustyeddy/tradestats/trade"
)

// Compute derives a Summary from trades, which must already be filtered
// and in chronological order (by date, then by closing order within a
// day). Compute does not sort.
//
// A trade wins when GrossPnl > 0 and loses when GrossPnl < 0. Break-even
// trades count toward Trades and the win-rate denominator only, but they
// do break a win streak and extend a loss streak.
//
// The long/short split follows the entry Action: BUY is long, SELL is
// short, anything else is counted in neither.
func Compute(trades []trade.Record) (*Summary, error) {
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}
	for i, t := range trades {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%w: trade %d: %w", ErrMalformedRecord, i, err)
		}
	}

	s := &Summary{Trades: len(trades)}

	var sumWin, sumLoss, cumulative, peak float64
	var curWins, curLoss int
	var daily []float64
	dayIndex := make(map[string]int)
	s.Equity = make([]EquityPoint, 0, len(trades))

	for i, t := range trades {
		pnl := t.GrossPnl
		s.GrossPnl += pnl

		switch strings.ToUpper(t.Action) {
		case "BUY":
			s.LongTrades++
			s.LongPnl += pnl
		case "SELL":
			s.ShortTrades++
			s.ShortPnl += pnl
		}

		switch {
		case pnl > 0:
			s.Winners++
			sumWin += pnl
			if pnl > s.MaxWin {
				s.MaxWin = pnl
			}
		case pnl < 0:
			s.Losers++
			sumLoss += pnl
			if pnl < s.MaxLoss {
				s.MaxLoss = pnl
			}
		}

		if pnl > 0 {
			curWins++
			curLoss = 0
		} else {
			curLoss++
			curWins = 0
		}
		s.MaxConsecWins = max(s.MaxConsecWins, curWins)
		s.MaxConsecLosses = max(s.MaxConsecLosses, curLoss)

		// gross equity walk, peak starts flat at zero
		cumulative += pnl
		peak = math.Max(peak, cumulative)
		dd := peak - cumulative
		s.MaxDrawdown = math.Max(s.MaxDrawdown, dd)
		s.Equity = append(s.Equity, EquityPoint{
			Index:      i,
			Date:       t.Date,
			Cumulative: cumulative,
			Peak:       peak,
			Drawdown:   dd,
		})

		key := t.Day()
		if idx, ok := dayIndex[key]; ok {
			daily[idx] += pnl
		} else {
			dayIndex[key] = len(daily)
			daily = append(daily, pnl)
		}
	}

	s.TradingDays = len(daily)
	s.GrossProfit = sumWin
	s.GrossLoss = math.Abs(sumLoss)
	s.WinRate = round1(float64(s.Winners) / float64(s.Trades) * 100)

	if s.Winners > 0 {
		s.AvgWin = math.Round(sumWin / float64(s.Winners))
	}
	if s.Losers > 0 {
		s.AvgLoss = math.Round(sumLoss / float64(s.Losers))
	}

	s.ProfitFactor = RatioCap
	if s.Losers > 0 {
		s.ProfitFactor = sumWin / math.Abs(sumLoss)
	}
	s.PayoffRatio = RatioCap
	if s.AvgLoss != 0 {
		s.PayoffRatio = math.Abs(s.AvgWin) / math.Abs(s.AvgLoss)
	}

	wr := s.WinRate / 100
	s.Expectancy = math.Round(wr*s.AvgWin - (1-wr)*math.Abs(s.AvgLoss))

	s.Sharpe = sharpe(daily)
	s.Sortino = sortino(daily)
	if s.MaxDrawdown > 0 {
		s.Calmar = (s.GrossPnl * TradingDaysPerYear / float64(s.TradingDays)) / s.MaxDrawdown
	}

	s.Yearly, s.Monthly, s.DTEMatrix, s.DTECounts = breakdowns(trades)
	return s, nil
}

// sharpe annualizes the mean over the population standard deviation of
// daily P&L. Zero deviation, up to float noise, yields 0.
func sharpe(daily []float64) float64 {
	m := mean(daily)
	sd := pstddev(daily, m)
	if sd <= 1e-9*math.Max(1, math.Abs(m)) {
		return 0
	}
	return m / sd * math.Sqrt(TradingDaysPerYear)
}

// sortino is sharpe with the deviation taken over losing days only. No
// losing days, or the same loss on every losing day, yields 0.
func sortino(daily []float64) float64 {
	var down []float64
	for _, d := range daily {
		if d < 0 {
			down = append(down, d)
		}
	}
	if len(down) == 0 {
		return 0
	}
	m := mean(daily)
	dm := mean(down)
	sd := pstddev(down, dm)
	if sd <= 1e-9*math.Max(1, math.Abs(dm)) {
		return 0
	}
	return m / sd * math.Sqrt(TradingDaysPerYear)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// pstddev divides by N, not N-1.
func pstddev(xs []float64, m float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
