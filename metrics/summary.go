// Package metrics computes performance statistics over a closed-trade log.
//
// Compute is pure: it performs no I/O, holds no package state and returns
// a freshly allocated Summary on every call. Any change of inputs (a new
// VIX filter, a new cost model) is handled by calling it again on the
// original trade sequence.
package metrics

import (
	"errors"
	"time"
)

const (
	// TradingDaysPerYear annualizes Sharpe, Sortino and Calmar.
	TradingDaysPerYear = 252

	// RatioCap stands in for profit factor and payoff ratio when the
	// denominator is zero.
	RatioCap = 999.0
)

var (
	// ErrNoTrades is returned for an empty trade sequence. No summary
	// exists in that case; callers must branch on it before rendering.
	ErrNoTrades = errors.New("no trades")

	// ErrMalformedRecord wraps validation failures of individual records.
	ErrMalformedRecord = errors.New("malformed trade record")
)

// Bucket accumulates the trades falling under one breakdown key.
type Bucket struct {
	Trades   int     `json:"trades"`
	GrossPnl float64 `json:"gross_pnl"`
	Winners  int     `json:"winners"`
}

// WinRate is the bucket's winner percentage, 0 for an empty bucket.
func (b Bucket) WinRate() float64 {
	if b.Trades == 0 {
		return 0
	}
	return float64(b.Winners) / float64(b.Trades) * 100
}

// EquityPoint is one step of the per-trade gross equity walk.
type EquityPoint struct {
	Index      int       `json:"index"`
	Date       time.Time `json:"date"`
	Cumulative float64   `json:"cumulative"`
	Peak       float64   `json:"peak"`
	Drawdown   float64   `json:"drawdown"`
}

// Summary is the complete performance snapshot of a trade sequence.
// All monetary fields are gross; see package cost for net figures.
//
// Breakdown maps are sparse: a key is present only when at least one
// trade fell under it.
type Summary struct {
	Trades      int `json:"trades"`
	TradingDays int `json:"trading_days"`
	Winners     int `json:"winners"`
	Losers      int `json:"losers"`

	WinRate      float64 `json:"win_rate"`
	GrossPnl     float64 `json:"gross_pnl"`
	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"` // magnitude, >= 0
	MaxDrawdown  float64 `json:"max_drawdown"`
	ProfitFactor float64 `json:"profit_factor"`
	PayoffRatio  float64 `json:"payoff_ratio"`
	Expectancy   float64 `json:"expectancy"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	MaxWin       float64 `json:"max_win"`
	MaxLoss      float64 `json:"max_loss"`
	Sharpe       float64 `json:"sharpe"`
	Sortino      float64 `json:"sortino"`
	Calmar       float64 `json:"calmar"`

	MaxConsecWins   int `json:"max_consec_wins"`
	MaxConsecLosses int `json:"max_consec_losses"`

	LongTrades  int     `json:"long_trades"`
	LongPnl     float64 `json:"long_pnl"`
	ShortTrades int     `json:"short_trades"`
	ShortPnl    float64 `json:"short_pnl"`

	Yearly    map[int]Bucket            `json:"yearly"`
	Monthly   map[string]Bucket         `json:"monthly"`
	DTEMatrix map[int]map[string]float64 `json:"dte_matrix"`
	DTECounts map[int]map[string]int     `json:"dte_counts"`

	Equity []EquityPoint `json:"equity"`
}

// BreakEven is the number of trades that were neither winners nor losers.
func (s *Summary) BreakEven() int {
	return s.Trades - s.Winners - s.Losers
}
