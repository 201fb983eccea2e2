// journal/journal.go
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/metrics"
	"github.com/rustyeddy/tradestats/pkg/id"
	"github.com/rustyeddy/tradestats/trade"
)

var ErrNotFound = errors.New("not found")

// Journal is a sink for closed trades.
type Journal interface {
	RecordTrade(trade.Record) error
	Close() error
}

// RecordAll appends trades to j in order and returns how many were
// written before the first failure.
func RecordAll(j Journal, trades []trade.Record) (int, error) {
	for i, t := range trades {
		if err := j.RecordTrade(t); err != nil {
			return i, fmt.Errorf("trade %d: %w", i, err)
		}
	}
	return len(trades), nil
}

// Run is one stored metrics computation over a dataset.
type Run struct {
	RunID   string
	Created time.Time

	Dataset string
	Mode    string
	Source  string

	CostPerTrade float64
	VIX          trade.VIXRange

	Trades       int
	Winners      int
	Losers       int
	WinRate      float64
	GrossPnl     float64
	NetPnl       float64
	MaxDrawdown  float64
	ProfitFactor float64
	Sharpe       float64
	Calmar       float64

	// Snapshot is the JSON encoded RunSnapshot.
	Snapshot []byte

	Notes []string
}

// RunSnapshot is the full result stored alongside a run's headline numbers.
type RunSnapshot struct {
	Summary *metrics.Summary `json:"summary"`
	Net     *cost.NetSummary `json:"net"`
}

// NewRun packages a computed summary for storage under a fresh run ID.
func NewRun(dataset, mode, source string, vix trade.VIXRange, s *metrics.Summary, n *cost.NetSummary) (Run, error) {
	snap, err := json.Marshal(RunSnapshot{Summary: s, Net: n})
	if err != nil {
		return Run{}, err
	}

	now := time.Now().UTC()
	return Run{
		RunID:        id.At(now),
		Created:      now,
		Dataset:      dataset,
		Mode:         mode,
		Source:       source,
		CostPerTrade: n.CostPerTrade,
		VIX:          vix,
		Trades:       s.Trades,
		Winners:      s.Winners,
		Losers:       s.Losers,
		WinRate:      s.WinRate,
		GrossPnl:     s.GrossPnl,
		NetPnl:       n.NetPnl,
		MaxDrawdown:  s.MaxDrawdown,
		ProfitFactor: s.ProfitFactor,
		Sharpe:       s.Sharpe,
		Calmar:       s.Calmar,
		Snapshot:     snap,
	}, nil
}

// Decode unpacks the stored snapshot.
func (r Run) Decode() (RunSnapshot, error) {
	var snap RunSnapshot
	err := json.Unmarshal(r.Snapshot, &snap)
	return snap, err
}
