// Package cost overlays trading costs on gross metrics.
package cost

import (
	"fmt"

	"github.com/rustyeddy/tradestats/metrics"
)

// Model is a flat per-trade cost deduction.
type Model struct {
	PerTrade float64 `json:"cost_per_trade" yaml:"cost_per_trade"`
}

// Validate rejects negative costs.
func (m Model) Validate() error {
	if m.PerTrade < 0 {
		return fmt.Errorf("cost per trade must not be negative: %v", m.PerTrade)
	}
	return nil
}

// Net deducts the cost of trades from gross. trades must be the trade
// count of the same aggregate gross was summed over.
func (m Model) Net(gross float64, trades int) float64 {
	return gross - m.PerTrade*float64(trades)
}

// NetSummary holds the cost-adjusted counterparts of a summary's
// aggregates. Every cell is charged for its own trade count.
type NetSummary struct {
	CostPerTrade float64 `json:"cost_per_trade"`
	TotalCost    float64 `json:"total_cost"`
	NetPnl       float64 `json:"net_pnl"`

	Yearly    map[int]float64            `json:"yearly"`
	Monthly   map[string]float64         `json:"monthly"`
	DTEMatrix map[int]map[string]float64 `json:"dte_matrix"`
}

// Apply builds the net view of s. The summary itself is left untouched,
// so its drawdown curve stays on gross P&L.
func (m Model) Apply(s *metrics.Summary) *NetSummary {
	n := &NetSummary{
		CostPerTrade: m.PerTrade,
		TotalCost:    m.PerTrade * float64(s.Trades),
		NetPnl:       m.Net(s.GrossPnl, s.Trades),
		Yearly:       make(map[int]float64, len(s.Yearly)),
		Monthly:      make(map[string]float64, len(s.Monthly)),
		DTEMatrix:    make(map[int]map[string]float64, len(s.DTEMatrix)),
	}
	for y, b := range s.Yearly {
		n.Yearly[y] = m.Net(b.GrossPnl, b.Trades)
	}
	for k, b := range s.Monthly {
		n.Monthly[k] = m.Net(b.GrossPnl, b.Trades)
	}
	for y, row := range s.DTEMatrix {
		out := make(map[string]float64, len(row))
		for b, gross := range row {
			out[b] = m.Net(gross, s.DTECounts[y][b])
		}
		n.DTEMatrix[y] = out
	}
	return n
}

// Inputs are the user-facing knobs a flat per-trade cost is derived from.
type Inputs struct {
	SlippagePts       float64 `json:"slippage_pts" yaml:"slippage_pts"`
	Quantity          int     `json:"quantity" yaml:"quantity"`
	BrokeragePerOrder float64 `json:"brokerage_per_order" yaml:"brokerage_per_order"`
	FlatTax           float64 `json:"flat_tax" yaml:"flat_tax"`
}

// PerTrade is slippage x quantity + brokerage for entry and exit + tax.
func (in Inputs) PerTrade() float64 {
	return in.SlippagePts*float64(in.Quantity) + in.BrokeragePerOrder*2 + in.FlatTax
}

// Model converts the inputs to a flat Model.
func (in Inputs) Model() Model {
	return Model{PerTrade: in.PerTrade()}
}
