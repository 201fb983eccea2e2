package report

import (
	"encoding/json"
	"io"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/metrics"
)

// Payload is the machine-readable form of a report, shared by the CLI's
// json format and the HTTP API.
type Payload struct {
	Title   string           `json:"title,omitempty"`
	Empty   bool             `json:"empty,omitempty"`
	Summary *metrics.Summary `json:"summary,omitempty"`
	Net     *cost.NetSummary `json:"net,omitempty"`
}

// WriteJSON encodes p as indented JSON.
func WriteJSON(w io.Writer, p Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
