package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rustyeddy/tradestats/trade"
)

// jsonTrade is the backtester's trade export row.
type jsonTrade struct {
	Date           string  `json:"date"`
	Strike         string  `json:"strike"`
	AbsoluteStrike float64 `json:"absolute_strike"`
	OptionType     string  `json:"option_type"`
	Action         string  `json:"action"`
	Quantity       int     `json:"quantity"`
	EntryPrice     float64 `json:"entry_price"`
	ExitPrice      float64 `json:"exit_price"`
	EntryTime      string  `json:"entry_time"`
	ExitTime       string  `json:"exit_time"`
	ExitReason     string  `json:"exit_reason"`
	GrossPnl       *float64 `json:"gross_pnl"`
	DTE            int     `json:"dte"`
	Label          string  `json:"label"`
	VIX            float64 `json:"vix"`
}

func (jt jsonTrade) record() (trade.Record, error) {
	d, err := trade.ParseDate(jt.Date)
	if err != nil {
		return trade.Record{}, err
	}
	// absent and null both decode to nil; never read them as break-even
	if jt.GrossPnl == nil {
		return trade.Record{}, fmt.Errorf("gross_pnl: %w", trade.ErrMissing)
	}
	rec := trade.Record{
		Date:       d,
		EntryTime:  jt.EntryTime,
		ExitTime:   jt.ExitTime,
		Label:      jt.Label,
		OptionType: jt.OptionType,
		Strike:     jt.Strike,
		Action:     jt.Action,
		Quantity:   jt.Quantity,
		EntryPrice: jt.EntryPrice,
		ExitPrice:  jt.ExitPrice,
		ExitReason: jt.ExitReason,
		DTE:        jt.DTE,
		GrossPnl:   *jt.GrossPnl,
	}
	if jt.AbsoluteStrike > 0 {
		rec.Strike = strconv.FormatFloat(jt.AbsoluteStrike, 'f', -1, 64)
	}
	// exports write 0 when no VIX reading was available
	if jt.VIX > 0 {
		rec.VIX = trade.Float(jt.VIX)
	}
	return rec, nil
}

// LoadJSON reads a trade export. The document is either an array of
// trades or an object with one array per execution mode ("hard",
// "close", ...); keys ending in "_equity" are ignored. mode may be empty
// when the object holds a single mode.
func LoadJSON(r io.Reader, mode string) ([]trade.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty trade log")
	}

	var rows []jsonTrade
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("decode trades: %w", err)
		}
	case '{':
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode trade log: %w", err)
		}
		modes := jsonModes(doc)
		if mode == "" {
			if len(modes) != 1 {
				return nil, fmt.Errorf("mode required (available: %s)", strings.Join(modes, ", "))
			}
			mode = modes[0]
		}
		raw, ok := doc[mode]
		if !ok || strings.HasSuffix(mode, "_equity") {
			return nil, fmt.Errorf("mode %q %w (available: %s)", mode, ErrNotFound, strings.Join(modes, ", "))
		}
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("decode %s trades: %w", mode, err)
		}
	default:
		return nil, fmt.Errorf("trade log must be a JSON array or object")
	}

	out := make([]trade.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, fmt.Errorf("trade %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func jsonModes(doc map[string]json.RawMessage) []string {
	var modes []string
	for k := range doc {
		if !strings.HasSuffix(k, "_equity") {
			modes = append(modes, k)
		}
	}
	sort.Strings(modes)
	return modes
}
