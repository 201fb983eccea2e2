package trade

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout is the ISO 8601 calendar date used by trade logs.
const DateLayout = "2006-01-02"

var (
	ErrBadDate   = errors.New("bad trade date")
	ErrMissing   = errors.New("required field missing")
	ErrNonFinite = errors.New("gross pnl is not finite")
	ErrBadDTE    = errors.New("days to expiry is negative")
)

// Record is one closed round-trip option trade.
//
// Only Date, DTE and GrossPnl take part in aggregation. The remaining
// fields are carried through for display and storage.
type Record struct {
	Date      time.Time `json:"date"`
	EntryTime string    `json:"entry_time,omitempty"`
	ExitTime  string    `json:"exit_time,omitempty"`

	Label      string  `json:"label,omitempty"`
	OptionType string  `json:"option_type,omitempty"`
	Strike     string  `json:"strike,omitempty"`
	Action     string  `json:"action,omitempty"`
	Quantity   int     `json:"quantity,omitempty"`
	EntryPrice float64 `json:"entry_price,omitempty"`
	ExitPrice  float64 `json:"exit_price,omitempty"`
	ExitReason string  `json:"exit_reason,omitempty"`

	DTE      int      `json:"dte"`
	GrossPnl float64  `json:"gross_pnl"`
	VIX      *float64 `json:"vix,omitempty"`
}

// Validate reports whether the record can be aggregated.
func (r Record) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("date: %w", ErrMissing)
	}
	if math.IsNaN(r.GrossPnl) || math.IsInf(r.GrossPnl, 0) {
		return fmt.Errorf("%w: %v", ErrNonFinite, r.GrossPnl)
	}
	if r.DTE < 0 {
		return fmt.Errorf("%w: %d", ErrBadDTE, r.DTE)
	}
	return nil
}

// Day returns the trade date formatted as YYYY-MM-DD.
func (r Record) Day() string {
	return r.Date.Format(DateLayout)
}

func (r Record) Year() int {
	return r.Date.Year()
}

// Month returns the "YYYY-MM" key of the trade date.
func (r Record) Month() string {
	return r.Date.Format("2006-01")
}

// HasVIX reports whether the record carries a VIX reading.
func (r Record) HasVIX() bool {
	return r.VIX != nil
}

// ParseDate parses an ISO calendar date. A trailing time component
// ("2024-01-02T00:00:00" or "2024-01-02 00:00:00") is tolerated since
// some exports serialize dates as datetimes.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date: %w", ErrMissing)
	}
	if n := len(DateLayout); len(s) > n {
		if s[n] != 'T' && s[n] != ' ' {
			return time.Time{}, fmt.Errorf("%w %q", ErrBadDate, s)
		}
		s = s[:n]
	}
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrBadDate, s, err)
	}
	return d, nil
}

// Float returns a pointer to v, handy for VIX literals.
func Float(v float64) *float64 {
	return &v
}
