package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/rustyeddy/tradestats/trade"
)

var csvHeader = []string{
	"date", "entry_time", "exit_time", "label", "option_type", "strike", "action",
	"quantity", "entry_price", "exit_price", "exit_reason", "dte", "gross_pnl", "vix",
}

// CSV writes a trade log in the same layout ReadCSV accepts.
type CSV struct {
	w  *csv.Writer
	tf *os.File
}

func NewCSV(path string) (*CSV, error) {
	tf, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	j, err := NewCSVWriter(tf)
	if err != nil {
		tf.Close()
		return nil, err
	}
	j.tf = tf
	return j, nil
}

// NewCSVWriter writes the header to w and returns a journal on it. Close
// flushes but does not close w.
func NewCSVWriter(w io.Writer) (*CSV, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &CSV{w: cw}, nil
}

func (j *CSV) RecordTrade(t trade.Record) error {
	if err := t.Validate(); err != nil {
		return err
	}

	vix := ""
	if t.VIX != nil {
		vix = f(*t.VIX)
	}
	err := j.w.Write([]string{
		t.Day(),
		t.EntryTime,
		t.ExitTime,
		t.Label,
		t.OptionType,
		t.Strike,
		t.Action,
		strconv.Itoa(t.Quantity),
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.ExitReason,
		strconv.Itoa(t.DTE),
		f(t.GrossPnl),
		vix,
	})
	if err != nil {
		return err
	}

	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	if j.tf != nil {
		return j.tf.Close()
	}
	return nil
}

// f writes the shortest decimal that reads back to x.
func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// ReadCSV loads a trade log with a header row. Columns are matched by
// name; date and gross_pnl (or pnl) are required, the rest optional.
// Spreadsheet exports with a UTF-8 or UTF-16 byte order mark are decoded
// transparently.
func ReadCSV(r io.Reader) ([]trade.Record, error) {
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["gross_pnl"]; !ok {
		if i, ok := col["pnl"]; ok {
			col["gross_pnl"] = i
		}
	}
	for _, req := range []string{"date", "gross_pnl"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("missing column %q", req)
		}
	}

	var out []trade.Record
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec, err := parseCSVRow(get)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseCSVRow(get func(string) string) (trade.Record, error) {
	var (
		rec trade.Record
		err error
	)
	if rec.Date, err = trade.ParseDate(get("date")); err != nil {
		return rec, err
	}
	if rec.GrossPnl, err = strconv.ParseFloat(get("gross_pnl"), 64); err != nil {
		return rec, fmt.Errorf("gross_pnl: %w", err)
	}

	rec.EntryTime = get("entry_time")
	rec.ExitTime = get("exit_time")
	rec.Label = get("label")
	rec.OptionType = get("option_type")
	rec.Strike = get("strike")
	rec.Action = get("action")
	rec.ExitReason = get("exit_reason")

	ints := map[string]*int{"quantity": &rec.Quantity, "dte": &rec.DTE}
	for name, dst := range ints {
		if s := get(name); s != "" {
			if *dst, err = strconv.Atoi(s); err != nil {
				return rec, fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	floats := map[string]*float64{"entry_price": &rec.EntryPrice, "exit_price": &rec.ExitPrice}
	for name, dst := range floats {
		if s := get(name); s != "" {
			if *dst, err = strconv.ParseFloat(s, 64); err != nil {
				return rec, fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	if s := get("vix"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return rec, fmt.Errorf("vix: %w", err)
		}
		if v > 0 {
			rec.VIX = trade.Float(v)
		}
	}
	return rec, nil
}
