package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rustyeddy/tradestats/trade"
)

// Dataset describes one stored trade log.
type Dataset struct {
	Name   string
	Mode   string
	Trades int
	First  string
	Last   string
}

// ListTrades returns the stored log of dataset/mode ordered by date, then
// by the order trades were recorded within a day.
func (j *SQLite) ListTrades(ctx context.Context, dataset, mode string) ([]trade.Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT date, entry_time, exit_time, label, option_type, strike, action,
		       quantity, entry_price, exit_price, exit_reason, dte, gross_pnl, vix
		FROM trades
		WHERE dataset = ? AND mode = ?
		ORDER BY date ASC, seq ASC`, dataset, mode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trade.Record
	for rows.Next() {
		var (
			rec  trade.Record
			date string
			vix  sql.NullFloat64
		)
		if err := rows.Scan(
			&date,
			&rec.EntryTime,
			&rec.ExitTime,
			&rec.Label,
			&rec.OptionType,
			&rec.Strike,
			&rec.Action,
			&rec.Quantity,
			&rec.EntryPrice,
			&rec.ExitPrice,
			&rec.ExitReason,
			&rec.DTE,
			&rec.GrossPnl,
			&vix,
		); err != nil {
			return nil, err
		}
		if rec.Date, err = trade.ParseDate(date); err != nil {
			return nil, err
		}
		if vix.Valid {
			rec.VIX = trade.Float(vix.Float64)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("dataset %q mode %q: %w", dataset, mode, ErrNotFound)
	}
	return out, nil
}

// ListDatasets summarizes every stored trade log.
func (j *SQLite) ListDatasets(ctx context.Context) ([]Dataset, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT dataset, mode, COUNT(*), MIN(date), MAX(date)
		FROM trades
		GROUP BY dataset, mode
		ORDER BY dataset, mode`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Dataset
	for rows.Next() {
		var d Dataset
		if err := rows.Scan(&d.Name, &d.Mode, &d.Trades, &d.First, &d.Last); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
