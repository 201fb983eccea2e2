package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradestats/pkg/id"
	"github.com/rustyeddy/tradestats/trade"
)

// SQLite stores trade logs and metric runs. RecordTrade appends to the
// dataset and mode the journal was opened for.
type SQLite struct {
	db *sql.DB

	Dataset string
	Mode    string
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db, Dataset: "default", Mode: "default"}, nil
}

const insertTrade = `
	INSERT INTO trades
	(trade_id, dataset, mode, seq, date, entry_time, exit_time, label, option_type, strike,
	 action, quantity, entry_price, exit_price, exit_reason, dte, gross_pnl, vix)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, ex execer, dataset, mode string, seq int, t trade.Record) error {
	var vix sql.NullFloat64
	if t.VIX != nil {
		vix = sql.NullFloat64{Float64: *t.VIX, Valid: true}
	}
	_, err := ex.ExecContext(ctx, insertTrade,
		id.New(), dataset, mode, seq, t.Day(), t.EntryTime, t.ExitTime, t.Label,
		t.OptionType, t.Strike, t.Action, t.Quantity, t.EntryPrice, t.ExitPrice,
		t.ExitReason, t.DTE, t.GrossPnl, vix,
	)
	return err
}

func (j *SQLite) RecordTrade(t trade.Record) error {
	if err := t.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	var next int
	err := j.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), -1) + 1 FROM trades WHERE dataset = ? AND mode = ?`,
		j.Dataset, j.Mode).Scan(&next)
	if err != nil {
		return err
	}
	return insert(ctx, j.db, j.Dataset, j.Mode, next, t)
}

// ImportTrades replaces the stored log of dataset/mode with trades,
// keeping their order. It returns the number of rows written.
func (j *SQLite) ImportTrades(ctx context.Context, dataset, mode string, trades []trade.Record) (int, error) {
	for i, t := range trades {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("trade %d: %w", i, err)
		}
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE dataset = ? AND mode = ?`, dataset, mode); err != nil {
		return 0, err
	}
	for i, t := range trades {
		if err := insert(ctx, tx, dataset, mode, i, t); err != nil {
			return 0, fmt.Errorf("insert trade %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(trades), nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
