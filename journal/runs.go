package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// RecordRun stores a metrics run.
func (j *SQLite) RecordRun(ctx context.Context, r Run) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO metric_runs
		(run_id, created, dataset, mode, source, cost_per_trade, vix_min, vix_max,
		 trades, winners, losers, win_rate, gross_pnl, net_pnl, max_drawdown,
		 profit_factor, sharpe, calmar, snapshot, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Dataset, r.Mode, r.Source, r.CostPerTrade, r.VIX.Min, r.VIX.Max,
		r.Trades, r.Winners, r.Losers, r.WinRate, r.GrossPnl, r.NetPnl, r.MaxDrawdown,
		r.ProfitFactor, r.Sharpe, r.Calmar, string(r.Snapshot), strings.Join(r.Notes, "\n"),
	)
	return err
}

const selectRun = `
	SELECT run_id, created, dataset, mode, source, cost_per_trade, vix_min, vix_max,
	       trades, winners, losers, win_rate, gross_pnl, net_pnl, max_drawdown,
	       profit_factor, sharpe, calmar, snapshot, notes
	FROM metric_runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r     Run
		snap  string
		notes string
	)
	err := s.Scan(
		&r.RunID, &r.Created, &r.Dataset, &r.Mode, &r.Source, &r.CostPerTrade,
		&r.VIX.Min, &r.VIX.Max, &r.Trades, &r.Winners, &r.Losers, &r.WinRate,
		&r.GrossPnl, &r.NetPnl, &r.MaxDrawdown, &r.ProfitFactor, &r.Sharpe,
		&r.Calmar, &snap, &notes,
	)
	if err != nil {
		return Run{}, err
	}
	r.Snapshot = []byte(snap)
	if notes != "" {
		r.Notes = strings.Split(notes, "\n")
	}
	return r, nil
}

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx, selectRun+` WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("run %q %w", runID, ErrNotFound)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns the most recent runs first. limit <= 0 means all.
func (j *SQLite) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	q := selectRun + ` ORDER BY run_id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
