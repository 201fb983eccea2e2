package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	dataset TEXT NOT NULL,
	mode TEXT NOT NULL,
	seq INTEGER NOT NULL,
	date TEXT NOT NULL,
	entry_time TEXT NOT NULL,
	exit_time TEXT NOT NULL,
	label TEXT NOT NULL,
	option_type TEXT NOT NULL,
	strike TEXT NOT NULL,
	action TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	exit_reason TEXT NOT NULL,
	dte INTEGER NOT NULL,
	gross_pnl REAL NOT NULL,
	vix REAL
);

CREATE INDEX IF NOT EXISTS idx_trades_dataset ON trades(dataset, mode, date, seq);

CREATE TABLE IF NOT EXISTS metric_runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	dataset TEXT NOT NULL,
	mode TEXT NOT NULL,
	source TEXT NOT NULL,
	cost_per_trade REAL NOT NULL,
	vix_min REAL NOT NULL,
	vix_max REAL NOT NULL,
	trades INTEGER NOT NULL,
	winners INTEGER NOT NULL,
	losers INTEGER NOT NULL,
	win_rate REAL NOT NULL,
	gross_pnl REAL NOT NULL,
	net_pnl REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	profit_factor REAL NOT NULL,
	sharpe REAL NOT NULL,
	calmar REAL NOT NULL,
	snapshot TEXT NOT NULL,
	notes TEXT NOT NULL
);
`
