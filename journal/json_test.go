package journal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/tradestats/trade"
)

const exportDoc = `{
  "hard": [
    {"date": "2021-01-04", "strike": "ATM", "option_type": "CE", "absolute_strike": 14150,
     "action": "SELL", "lots": 1, "quantity": 65, "entry_price": 120.5, "exit_price": 90.0,
     "entry_time": "09:16", "exit_time": "14:30", "exit_reason": "EXIT_TIME",
     "gross_pnl": 1982.5, "net_pnl": 1982.5, "dte": 3, "label": "CE leg 1", "vix": 21.4},
    {"date": "2021-01-04", "strike": "ATM", "option_type": "PE", "absolute_strike": 14150,
     "action": "SELL", "quantity": 65, "entry_price": 110.0, "exit_price": 143.0,
     "entry_time": "09:16", "exit_time": "10:41", "exit_reason": "SL",
     "gross_pnl": -2145.0, "dte": 3, "label": "PE leg 1", "vix": 0}
  ],
  "close": [
    {"date": "2021-01-04", "option_type": "CE", "gross_pnl": 1500, "dte": 9, "label": "CE leg 1"}
  ],
  "hard_equity": [{"date": "2021-01-04", "daily_pnl": -162.5}],
  "close_equity": []
}`

func TestLoadJSONByMode(t *testing.T) {
	hard, err := LoadJSON(strings.NewReader(exportDoc), "hard")
	require.NoError(t, err)
	require.Len(t, hard, 2)

	assert.Equal(t, "2021-01-04", hard[0].Day())
	assert.Equal(t, "14150", hard[0].Strike)
	assert.Equal(t, "CE leg 1", hard[0].Label)
	assert.Equal(t, "EXIT_TIME", hard[0].ExitReason)
	assert.Equal(t, 65, hard[0].Quantity)
	assert.Equal(t, 3, hard[0].DTE)
	assert.Equal(t, 1982.5, hard[0].GrossPnl)
	require.NotNil(t, hard[0].VIX)
	assert.Equal(t, 21.4, *hard[0].VIX)
	assert.Nil(t, hard[1].VIX, "zero vix means no reading")

	closeTrades, err := LoadJSON(strings.NewReader(exportDoc), "close")
	require.NoError(t, err)
	require.Len(t, closeTrades, 1)
	assert.Equal(t, 9, closeTrades[0].DTE)
}

func TestLoadJSONModeErrors(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(exportDoc), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: close, hard")

	_, err = LoadJSON(strings.NewReader(exportDoc), "intrabar")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = LoadJSON(strings.NewReader(exportDoc), "hard_equity")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadJSONSingleMode(t *testing.T) {
	doc := `{"close": [{"date": "2022-02-02", "gross_pnl": 10}], "close_equity": []}`
	got, err := LoadJSON(strings.NewReader(doc), "")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLoadJSONArray(t *testing.T) {
	doc := `[{"date": "2022-02-02", "gross_pnl": 10, "dte": 1}, {"date": "2022-02-03", "gross_pnl": -4}]`
	got, err := LoadJSON(strings.NewReader(doc), "ignored")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, -4.0, got[1].GrossPnl)
}

func TestLoadJSONErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "42", `[{"date": "nope", "gross_pnl": 1}]`, `[{"gross_pnl": 1}]`, `{"hard": 7}`} {
		_, err := LoadJSON(strings.NewReader(in), "hard")
		assert.Error(t, err, in)
	}
}

func TestLoadJSONMissingGrossPnl(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"absent", `[{"date": "2024-01-02"}]`, "trade 0: gross_pnl"},
		{"null", `[{"date": "2024-01-02", "gross_pnl": 5}, {"date": "2024-01-03", "gross_pnl": null}]`, "trade 1: gross_pnl"},
		{"absent in mode", `{"hard": [{"date": "2024-01-02", "dte": 1}]}`, "trade 0: gross_pnl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadJSON(strings.NewReader(tt.in), "hard")
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, trade.ErrMissing)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	got, err := LoadJSON(strings.NewReader(`[{"date": "2024-01-02", "gross_pnl": 0}]`), "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].GrossPnl, "an explicit zero is a real break-even")
}

func TestOpenTradeLog(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "strat.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(exportDoc), 0o644))

	got, err := OpenTradeLog(jsonPath, "hard")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	csvPath := filepath.Join(dir, "strat.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("date,gross_pnl\n2024-01-01,5\n"), 0o644))
	got, err = OpenTradeLog(csvPath, "")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = OpenTradeLog(filepath.Join(dir, "strat.parquet"), "")
	assert.Error(t, err)

	txtPath := filepath.Join(dir, "strat.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o644))
	_, err = OpenTradeLog(txtPath, "")
	assert.ErrorContains(t, err, "unsupported trade log")
}

func TestOpenTradeLogXZ(t *testing.T) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(exportDoc))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "strat_01_trades.JSON.xz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := OpenTradeLog(path, "close")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1500.0, got[0].GrossPnl)
}
