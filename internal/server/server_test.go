package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/journal"
	"github.com/rustyeddy/tradestats/metrics"
	"github.com/rustyeddy/tradestats/trade"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const tradesBody = `[
  {"date": "2024-01-02", "gross_pnl": 100, "dte": 2, "vix": 14.0},
  {"date": "2024-01-02", "gross_pnl": -30, "dte": 2, "vix": 16.5},
  {"date": "2024-01-03", "gross_pnl": -40, "dte": 1},
  {"date": "2025-02-04", "gross_pnl": 200, "dte": 9, "vix": 12.0}
]`

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type metricsResponse struct {
	Empty   bool             `json:"empty"`
	Summary *metrics.Summary `json:"summary"`
	Net     *cost.NetSummary `json:"net"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) metricsResponse {
	t.Helper()
	var out metricsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthCheck(t *testing.T) {
	s := New(zap.NewNop(), nil)
	s.Version = "1.2.3"

	w := do(t, s.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}

func TestMetrics(t *testing.T) {
	s := New(zap.NewNop(), nil)

	w := do(t, s.Handler(), http.MethodPost, "/api/metrics",
		`{"trades": `+tradesBody+`, "cost_per_trade": 10}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode(t, w)
	assert.False(t, out.Empty)
	require.NotNil(t, out.Summary)
	require.NotNil(t, out.Net)

	assert.Equal(t, 4, out.Summary.Trades)
	assert.Equal(t, 3, out.Summary.TradingDays)
	assert.Equal(t, 230.0, out.Summary.GrossPnl)
	assert.Equal(t, 70.0, out.Summary.MaxDrawdown)
	assert.Equal(t, 190.0, out.Net.NetPnl)
	assert.Equal(t, 190.0, out.Net.Yearly[2025])
	assert.Equal(t, 2, out.Summary.DTECounts[2024]["2"])
}

func TestMetricsVIXFilter(t *testing.T) {
	s := New(zap.NewNop(), nil)

	w := do(t, s.Handler(), http.MethodPost, "/api/metrics",
		`{"trades": `+tradesBody+`, "vix_min": 13, "vix_max": 15}`)
	require.Equal(t, http.StatusOK, w.Code)

	out := decode(t, w)
	require.NotNil(t, out.Summary)
	assert.Equal(t, 1, out.Summary.Trades)
	assert.Equal(t, 100.0, out.Summary.GrossPnl)
	assert.Equal(t, 0.0, out.Net.TotalCost)
}

func TestMetricsEmptyAfterFilter(t *testing.T) {
	s := New(zap.NewNop(), nil)

	w := do(t, s.Handler(), http.MethodPost, "/api/metrics",
		`{"trades": `+tradesBody+`, "vix_min": 30}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"empty": true}`, w.Body.String())

	w = do(t, s.Handler(), http.MethodPost, "/api/metrics", `{"trades": []}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Empty)
}

func TestMetricsByMode(t *testing.T) {
	s := New(zap.NewNop(), nil)

	body := `{"mode": "close", "trades": {"hard": [], "close": ` + tradesBody + `, "close_equity": []}}`
	w := do(t, s.Handler(), http.MethodPost, "/api/metrics", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode(t, w).Summary.Trades)
}

func TestMetricsBadRequest(t *testing.T) {
	s := New(zap.NewNop(), nil)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"no trades", `{"cost_per_trade": 5}`},
		{"negative cost", `{"trades": [], "cost_per_trade": -1}`},
		{"bad date", `{"trades": [{"date": "02/01/2024", "gross_pnl": 1}]}`},
		{"negative dte", `{"trades": [{"date": "2024-01-02", "gross_pnl": 1, "dte": -2}]}`},
		{"unknown mode", `{"mode": "intrabar", "trades": {"hard": []}}`},
		{"missing gross_pnl", `{"trades": [{"date": "2024-01-02"}]}`},
		{"null gross_pnl", `{"trades": [{"date": "2024-01-02", "gross_pnl": null}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s.Handler(), http.MethodPost, "/api/metrics", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestRunsWithoutJournal(t *testing.T) {
	s := New(zap.NewNop(), nil)

	assert.Equal(t, http.StatusNotFound, do(t, s.Handler(), http.MethodGet, "/api/runs", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s.Handler(), http.MethodGet, "/api/runs/x", "").Code)
}

func TestRuns(t *testing.T) {
	j, err := journal.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer j.Close()

	trades, err := journal.LoadJSON(strings.NewReader(tradesBody), "")
	require.NoError(t, err)
	sum, err := metrics.Compute(trades)
	require.NoError(t, err)
	run, err := journal.NewRun("strat01", "hard", "api", trade.VIXRange{}, sum, cost.Model{PerTrade: 10}.Apply(sum))
	require.NoError(t, err)
	run.Notes = []string{"first"}
	require.NoError(t, j.RecordRun(context.Background(), run))

	s := New(zap.NewNop(), j)

	w := do(t, s.Handler(), http.MethodGet, "/api/runs?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Runs []runView `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Runs, 1)
	assert.Equal(t, run.RunID, list.Runs[0].RunID)
	assert.Nil(t, list.Runs[0].Snapshot)

	w = do(t, s.Handler(), http.MethodGet, "/api/runs/"+run.RunID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got runView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 190.0, got.NetPnl)
	assert.Equal(t, []string{"first"}, got.Notes)
	require.NotNil(t, got.Snapshot)
	assert.Equal(t, 4, got.Snapshot.Summary.Trades)

	assert.Equal(t, http.StatusNotFound, do(t, s.Handler(), http.MethodGet, "/api/runs/nope", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s.Handler(), http.MethodGet, "/api/runs?limit=x", "").Code)
}

type staticRuns struct{ run journal.Run }

func (s staticRuns) ListRuns(context.Context, int) ([]journal.Run, error) {
	return []journal.Run{s.run}, nil
}

func (s staticRuns) GetRun(context.Context, string) (journal.Run, error) {
	return s.run, nil
}

func TestGetRunCorruptSnapshot(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := New(zap.New(core), staticRuns{journal.Run{RunID: "r1", Dataset: "strat01", Snapshot: []byte("{not json")}})

	w := do(t, s.Handler(), http.MethodGet, "/api/runs/r1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got runView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "r1", got.RunID)
	assert.Nil(t, got.Snapshot)

	entries := logs.FilterMessage("Run snapshot unreadable").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "r1", entries[0].ContextMap()["run_id"])
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := New(zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
