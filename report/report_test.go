package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/metrics"
	"github.com/rustyeddy/tradestats/trade"
)

func rec(date string, pnl float64, dte int) trade.Record {
	d, err := time.Parse(trade.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return trade.Record{Date: d, GrossPnl: pnl, DTE: dte}
}

func fixture(t *testing.T) ([]trade.Record, *metrics.Summary, *cost.NetSummary) {
	t.Helper()

	trades := []trade.Record{
		rec("2023-12-28", 100, 0),
		rec("2023-12-29", -30, 1),
		rec("2024-01-02", -40, 3),
		rec("2024-01-03", 200, 9),
		rec("2024-01-04", -150, 0),
	}
	s, err := metrics.Compute(trades)
	require.NoError(t, err)
	return trades, s, cost.Model{PerTrade: 10}.Apply(s)
}

func firstLine(out, prefix string) string {
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, prefix) {
			return l
		}
	}
	return ""
}

// lastLine returns the last line starting with prefix.
func lastLine(out, prefix string) string {
	var found string
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, prefix) {
			found = l
		}
	}
	return found
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "-73.00", Money(-73))
	assert.Equal(t, "16.50", Money(16.5))
	assert.Equal(t, "0.00", Money(0))
	assert.Equal(t, "-73", Whole(-72.6))

	big := Money(1234567.5)
	assert.NotEqual(t, "1234567.50", big)
	assert.True(t, strings.HasSuffix(big, ",567.50"), big)
}

func TestWriteText(t *testing.T) {
	_, s, n := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, "Straddle hard", s, n))
	out := buf.String()

	assert.Contains(t, out, " Straddle hard\n")
	assert.Contains(t, out, "Win Rate:          40.0%\n")
	assert.Contains(t, out, "Net P&L:           30.00\n")
	assert.Contains(t, out, "Max Drawdown:      150.00\n")
	assert.Contains(t, out, "Break-even:        0\n")
	assert.Contains(t, out, "DTE Matrix (net, cost 10.00/trade)")

	assert.Equal(t, []string{"2023", "90", "-40", Absent, Absent}, strings.Fields(lastLine(out, "2023")))
	assert.Equal(t, []string{"2024", "-160", Absent, "-50", "190"}, strings.Fields(lastLine(out, "2024 ")))
	assert.Equal(t, []string{"2024-01", "3", "33.3%", "10", "-20"}, strings.Fields(lastLine(out, "2024-01")))
}

func TestWriteTextGrossOnly(t *testing.T) {
	_, s, _ := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, "gross", s, nil))
	out := buf.String()

	assert.NotContains(t, out, "Net P&L")
	assert.Contains(t, out, "DTE Matrix (gross)")
	assert.Equal(t, []string{"2023", "2", "50.0%", "70", Absent}, strings.Fields(firstLine(out, "2023 ")))
	assert.Equal(t, []string{"2023", "100", "-30", Absent, Absent}, strings.Fields(lastLine(out, "2023 ")))
	assert.Equal(t, []string{"2024", "-150", Absent, "-40", "200"}, strings.Fields(lastLine(out, "2024 ")))
}

func TestWriteMarkdown(t *testing.T) {
	_, s, n := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, "Straddle", s, n))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Straddle\n\n## Summary\n"))
	assert.Contains(t, out, "| Win Rate | 40.0% |\n")
	assert.Contains(t, out, "| Profit Factor | 1.36 |\n")
	assert.Contains(t, out, "| 2024 | 3 | 33.3% | 10 | -20 |\n")
	assert.Contains(t, out, "| Year | DTE 0 | DTE 1 | DTE 3 | DTE 7+ |\n")
	assert.Contains(t, out, "| 2023 | 90 | -40 | — | — |\n")
}

func TestWriteOrg(t *testing.T) {
	_, s, n := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteOrg(&buf, "METRICS: straddle", s, n))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "* METRICS: straddle\n:PROPERTIES:\n"))
	assert.Contains(t, out, ":WIN_RATE: 40.0%\n")
	assert.Contains(t, out, ":COST_PER_TRADE: 10.00\n")
	assert.Contains(t, out, ":NET_PNL: 30.00\n")
	assert.Contains(t, out, ":MAX_CONSEC_LOSSES: 2\n")
	assert.Contains(t, out, "| 2024 | -160 | — | -50 | 190 |\n")
}

func TestOrgKey(t *testing.T) {
	assert.Equal(t, "GROSS_PNL", orgKey("Gross P&L"))
	assert.Equal(t, "COST_PER_TRADE", orgKey("Cost/Trade"))
	assert.Equal(t, "BREAK_EVEN", orgKey("Break-even"))
}

func TestWriteBreakdownCSV(t *testing.T) {
	_, s, n := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteBreakdownCSV(&buf, s, n))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+1+2+2+5)

	assert.Equal(t, breakdownHeader, rows[0])
	assert.Equal(t, []string{"total", "all", "5", "2", "40.0", "80.00", "30.00"}, rows[1])
	assert.Equal(t, []string{"year", "2023", "2", "1", "50.0", "70.00", "50.00"}, rows[2])
	assert.Equal(t, []string{"month", "2024-01", "3", "1", "33.3", "10.00", "-20.00"}, rows[5])
	assert.Equal(t, []string{"dte", "2023/0", "1", "", "", "100.00", "90.00"}, rows[6])
	assert.Equal(t, []string{"dte", "2024/7+", "1", "", "", "200.00", "190.00"}, rows[10])
}

func TestWriteBreakdownCSVGrossOnly(t *testing.T) {
	_, s, _ := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteBreakdownCSV(&buf, s, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "", rows[1][6])
}

func TestWriteEquityCSV(t *testing.T) {
	trades, _, _ := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteEquityCSV(&buf, metrics.DailyEquity(trades)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, equityHeader, rows[0])
	assert.Equal(t, []string{"2024-01-04", "-150.00", "80.00", "150.00"}, rows[5])
}

func TestWriteComparison(t *testing.T) {
	_, s, n := fixture(t)

	var buf bytes.Buffer
	err := WriteComparison(&buf,
		Side{Label: "hard", Summary: s, Net: n},
		Side{Label: "close"},
	)
	require.NoError(t, err)
	out := buf.String()

	assert.Equal(t, []string{"Metric", "hard", "close"}, strings.Fields(lastLine(out, "Metric")))
	assert.Equal(t, []string{"Trades", "5", Absent}, strings.Fields(lastLine(out, "Trades")))
	assert.Equal(t, []string{"2024", "-20", Absent}, strings.Fields(lastLine(out, "2024")))
	assert.Equal(t, []string{"Score", "11", Absent}, strings.Fields(lastLine(out, "Score")))
	assert.Equal(t, []string{"Rank", "1", Absent}, strings.Fields(lastLine(out, "Rank")))
	assert.Contains(t, out, "Best Overall: hard\n")

	assert.Error(t, WriteComparison(&buf, Side{Label: "solo", Summary: s}))
}

func TestWriteComparisonGrossAndNet(t *testing.T) {
	_, s, n := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf,
		Side{Label: "gross", Summary: s},
		Side{Label: "net", Summary: s, Net: n},
	))
	out := buf.String()

	assert.Equal(t, []string{"Net", "P&L", Absent, "30.00"}, strings.Fields(lastLine(out, "Net P&L")))
	assert.Equal(t, []string{"2023", "70", "50"}, strings.Fields(lastLine(out, "2023")))
}

func TestWriteJSON(t *testing.T) {
	_, s, n := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Payload{Title: "x", Summary: s, Net: n}))

	var got struct {
		Title   string `json:"title"`
		Summary struct {
			Trades int `json:"trades"`
		} `json:"summary"`
		Net struct {
			NetPnl float64 `json:"net_pnl"`
		} `json:"net"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "x", got.Title)
	assert.Equal(t, 5, got.Summary.Trades)
	assert.Equal(t, 30.0, got.Net.NetPnl)
}

func TestWriteTextSidesAndRatios(t *testing.T) {
	trades, _, _ := fixture(t)
	trades[0].Action = "BUY"
	trades[1].Action = "SELL"
	s, err := metrics.Compute(trades)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, "sides", s, nil))
	out := buf.String()

	assert.Contains(t, out, "Gross Profit:      300.00\n")
	assert.Contains(t, out, "Gross Loss:        220.00\n")
	assert.Contains(t, out, "Long Trades:       1\n")
	assert.Contains(t, out, "Long P&L:          100.00\n")
	assert.Contains(t, out, "Short P&L:         -30.00\n")
	assert.Contains(t, out, "Sortino:           "+ratio(s.Sortino)+"\n")
}

func TestRank(t *testing.T) {
	summarize := func(pnls ...float64) *metrics.Summary {
		var trades []trade.Record
		for i, p := range pnls {
			trades = append(trades, rec(fmt.Sprintf("2024-05-%02d", i+1), p, 0))
		}
		s, err := metrics.Compute(trades)
		require.NoError(t, err)
		return s
	}

	// equal win rate and a zero Sortino on both sides tie; "steady" wins
	// every other metric
	r := Rank(
		Side{Label: "choppy", Summary: summarize(100, -50)},
		Side{Label: "steady", Summary: summarize(300, -10)},
		Side{Label: "empty"},
	)
	assert.Equal(t, []int{13, 22, 0}, r.Scores)
	assert.Equal(t, []int{2, 1, 0}, r.Ranks)
	assert.Equal(t, 1, r.Best)

	r = Rank(Side{Label: "a"}, Side{Label: "b"})
	assert.Equal(t, -1, r.Best)
	assert.Equal(t, []int{0, 0}, r.Ranks)
}

func TestRankUsesNetWhenPresent(t *testing.T) {
	_, s, _ := fixture(t)
	cheap := cost.Model{PerTrade: 1}.Apply(s)
	dear := cost.Model{PerTrade: 50}.Apply(s)

	r := Rank(Side{Label: "dear", Summary: s, Net: dear}, Side{Label: "cheap", Summary: s, Net: cheap})
	// identical summaries tie on everything except net P&L
	assert.Equal(t, []int{21, 22}, r.Scores)
	assert.Equal(t, 1, r.Best)
}
