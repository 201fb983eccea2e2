package journal

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/rustyeddy/tradestats/trade"
)

// FormatTradeOrg renders a trade as an Org-mode block. Structured facts
// go in the PROPERTIES drawer so they stay searchable.
func FormatTradeOrg(t trade.Record) string {
	label := t.Label
	if label == "" {
		label = strings.TrimSpace(t.Strike + " " + t.OptionType)
	}
	heading := fmt.Sprintf("** Trade: %s %s (DTE %d)", t.Day(), label, t.DTE)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":DATE: %s\n", t.Day()))
	b.WriteString(fmt.Sprintf(":LABEL: %s\n", t.Label))
	b.WriteString(fmt.Sprintf(":OPTION_TYPE: %s\n", t.OptionType))
	b.WriteString(fmt.Sprintf(":STRIKE: %s\n", t.Strike))
	b.WriteString(fmt.Sprintf(":ACTION: %s\n", t.Action))
	b.WriteString(fmt.Sprintf(":QUANTITY: %d\n", t.Quantity))
	b.WriteString(fmt.Sprintf(":ENTRY: %s @ %.2f\n", t.EntryTime, t.EntryPrice))
	b.WriteString(fmt.Sprintf(":EXIT: %s @ %.2f\n", t.ExitTime, t.ExitPrice))
	b.WriteString(fmt.Sprintf(":EXIT_REASON: %s\n", t.ExitReason))
	b.WriteString(fmt.Sprintf(":DTE: %d\n", t.DTE))
	b.WriteString(fmt.Sprintf(":GROSS_PNL: %.2f\n", t.GrossPnl))
	if t.VIX != nil {
		b.WriteString(fmt.Sprintf(":VIX: %.2f\n", *t.VIX))
	}
	b.WriteString(":END:\n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []trade.Record) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

var runOrgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"vix": func(r trade.VIXRange) string {
		return r.String()
	},
}

var runOrg = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

// WriteRunOrg renders a stored run as an Org-mode heading.
func WriteRunOrg(w io.Writer, r Run) error {
	return runOrg.Execute(w, r)
}

const RunOrgTemplate = `* METRICS: {{.Dataset}} {{if .Mode}}{{.Mode}}{{else}}(mode?){{end}}
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:DATASET:     {{.Dataset}}
:MODE:        {{.Mode}}
:SOURCE:      {{if .Source}}{{.Source}}{{else}}(source?){{end}}
:VIX:         {{vix .VIX}}
:COST_TRADE:  {{printf "%.2f" .CostPerTrade}}
:TRADES:      {{.Trades}}
:WINNERS:     {{.Winners}}
:LOSERS:      {{.Losers}}
:WIN_RATE:    {{printf "%.1f" .WinRate}}
:GROSS_PNL:   {{printf "%.2f" .GrossPnl}}
:NET_PNL:     {{printf "%.2f" .NetPnl}}
:MAX_DD:      {{printf "%.2f" .MaxDrawdown}}
:PROFIT_FAC:  {{printf "%.2f" .ProfitFactor}}
:SHARPE:      {{printf "%.2f" .Sharpe}}
:CALMAR:      {{printf "%.2f" .Calmar}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:
{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
