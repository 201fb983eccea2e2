//go:build blackbox

package blackbox

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

func contains(s, sub string) bool { return strings.Contains(s, sub) }

// writeTradeLog writes a two-mode export with n hard trades alternating
// +pnl and -pnl/2 on consecutive days, and a single close trade.
func writeTradeLog(t *testing.T, path string, n int, pnl float64) {
	t.Helper()

	var b strings.Builder
	b.WriteString(`{"hard": [`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		p := pnl
		if i%2 == 1 {
			p = -pnl / 2
		}
		fmt.Fprintf(&b, `{"date": "2024-03-%02d", "absolute_strike": 22000, "option_type": "CE", "action": "SELL", "quantity": 65, "gross_pnl": %s, "dte": %d, "vix": 14.5}`,
			i+1, f64(p), i%8)
	}
	b.WriteString(`], "close": [{"date": "2024-03-01", "gross_pnl": 10, "dte": 0}]}`)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}

func f64(x float64) string {
	return fmt.Sprintf("%.2f", x)
}
