package journal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	out := FormatTradeOrg(sampleTrades()[0])

	assert.True(t, strings.HasPrefix(out, "** Trade: 2024-01-02 CE leg 1 (DTE 2)\n"))
	assert.Contains(t, out, ":PROPERTIES:\n")
	assert.Contains(t, out, ":ENTRY: 09:16 @ 120.50\n")
	assert.Contains(t, out, ":EXIT: 14:30 @ 80.25\n")
	assert.Contains(t, out, ":GROSS_PNL: 2616.25\n")
	assert.Contains(t, out, ":VIX: 14.10\n")
	assert.True(t, strings.HasSuffix(out, ":END:\n"))
}

func TestFormatTradeOrgFallbackLabel(t *testing.T) {
	tr := sampleTrades()[1]
	tr.Label = ""
	tr.VIX = nil

	out := FormatTradeOrg(tr)
	assert.Contains(t, out, "** Trade: 2024-01-02 21750 PE (DTE 2)")
	assert.NotContains(t, out, ":VIX:")
}

func TestFormatTradesOrg(t *testing.T) {
	out := FormatTradesOrg(sampleTrades())
	assert.Equal(t, 3, strings.Count(out, "** Trade:"))
	assert.Equal(t, "", FormatTradesOrg(nil))
}
