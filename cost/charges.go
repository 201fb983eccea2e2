package cost

import (
	"fmt"
	"strings"
	"time"
)

// TaxRates are NSE F&O statutory charges in percent.
type TaxRates struct {
	EffectiveFrom time.Time `json:"effective_from" yaml:"effective_from"`
	STTSellPct    float64   `json:"stt_sell_pct" yaml:"stt_sell_pct"`
	STTBuyPct     float64   `json:"stt_buy_pct" yaml:"stt_buy_pct"`
	ExchangePct   float64   `json:"exchange_charges_pct" yaml:"exchange_charges_pct"`
	SEBIFeePct    float64   `json:"sebi_fee_pct" yaml:"sebi_fee_pct"`
	GSTPct        float64   `json:"gst_pct" yaml:"gst_pct"`
	StampDutyPct  float64   `json:"stamp_duty_pct" yaml:"stamp_duty_pct"`
}

// DefaultSchedule lists rate changes in ascending EffectiveFrom order.
// STT on options went up on 2024-10-01 and started applying to the buy side.
var DefaultSchedule = []TaxRates{
	{
		EffectiveFrom: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		STTSellPct:    0.0625,
		STTBuyPct:     0,
		ExchangePct:   0.0495,
		SEBIFeePct:    0.0001,
		GSTPct:        18,
		StampDutyPct:  0.003,
	},
	{
		EffectiveFrom: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		STTSellPct:    0.1,
		STTBuyPct:     0.1,
		ExchangePct:   0.0495,
		SEBIFeePct:    0.0001,
		GSTPct:        18,
		StampDutyPct:  0.003,
	},
}

// RatesOn returns the last schedule entry effective on or before d, or the
// first entry when d predates them all. An empty schedule yields zero rates.
func RatesOn(schedule []TaxRates, d time.Time) TaxRates {
	if len(schedule) == 0 {
		return TaxRates{}
	}
	applicable := schedule[0]
	for _, r := range schedule {
		if !d.Before(r.EffectiveFrom) {
			applicable = r
		}
	}
	return applicable
}

// Breakdown is the itemized cost of one round trip.
type Breakdown struct {
	Slippage        float64 `json:"slippage"`
	Brokerage       float64 `json:"brokerage"`
	STT             float64 `json:"stt"`
	ExchangeCharges float64 `json:"exchange_charges"`
	SEBIFee         float64 `json:"sebi_fee"`
	GST             float64 `json:"gst"`
	StampDuty       float64 `json:"stamp_duty"`
}

func (b Breakdown) Total() float64 {
	return b.Slippage + b.Brokerage + b.STT + b.ExchangeCharges + b.SEBIFee + b.GST + b.StampDuty
}

// Order describes the round trip being charged.
type Order struct {
	Date         time.Time
	Action       string // BUY or SELL on entry
	EntryPremium float64
	ExitPremium  float64
	Quantity     int
	Legs         int
}

// Calculator itemizes charges for option round trips.
type Calculator struct {
	SlippagePts       float64
	BrokeragePerOrder float64
	UseTaxes          bool
	Schedule          []TaxRates
}

// NewCalculator returns a Calculator on DefaultSchedule with taxes on.
func NewCalculator(slippagePts, brokeragePerOrder float64) *Calculator {
	return &Calculator{
		SlippagePts:       slippagePts,
		BrokeragePerOrder: brokeragePerOrder,
		UseTaxes:          true,
		Schedule:          DefaultSchedule,
	}
}

// Calculate itemizes entry plus exit charges for o.
func (c *Calculator) Calculate(o Order) (Breakdown, error) {
	action := strings.ToUpper(o.Action)
	if action != "BUY" && action != "SELL" {
		return Breakdown{}, fmt.Errorf("unknown action %q", o.Action)
	}
	if o.Quantity <= 0 {
		return Breakdown{}, fmt.Errorf("quantity must be positive")
	}
	legs := o.Legs
	if legs <= 0 {
		legs = 1
	}

	var b Breakdown
	qty := float64(o.Quantity)
	n := float64(legs)

	b.Slippage = c.SlippagePts * qty * n * 2
	b.Brokerage = c.BrokeragePerOrder * n * 2

	if !c.UseTaxes || len(c.Schedule) == 0 {
		return b, nil
	}
	r := RatesOn(c.Schedule, o.Date)

	entry := o.EntryPremium * qty * n
	exit := o.ExitPremium * qty * n
	turnover := entry + exit

	buyTurnover := exit
	if action == "SELL" {
		b.STT = entry*r.STTSellPct/100 + exit*r.STTBuyPct/100
	} else {
		b.STT = entry*r.STTBuyPct/100 + exit*r.STTSellPct/100
		buyTurnover = entry
	}

	b.ExchangeCharges = turnover * r.ExchangePct / 100
	b.SEBIFee = turnover * r.SEBIFeePct / 100
	b.GST = (b.Brokerage + b.ExchangeCharges + b.SEBIFee) * r.GSTPct / 100
	b.StampDuty = buyTurnover * r.StampDutyPct / 100
	return b, nil
}
