package trade

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		wantErr error
	}{
		{"valid", Record{Date: day(2024, 1, 2), GrossPnl: 10}, nil},
		{"missing date", Record{GrossPnl: 10}, ErrMissing},
		{"nan pnl", Record{Date: day(2024, 1, 2), GrossPnl: math.NaN()}, ErrNonFinite},
		{"inf pnl", Record{Date: day(2024, 1, 2), GrossPnl: math.Inf(-1)}, ErrNonFinite},
		{"negative dte", Record{Date: day(2024, 1, 2), DTE: -1}, ErrBadDTE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRecordKeys(t *testing.T) {
	r := Record{Date: day(2023, 7, 4)}
	assert.Equal(t, 2023, r.Year())
	assert.Equal(t, "2023-07", r.Month())
	assert.Equal(t, "2023-07-04", r.Day())
	assert.False(t, r.HasVIX())

	r.VIX = Float(14.2)
	assert.True(t, r.HasVIX())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2022-03-15")
	require.NoError(t, err)
	assert.True(t, d.Equal(day(2022, 3, 15)))

	d, err = ParseDate("2022-03-15T00:00:00")
	require.NoError(t, err)
	assert.True(t, d.Equal(day(2022, 3, 15)))

	_, err = ParseDate("")
	assert.ErrorIs(t, err, ErrMissing)

	d, err = ParseDate("2022-03-15 09:15:00")
	require.NoError(t, err)
	assert.True(t, d.Equal(day(2022, 3, 15)))

	_, err = ParseDate("15/03/2022")
	assert.ErrorIs(t, err, ErrBadDate)

	for _, bad := range []string{"2022-03-15garbage", "2022-03-15_09:15", "2022-03-155"} {
		_, err = ParseDate(bad)
		assert.ErrorIs(t, err, ErrBadDate, bad)
	}
}
