package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	candle "fib_dashboard/internal/feature/candles/domain/entity"
	retracementdomain "fib_dashboard/internal/feature/retracement/domain"
	retracement "fib_dashboard/internal/feature/retracement/domain/entity"
)

func closes(cs ...float64) candle.PriceSeries {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(candle.PriceSeries, len(cs))
	for i, c := range cs {
		s[i] = candle.PriceBar{Time: t0.AddDate(0, i, 0), Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	return s
}

func TestTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RELIANCE Fibonacci Retracement Analysis (1mo)", Title("RELIANCE", candle.Monthly))
	assert.Equal(t, "TCS Fibonacci Retracement Analysis (1d)", Title("TCS", candle.Daily))
}

func TestYRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		series  candle.PriceSeries
		want    [2]float64
		wantErr error
	}{
		{name: "pads close min and max by 5%", series: closes(100, 80, 120), want: [2]float64{76, 126}},
		{name: "single bar", series: closes(200), want: [2]float64{190, 210}},
		{name: "empty series", series: nil, wantErr: retracementdomain.ErrEmptySeries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := YRange(tt.series)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want[0], got[0], 1e-9)
			assert.InDelta(t, tt.want[1], got[1], 1e-9)
		})
	}
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	series := closes(100, 80, 120)
	levels := []retracement.Level{
		{Ratio: 0.236, Price: 1}, {Ratio: 0.382, Price: 2}, {Ratio: 0.5, Price: 3},
		{Ratio: 0.618, Price: 4}, {Ratio: 1.0, Price: 5},
	}

	p, err := Assemble(series, levels, "INFY", candle.Weekly)
	require.NoError(t, err)

	assert.Equal(t, "INFY Fibonacci Retracement Analysis (1wk)", p.Title)
	assert.Equal(t, "INFY", p.Symbol)
	assert.Equal(t, candle.Weekly, p.Timeframe)
	assert.Equal(t, series, p.Candles)
	assert.Equal(t, levels, p.Levels)
	assert.InDelta(t, 76.0, p.YRange[0], 1e-9)
	assert.InDelta(t, 126.0, p.YRange[1], 1e-9)

	_, err = Assemble(nil, nil, "INFY", candle.Weekly)
	assert.ErrorIs(t, err, retracementdomain.ErrEmptySeries)
}
