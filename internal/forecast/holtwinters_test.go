package forecast

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendcast/internal/timeseries"
)

// weeklySeries builds n weekly points starting 2025-01-06 (a Monday) with
// values from gen.
func weeklySeries(n int, gen func(i int) float64) timeseries.Series {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	s := make(timeseries.Series, 0, n)
	for i := 0; i < n; i++ {
		s = append(s, timeseries.Point{Date: start.AddDate(0, 0, 7*i), Value: gen(i)})
	}
	return s
}

func TestValidateInsufficientData(t *testing.T) {
	var insufficient *InsufficientDataError

	err := Validate(nil)
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.CurrentWeeks)
	assert.Equal(t, 8, insufficient.RequiredWeeks)

	err = Validate(weeklySeries(5, func(int) float64 { return 100 }))
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 5, insufficient.CurrentWeeks)
}

func TestValidateZeroPercentage(t *testing.T) {
	// 5 of 9 weeks are zero: 55.6% after rounding to one decimal.
	s := weeklySeries(9, func(i int) float64 {
		if i < 5 {
			return 0
		}
		return 100
	})

	var quality *PoorDataQualityError
	err := Validate(s)
	require.ErrorAs(t, err, &quality)
	assert.Equal(t, 55.6, quality.ZeroPercentage)
}

func TestValidateExactlyHalfZeroPasses(t *testing.T) {
	// The gate rejects strictly more than 50% zeros.
	s := weeklySeries(8, func(i int) float64 {
		if i%2 == 0 {
			return 0
		}
		return 100
	})
	assert.NoError(t, Validate(s))
}

func TestSeasonalPeriods(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{8, 4},
		{9, 4},
		{10, 4},
		{100, 4},
		{7, 3},
		{4, 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SeasonalPeriods(tc.n), "n=%d", tc.n)
	}
}

func TestForecastTimeline(t *testing.T) {
	s := weeklySeries(16, func(i int) float64 {
		seasonal := []float64{10, -5, 0, -5}[i%4]
		return 100 + 2*float64(i) + seasonal
	})

	engine := NewEngine()
	out, err := engine.Forecast(s)
	require.NoError(t, err)
	require.Len(t, out, Horizon)

	last := s.Last().Date
	for h, p := range out {
		assert.Equal(t, last.AddDate(0, 0, 7*(h+1)), p.Date, "step %d", h+1)
		assert.False(t, math.IsNaN(p.Value) || math.IsInf(p.Value, 0), "step %d must be finite", h+1)
		// Predictions should stay near the continuation of the series.
		assert.InDelta(t, 100+2*float64(16+h), p.Value, 50, "step %d", h+1)
	}
}

func TestForecastDeterministic(t *testing.T) {
	s := weeklySeries(12, func(i int) float64 {
		return 80 + 3*float64(i) + []float64{5, 0, -5, 0}[i%4]
	})

	engine := NewEngine()
	first, err := engine.Forecast(s)
	require.NoError(t, err)
	second, err := engine.Forecast(s)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestForecastConstantSeries(t *testing.T) {
	s := weeklySeries(10, func(int) float64 { return 50 })

	engine := NewEngine()
	out, err := engine.Forecast(s)
	require.NoError(t, err)
	for _, p := range out {
		assert.InDelta(t, 50, p.Value, 1e-6)
	}
}

func TestForecastRejectsShortSeries(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Forecast(weeklySeries(3, func(int) float64 { return 10 }))

	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.CurrentWeeks)
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&InsufficientDataError{CurrentWeeks: 2, RequiredWeeks: 8}).Error(), "8 weeks")
	assert.Contains(t, (&PoorDataQualityError{ZeroPercentage: 62.5}).Error(), "62.5%")
	assert.Contains(t, (&FittingError{Diagnostic: "singular"}).Error(), "singular")
	assert.False(t, errors.Is(&FittingError{}, ErrUnavailable))
}
