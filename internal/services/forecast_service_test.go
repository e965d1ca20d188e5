package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendcast/internal/core"
	"spendcast/internal/forecast"
	"spendcast/internal/timeseries"
)

// fakeLedger is an in-test ledger.Reader that counts reads.
type fakeLedger struct {
	txs   []core.Transaction
	err   error
	calls int
}

func (f *fakeLedger) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]core.Transaction, len(f.txs))
	copy(out, f.txs)
	return out, nil
}

// engineFunc adapts a function to the Engine interface.
type engineFunc func(s timeseries.Series) (timeseries.Series, error)

func (f engineFunc) Forecast(s timeseries.Series) (timeseries.Series, error) { return f(s) }

// weeklyLedger builds one transaction per week for n weeks starting
// 2025-01-06 (a Monday).
func weeklyLedger(n int, cents func(i int) int64) []core.Transaction {
	start := core.NewDate(2025, 1, 6)
	txs := make([]core.Transaction, 0, n)
	for i := 0; i < n; i++ {
		txs = append(txs, core.Transaction{
			Date:     core.Date{Time: start.AddDate(0, 0, 7*i)},
			Category: core.Categories()[i%3],
			Amount:   core.Money{Cents: cents(i)},
		})
	}
	return txs
}

func TestComputeForecastUnavailable(t *testing.T) {
	ledger := &fakeLedger{}
	svc := NewForecastService(ledger, nil, nil)

	_, err := svc.ComputeForecast(context.Background())
	require.ErrorIs(t, err, forecast.ErrUnavailable)
	assert.Zero(t, ledger.calls, "capability check must not read the ledger")
}

func TestComputeForecastEmptyLedger(t *testing.T) {
	svc := NewForecastService(&fakeLedger{}, forecast.NewEngine(), nil)

	_, err := svc.ComputeForecast(context.Background())

	var insufficient *forecast.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.CurrentWeeks)
	assert.Equal(t, 8, insufficient.RequiredWeeks)
}

func TestComputeForecastTooFewWeeks(t *testing.T) {
	ledger := &fakeLedger{txs: weeklyLedger(5, func(int) int64 { return 10_00 })}
	svc := NewForecastService(ledger, forecast.NewEngine(), nil)

	_, err := svc.ComputeForecast(context.Background())

	var insufficient *forecast.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 5, insufficient.CurrentWeeks)
}

func TestComputeForecastLedgerError(t *testing.T) {
	wantErr := errors.New("disk on fire")
	svc := NewForecastService(&fakeLedger{err: wantErr}, forecast.NewEngine(), nil)

	_, err := svc.ComputeForecast(context.Background())
	require.ErrorIs(t, err, wantErr)
}

func TestComputeForecastHappyPath(t *testing.T) {
	ledger := &fakeLedger{txs: weeklyLedger(16, func(i int) int64 {
		return int64(100_00 + 2_00*i)
	})}
	svc := NewForecastService(ledger, forecast.NewEngine(), nil)

	result, err := svc.ComputeForecast(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "4 weeks", result.ForecastPeriod)
	assert.Equal(t, forecast.ModelName, result.Model)
	assert.Equal(t, 16, result.DataPointsUsed)
	require.Len(t, result.Timeline, 4)

	// Timeline points are exactly 7 days apart, starting 7 days after the
	// last historical week start (2025-04-21 for 16 weeks from 2025-01-06).
	last := time.Date(2025, 4, 21, 0, 0, 0, 0, time.UTC)
	for h, p := range result.Timeline {
		assert.Equal(t, last.AddDate(0, 0, 7*(h+1)).Format("2006-01-02"), p.Date)
		assert.Equal(t, core.Round2(p.Amount), p.Amount)
	}

	// Pie values approximately sum to the total forecast.
	var pieSum float64
	for _, v := range result.Pie {
		pieSum += v
	}
	assert.LessOrEqual(t, math.Abs(pieSum-result.TotalForecast), float64(len(result.Pie))*0.005)
}

func TestComputeForecastDeterministic(t *testing.T) {
	ledger := &fakeLedger{txs: weeklyLedger(12, func(i int) int64 {
		return int64(80_00 + 3_00*i)
	})}
	svc := NewForecastService(ledger, forecast.NewEngine(), nil)

	first, err := svc.ComputeForecast(context.Background())
	require.NoError(t, err)
	second, err := svc.ComputeForecast(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.TotalForecast, second.TotalForecast)
	assert.Equal(t, first.Timeline, second.Timeline)
	assert.Equal(t, first.Pie, second.Pie)
	assert.Equal(t, 2, ledger.calls, "each request reads a fresh snapshot")
}

func TestComputeForecastFittingErrorPropagates(t *testing.T) {
	ledger := &fakeLedger{txs: weeklyLedger(10, func(int) int64 { return 10_00 })}
	engine := engineFunc(func(timeseries.Series) (timeseries.Series, error) {
		return nil, &forecast.FittingError{Diagnostic: "no convergence"}
	})
	svc := NewForecastService(ledger, engine, nil)

	_, err := svc.ComputeForecast(context.Background())

	var fitting *forecast.FittingError
	require.ErrorAs(t, err, &fitting)
	assert.Equal(t, "no convergence", fitting.Diagnostic)
}

func TestComputeForecastRecoversPanic(t *testing.T) {
	ledger := &fakeLedger{txs: weeklyLedger(10, func(int) int64 { return 10_00 })}
	engine := engineFunc(func(timeseries.Series) (timeseries.Series, error) {
		panic("index out of range")
	})
	svc := NewForecastService(ledger, engine, nil)

	result, err := svc.ComputeForecast(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "forecast computation failed")
}

func TestForecastServiceClose(t *testing.T) {
	svc := NewForecastService(&fakeLedger{}, nil, nil)
	assert.NoError(t, svc.Close())
}
