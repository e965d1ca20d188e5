// Package forecast fits a seasonal exponential-smoothing model to weekly
// spending and projects it a short horizon into the future.
package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"spendcast/internal/timeseries"
)

const (
	// ModelName is the descriptive label exposed in forecast results.
	ModelName = "Holt-Winters Exponential Smoothing"

	// Horizon is the number of future weekly periods predicted per fit.
	Horizon = 4

	// MinWeeks is the minimum number of weekly data points required.
	MinWeeks = 8

	// MaxZeroFraction is the largest tolerated share of exact-zero weeks.
	MaxZeroFraction = 0.5
)

// Validate applies the data-sufficiency and data-quality gates to a weekly
// series. It returns an InsufficientDataError or PoorDataQualityError, or
// nil when the series is fit for modeling.
func Validate(s timeseries.Series) error {
	if s.Len() < MinWeeks {
		return &InsufficientDataError{CurrentWeeks: s.Len(), RequiredWeeks: MinWeeks}
	}
	if zf := s.ZeroFraction(); zf > MaxZeroFraction {
		return &PoorDataQualityError{ZeroPercentage: round1(zf * 100)}
	}
	return nil
}

// SeasonalPeriods returns the seasonal cycle length for a series of n
// points: half the series length, capped at 4 so the model is never
// over-parameterized relative to available history.
func SeasonalPeriods(n int) int {
	m := n / 2
	if m > 4 {
		m = 4
	}
	return m
}

// Engine fits an additive-trend, additive-seasonal Holt-Winters model.
// The smoothing parameters are chosen per fit by a Nelder-Mead search over
// the one-step-ahead squared error, so a fit is deterministic for a given
// input series.
type Engine struct{}

// NewEngine returns a ready-to-use engine. Engines are stateless; a single
// instance may serve concurrent fits.
func NewEngine() *Engine {
	return &Engine{}
}

// Forecast fits the model on the weekly series and returns exactly Horizon
// predicted points, spaced one week apart starting one week after the last
// observed week start. Callers are expected to run Validate first; the
// engine re-checks only what it needs to stay numerically safe.
func (e *Engine) Forecast(s timeseries.Series) (timeseries.Series, error) {
	n := s.Len()
	if n < MinWeeks {
		return nil, &InsufficientDataError{CurrentWeeks: n, RequiredWeeks: MinWeeks}
	}

	vals := s.Values()
	m := SeasonalPeriods(n)

	fit, err := fitHoltWinters(vals, m)
	if err != nil {
		return nil, err
	}

	out := make(timeseries.Series, 0, Horizon)
	last := s.Last().Date
	for h := 1; h <= Horizon; h++ {
		v := fit.level + float64(h)*fit.trend + fit.seasonal[(n+h-1)%m]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &FittingError{Diagnostic: fmt.Sprintf("non-finite prediction at step %d", h)}
		}
		out = append(out, timeseries.Point{Date: last.AddDate(0, 0, 7*h), Value: v})
	}
	return out, nil
}

// hwState carries the smoothed components after a full pass over the data.
type hwState struct {
	level    float64
	trend    float64
	seasonal []float64
	sse      float64
}

// smooth runs the additive Holt-Winters recursions over vals with the given
// smoothing parameters and seasonal length m, returning the final state and
// the one-step-ahead sum of squared errors.
func smooth(vals []float64, m int, alpha, beta, gamma float64) hwState {
	n := len(vals)

	// Estimated initialization: level from the first season's mean, trend
	// from the slope between the first two seasons, seasonal factors as
	// deviations from the initial level.
	level := mean(vals[:m])
	var trend float64
	if n >= 2*m {
		trend = (mean(vals[m:2*m]) - level) / float64(m)
	} else {
		trend = (vals[n-1] - vals[0]) / float64(n-1)
	}
	seasonal := make([]float64, m)
	for i := 0; i < m; i++ {
		seasonal[i] = vals[i] - level
	}

	var sse float64
	for t, v := range vals {
		sPrev := seasonal[t%m]
		fitted := level + trend + sPrev
		resid := v - fitted
		sse += resid * resid

		newLevel := alpha*(v-sPrev) + (1-alpha)*(level+trend)
		newTrend := beta*(newLevel-level) + (1-beta)*trend
		seasonal[t%m] = gamma*(v-level-trend) + (1-gamma)*sPrev
		level, trend = newLevel, newTrend
	}

	return hwState{level: level, trend: trend, seasonal: seasonal, sse: sse}
}

// fitHoltWinters optimizes alpha, beta and gamma with Nelder-Mead on the
// one-step SSE. The parameters live in (0,1); the search runs in an
// unconstrained space through a logistic transform.
func fitHoltWinters(vals []float64, m int) (hwState, error) {
	objective := func(x []float64) float64 {
		st := smooth(vals, m, logistic(x[0]), logistic(x[1]), logistic(x[2]))
		if math.IsNaN(st.sse) || math.IsInf(st.sse, 0) {
			return math.MaxFloat64
		}
		return st.sse
	}

	problem := optimize.Problem{Func: objective}
	x0 := []float64{logit(0.3), logit(0.1), logit(0.1)}

	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if result == nil || len(result.X) != 3 {
		if err != nil {
			return hwState{}, &FittingError{Diagnostic: err.Error()}
		}
		return hwState{}, &FittingError{Diagnostic: "optimizer returned no solution"}
	}
	// Some terminations (e.g. no further progress on a flat error surface)
	// still carry a usable parameter set; only a non-finite objective means
	// the fit is unusable.
	if err != nil && (math.IsNaN(result.F) || math.IsInf(result.F, 0)) {
		return hwState{}, &FittingError{Diagnostic: err.Error()}
	}

	st := smooth(vals, m, logistic(result.X[0]), logistic(result.X[1]), logistic(result.X[2]))
	if math.IsNaN(st.sse) || math.IsInf(st.sse, 0) {
		return hwState{}, &FittingError{Diagnostic: "degenerate fit: non-finite squared error"}
	}
	return st, nil
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
