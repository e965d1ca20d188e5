// Package timeseries turns an irregular stream of dated transactions into
// regular numeric series ready for model fitting. All transforms are pure:
// they take a Series value and return a new one.
package timeseries

import (
	"sort"
	"time"

	"spendcast/internal/core"
)

// Point is one dated observation.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is an ordered sequence of observations, ascending by date.
type Series []Point

// Len reports the number of observations.
func (s Series) Len() int { return len(s) }

// Last returns the final observation. Callers must check Len first.
func (s Series) Last() Point { return s[len(s)-1] }

// Values returns the observation values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// ZeroFraction returns the fraction of observations that are exactly zero.
// Returns 0 for an empty series.
func (s Series) ZeroFraction() float64 {
	if len(s) == 0 {
		return 0
	}
	zeros := 0
	for _, p := range s {
		if p.Value == 0 {
			zeros++
		}
	}
	return float64(zeros) / float64(len(s))
}

// WeekStart returns the Monday of t's ISO week, at midnight UTC.
func WeekStart(t time.Time) time.Time {
	daysFromMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-daysFromMonday, 0, 0, 0, 0, time.UTC)
}

// Weekly groups transactions by ISO week and sums amounts per week, indexed
// by each week's start date. Weeks with no transactions are absent from the
// result; the forecast engine's quality gate only sees weeks that are
// present.
func Weekly(txs []core.Transaction) Series {
	return grouped(txs, func(t time.Time) time.Time { return WeekStart(t) })
}

// Daily groups transactions by calendar date, sums amounts per day, and
// reindexes over the contiguous range from the earliest to the latest
// observed date, filling missing days with 0. Returns the empty series for
// an empty ledger.
func Daily(txs []core.Transaction) Series {
	s := grouped(txs, func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	})
	if len(s) == 0 {
		return s
	}

	byDate := make(map[time.Time]float64, len(s))
	for _, p := range s {
		byDate[p.Date] = p.Value
	}

	var out Series
	for d := s[0].Date; !d.After(s.Last().Date); d = d.AddDate(0, 0, 1) {
		out = append(out, Point{Date: d, Value: byDate[d]})
	}
	return out
}

// FillGaps treats exact-zero values as missing observations rather than
// genuine zero-spend periods and imputes them from local context: first a
// centered rolling mean over the given window (clipped at the boundaries,
// minimum one sample), then the mean of all observed values for anything
// the rolling pass could not resolve. Imputation reads only the original
// observed values, never previously imputed ones.
func FillGaps(s Series, window int) Series {
	if len(s) == 0 || window < 1 {
		return s
	}

	observed := make([]bool, len(s))
	var sum float64
	var n int
	for i, p := range s {
		if p.Value != 0 {
			observed[i] = true
			sum += p.Value
			n++
		}
	}
	globalMean := 0.0
	if n > 0 {
		globalMean = sum / float64(n)
	}

	half := window / 2
	out := make(Series, len(s))
	copy(out, s)
	for i := range out {
		if observed[i] {
			continue
		}
		lo := max(0, i-half)
		hi := min(len(s)-1, i+half)
		var wsum float64
		var wn int
		for j := lo; j <= hi; j++ {
			if observed[j] {
				wsum += s[j].Value
				wn++
			}
		}
		if wn > 0 {
			out[i].Value = wsum / float64(wn)
		} else {
			out[i].Value = globalMean
		}
	}
	return out
}

func grouped(txs []core.Transaction, bucket func(time.Time) time.Time) Series {
	sums := make(map[time.Time]float64)
	for _, tx := range txs {
		sums[bucket(tx.Date.Time)] += tx.Amount.Units()
	}

	out := make(Series, 0, len(sums))
	for d, v := range sums {
		out = append(out, Point{Date: d, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
