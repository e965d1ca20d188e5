package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"spendcast/internal/amqp"
	"spendcast/internal/core"
	"spendcast/internal/forecast"
	"spendcast/internal/ledger"
	"spendcast/internal/timeseries"
)

// Engine is the fitted-model capability the assembler depends on. A nil
// engine means forecasting is not available in this runtime; the service
// reports that without touching the ledger.
type Engine interface {
	Forecast(s timeseries.Series) (timeseries.Series, error)
}

// ForecastService orchestrates the forecasting pipeline: ledger snapshot,
// weekly series, model fit and category projection. Each call is stateless
// and synchronous; nothing is cached between requests.
type ForecastService struct {
	ledger     ledger.Reader
	engine     Engine
	amqpClient *amqp.Client
}

func NewForecastService(reader ledger.Reader, engine Engine, amqpClient *amqp.Client) *ForecastService {
	return &ForecastService{
		ledger:     reader,
		engine:     engine,
		amqpClient: amqpClient,
	}
}

// ComputeForecast reads the full ledger, fits the seasonal model on the
// weekly series and redistributes the predicted total across categories by
// historical share. Any precondition or fitting failure aborts with a
// typed error; no partial forecast is ever returned.
func (s *ForecastService) ComputeForecast(ctx context.Context) (result *forecast.Result, err error) {
	if s.engine == nil {
		return nil, forecast.ErrUnavailable
	}

	// A numerical fault must fail the request, never the process.
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Forecast computation panicked", "panic", r)
			result, err = nil, fmt.Errorf("forecast computation failed: %v", r)
		}
	}()

	txs, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	weekly := timeseries.Weekly(txs)
	if err := forecast.Validate(weekly); err != nil {
		return nil, err
	}

	// The fit is CPU-bound; category shares come from the raw history,
	// independent of the fitted series, so both run concurrently.
	var (
		predicted timeseries.Series
		shares    map[string]float64
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var ferr error
		predicted, ferr = s.engine.Forecast(weekly)
		return ferr
	})
	g.Go(func() error {
		shares = forecast.CategoryShares(txs)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total float64
	timeline := make([]forecast.TimelinePoint, 0, len(predicted))
	for _, p := range predicted {
		total += p.Value
		timeline = append(timeline, forecast.TimelinePoint{
			Date:   p.Date.Format("2006-01-02"),
			Amount: core.Round2(p.Value),
		})
	}
	total = core.Round2(total)

	out := &forecast.Result{
		TotalForecast:  total,
		ForecastPeriod: fmt.Sprintf("%d weeks", forecast.Horizon),
		Pie:            forecast.ProjectCategories(shares, total),
		Timeline:       timeline,
		Model:          forecast.ModelName,
		DataPointsUsed: weekly.Len(),
	}

	s.publishComputed(ctx, out)

	return out, nil
}

// publishComputed emits the forecast-computed event when AMQP is wired.
// Publishing is best-effort: the forecast already succeeded.
func (s *ForecastService) publishComputed(ctx context.Context, r *forecast.Result) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishForecastComputed(ctx, r.TotalForecast, r.DataPointsUsed); err != nil {
		slog.ErrorContext(ctx, "Failed to publish forecast computed event", "error", err)
	}
}

// Close releases the AMQP connection if one was wired.
func (s *ForecastService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp client: %w", err)
		}
	}
	return nil
}
