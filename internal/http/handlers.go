package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"spendcast/internal/core"
	"spendcast/internal/forecast"
)

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleForecast runs the forecasting pipeline and maps each error kind of
// the core onto an HTTP status: capability missing is 503, data problems
// and fitting failures are 400, anything unexpected is 500.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		NewJSONResponse(nil).Status(http.StatusMethodNotAllowed).Header("Allow", "GET").Write(w)
		return
	}

	result, err := s.forecaster.ComputeForecast(r.Context())
	if err != nil {
		writeForecastError(r.Context(), w, err)
		return
	}

	NewJSONResponse(result).Write(w)
}

func writeForecastError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		insufficient *forecast.InsufficientDataError
		quality      *forecast.PoorDataQualityError
		fitting      *forecast.FittingError
	)

	switch {
	case errors.Is(err, forecast.ErrUnavailable):
		ErrorResponse(http.StatusServiceUnavailable, "Forecasting not available",
			"The forecasting model is not enabled in this deployment").Write(w)

	case errors.As(err, &insufficient):
		NewJSONResponse(apiError{
			Error:         "Insufficient data",
			Message:       "Need at least 8 weeks of transaction history",
			CurrentWeeks:  &insufficient.CurrentWeeks,
			RequiredWeeks: &insufficient.RequiredWeeks,
		}).Status(http.StatusBadRequest).Write(w)

	case errors.As(err, &quality):
		NewJSONResponse(apiError{
			Error:          "Data quality issue",
			Message:        "Too many weeks without transactions. Add more data.",
			ZeroPercentage: &quality.ZeroPercentage,
		}).Status(http.StatusBadRequest).Write(w)

	case errors.As(err, &fitting):
		NewJSONResponse(apiError{
			Error:   "Model fitting failed",
			Message: "Data might not have enough variation or clear seasonal pattern",
			Details: fitting.Diagnostic,
		}).Status(http.StatusBadRequest).Write(w)

	default:
		slog.ErrorContext(ctx, "Forecast request failed", "error", err)
		ErrorResponse(http.StatusInternalServerError, "Forecasting failed", err.Error()).Write(w)
	}
}

// statsPayload is the wire shape of /api/stats.
type statsPayload struct {
	Total       float64 `json:"total"`
	Average     float64 `json:"average"`
	Count       int     `json:"count"`
	TopCategory string  `json:"top_category"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		NewJSONResponse(nil).Status(http.StatusMethodNotAllowed).Header("Allow", "GET").Write(w)
		return
	}

	stats, ok := s.statsCache.Get("stats")
	if !ok {
		ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
		defer cancel()

		txs, err := s.ledger.ListTransactions(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list transactions for stats", "error", err)
			ErrorResponse(http.StatusInternalServerError, "Internal server error", "").Write(w)
			return
		}
		stats = core.Summarize(txs)
		s.statsCache.Set("stats", stats)
	}

	NewJSONResponse(statsPayload{
		Total:       stats.Total,
		Average:     stats.Average,
		Count:       stats.Count,
		TopCategory: stats.TopCategory,
	}).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		NewJSONResponse(nil).Status(http.StatusMethodNotAllowed).Header("Allow", "GET").Write(w)
		return
	}

	NewJSONResponse(map[string][]string{"categories": core.Categories()}).Write(w)
}
