package forecast

// TimelinePoint is one predicted future period.
type TimelinePoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// Result is the complete forecast response shape.
type Result struct {
	TotalForecast  float64            `json:"total_forecast"`
	ForecastPeriod string             `json:"forecast_period"`
	Pie            map[string]float64 `json:"pie"`
	Timeline       []TimelinePoint    `json:"timeline"`
	Model          string             `json:"model"`
	DataPointsUsed int                `json:"data_points_used"`
}
