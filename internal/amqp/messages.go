package amqp

import (
	"encoding/json"
	"time"
)

// ForecastComputedMessage announces that a forecast was produced, so
// downstream consumers (dashboards, alerting) can react without polling.
type ForecastComputedMessage struct {
	TotalForecast  float64   `json:"total_forecast"`
	DataPointsUsed int       `json:"data_points_used"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewForecastComputedMessage creates an event for a completed forecast.
func NewForecastComputedMessage(total float64, dataPoints int) *ForecastComputedMessage {
	return &ForecastComputedMessage{
		TotalForecast:  total,
		DataPointsUsed: dataPoints,
		Timestamp:      time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ForecastComputedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ForecastComputedMessageFromJSON creates a message from JSON bytes.
func ForecastComputedMessageFromJSON(data []byte) (*ForecastComputedMessage, error) {
	var msg ForecastComputedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
