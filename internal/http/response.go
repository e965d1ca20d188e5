// Package http serves the JSON API: forecast, ledger stats and the
// category list.
//
// This file implements a small builder for JSON responses so handlers
// produce consistent bodies and headers.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSONResponse provides a fluent API for building JSON responses.
type JSONResponse struct {
	statusCode int
	payload    any
	headers    map[string]string
}

// NewJSONResponse creates a response builder with default 200 status.
func NewJSONResponse(payload any) *JSONResponse {
	return &JSONResponse{
		statusCode: http.StatusOK,
		payload:    payload,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponse) Status(code int) *JSONResponse {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponse) Header(name, value string) *JSONResponse {
	b.headers[name] = value
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponse) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)

	if b.payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(b.payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// apiError is the standard error body: a machine-readable error label, a
// human-readable message, and optional detail fields.
type apiError struct {
	Error          string   `json:"error"`
	Message        string   `json:"message,omitempty"`
	Details        string   `json:"details,omitempty"`
	CurrentWeeks   *int     `json:"current_weeks,omitempty"`
	RequiredWeeks  *int     `json:"required_weeks,omitempty"`
	ZeroPercentage *float64 `json:"zero_percentage,omitempty"`
}

// ErrorResponse creates a standard error response.
func ErrorResponse(statusCode int, errLabel, message string) *JSONResponse {
	return NewJSONResponse(apiError{Error: errLabel, Message: message}).Status(statusCode)
}
