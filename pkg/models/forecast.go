package models

import "time"

// Forecast run kinds
const (
	RunAverage = "average"
	RunModel   = "model"
)

// ForecastRun records one forecast request and its month totals
type ForecastRun struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Kind       string    `json:"kind"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	Device     string    `json:"device"`
	Samples    int       `json:"samples"` // horizon in samples, 0 for average runs
	TotalKWh   float64   `json:"total_kwh"`
	TotalPrice float64   `json:"total_price"`
}
