// Package usage reduces energy matrices into per-device kWh and price
// summaries.
package usage

import (
	"errors"
	"math"
	"time"

	"github.com/jgoulah/wattcast/internal/series"
	"github.com/jgoulah/wattcast/pkg/models"
)

// ErrInvalidPrice is returned for a non-positive price per kWh
var ErrInvalidPrice = errors.New("usage: price per kWh must be positive")

// TotalPerDevice sums each device column of d over the whole range
func TotalPerDevice(d *series.Daily, pricePerKWh float64) ([]models.UsageSummary, error) {
	if pricePerKWh <= 0 {
		return nil, ErrInvalidPrice
	}

	schema := d.Schema()
	out := make([]models.UsageSummary, 0, schema.Len())
	for col := 0; col < schema.Len(); col++ {
		dev := models.DeviceID(schema.ID(col))
		kwh, _ := d.DeviceTotal(dev)
		out = append(out, models.UsageSummary{
			Device: dev,
			KWh:    kwh,
			Price:  kwh * pricePerKWh,
		})
	}
	return out, nil
}

// GrandTotal sums all devices over all days
func GrandTotal(d *series.Daily, pricePerKWh float64) (kwh, price float64, err error) {
	if pricePerKWh <= 0 {
		return 0, 0, ErrInvalidPrice
	}
	kwh, _ = d.DeviceTotal(models.AggregateAll)
	return kwh, kwh * pricePerKWh, nil
}

// Sum adds up the kWh and price of summaries
func Sum(summaries []models.UsageSummary) (kwh, price float64) {
	for _, s := range summaries {
		kwh += s.KWh
		price += s.Price
	}
	return kwh, price
}

// DaysRemaining returns the days left in t's month, counting t's day of the
// month as elapsed. It never goes below zero.
func DaysRemaining(t time.Time) float64 {
	daysInMonth := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	current := float64(t.Day()) + float64(t.Hour())/24 + float64(t.Minute())/1440
	return math.Max(0, float64(daysInMonth)-current)
}

// ProjectMonth adds projected kWh to the usage observed so far, per device.
// Devices absent from the projection are skipped, as is the aggregate.
func ProjectMonth(d *series.Daily, projected map[models.Device]float64, pricePerKWh float64) ([]models.UsageSummary, error) {
	observed, err := TotalPerDevice(d, pricePerKWh)
	if err != nil {
		return nil, err
	}

	out := make([]models.UsageSummary, 0, len(observed))
	for _, s := range observed {
		extra, ok := projected[s.Device]
		if !ok {
			continue
		}
		kwh := s.KWh + extra
		out = append(out, models.UsageSummary{Device: s.Device, KWh: kwh, Price: kwh * pricePerKWh})
	}
	return out, nil
}
