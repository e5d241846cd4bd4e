// Package forecast projects household energy use forward, either by
// extrapolating historical daily means or by running a pretrained model.
package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/jgoulah/wattcast/internal/series"
	"github.com/jgoulah/wattcast/pkg/models"
)

// Projection maps devices to projected kWh. It always carries AggregateAll.
type Projection map[models.Device]float64

// AverageForecaster extrapolates each device's mean daily kWh linearly. It
// has no notion of trend or seasonality.
type AverageForecaster struct {
	means   map[models.Device]float64
	devices []models.Device
}

// NewAverageForecaster returns an unfitted forecaster
func NewAverageForecaster() *AverageForecaster {
	return &AverageForecaster{}
}

// Fit computes the mean kWh per day of every device over the days it has
// data. Devices without any day are left out.
func (f *AverageForecaster) Fit(d *series.Daily) *AverageForecaster {
	schema := d.Schema()
	f.means = make(map[models.Device]float64, schema.Len())
	f.devices = f.devices[:0]
	for col := 0; col < schema.Len(); col++ {
		values := d.ColumnValues(col)
		if len(values) == 0 {
			continue
		}
		dev := models.DeviceID(schema.ID(col))
		f.means[dev] = stat.Mean(values, nil)
		f.devices = append(f.devices, dev)
	}
	return f
}

// Fitted reports whether Fit has been called
func (f *AverageForecaster) Fitted() bool { return f.means != nil }

// Mean returns the fitted daily mean of a real device
func (f *AverageForecaster) Mean(d models.Device) (float64, bool) {
	v, ok := f.means[d]
	return v, ok
}

// TotalDailyAverage returns the sum of all device means, 0 when unfitted
func (f *AverageForecaster) TotalDailyAverage() float64 {
	var total float64
	for _, v := range f.means {
		total += v
	}
	return total
}

// Predict projects each device over days, which may be fractional
func (f *AverageForecaster) Predict(days float64) (Projection, error) {
	if !f.Fitted() {
		return nil, fmt.Errorf("average forecaster not fit: %w", models.ErrForecastUnavailable)
	}

	out := make(Projection, len(f.means)+1)
	var total float64
	for _, dev := range f.devices {
		v := f.means[dev] * days
		out[dev] = v
		total += v
	}
	out[models.AggregateAll] = total
	return out, nil
}

// Devices returns the fitted devices in schema order
func (f *AverageForecaster) Devices() []models.Device {
	return append([]models.Device(nil), f.devices...)
}
