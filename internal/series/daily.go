package series

import (
	"math"
	"time"

	"github.com/jgoulah/wattcast/pkg/models"
)

// Daily holds per-device energy in kWh for each calendar day. A device-day
// without any present sample is NaN.
type Daily struct {
	schema *Schema
	dates  []time.Time
	values [][]float64
}

// NewDaily wraps rows of per-device kWh values
func NewDaily(schema *Schema, dates []time.Time, values [][]float64) *Daily {
	return &Daily{schema: schema, dates: dates, values: values}
}

// Schema returns the device column layout
func (d *Daily) Schema() *Schema { return d.schema }

// Len returns the number of days
func (d *Daily) Len() int { return len(d.dates) }

// Date returns the day of row i at midnight
func (d *Daily) Date(i int) time.Time { return d.dates[i] }

// Value returns the kWh of column col on row i, NaN when absent
func (d *Daily) Value(i, col int) float64 { return d.values[i][col] }

// Present reports whether column col has data on row i
func (d *Daily) Present(i, col int) bool { return !math.IsNaN(d.values[i][col]) }

// Total returns the kWh of all devices on row i
func (d *Daily) Total(i int) float64 { return sumPresent(d.values[i]) }

// ColumnValues returns the present values of column col
func (d *Daily) ColumnValues(col int) []float64 {
	out := make([]float64, 0, len(d.values))
	for _, row := range d.values {
		if !math.IsNaN(row[col]) {
			out = append(out, row[col])
		}
	}
	return out
}

// DeviceTotal returns the kWh of d across all days
func (d *Daily) DeviceTotal(dev models.Device) (float64, bool) {
	if dev.IsAggregate() {
		var total float64
		for i := range d.values {
			total += d.Total(i)
		}
		return total, true
	}
	col, ok := d.schema.Index(dev.ID())
	if !ok {
		return 0, false
	}
	var total float64
	for _, v := range d.ColumnValues(col) {
		total += v
	}
	return total, true
}

// EnergyKWh converts a sum of power samples taken every interval into kWh
func EnergyKWh(powerSumW float64, interval time.Duration) float64 {
	return powerSumW * interval.Minutes() / 60 / 1000
}

// Day truncates t to midnight in its own location
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
