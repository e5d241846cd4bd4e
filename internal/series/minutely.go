package series

import (
	"math"
	"time"

	"github.com/jgoulah/wattcast/pkg/models"
)

// DefaultInterval is the sampling interval of the reading logs
const DefaultInterval = 5 * time.Minute

// Minutely is a regular time grid of per-device power in watts. Absent
// samples hold NaN; use Present to test for them.
type Minutely struct {
	schema   *Schema
	interval time.Duration
	times    []time.Time
	values   [][]float64
}

// NewMinutely wraps rows of power values. Each row must have one value per
// schema column.
func NewMinutely(schema *Schema, interval time.Duration, times []time.Time, values [][]float64) *Minutely {
	return &Minutely{schema: schema, interval: interval, times: times, values: values}
}

// Schema returns the device column layout
func (m *Minutely) Schema() *Schema { return m.schema }

// Interval returns the sampling interval
func (m *Minutely) Interval() time.Duration { return m.interval }

// Len returns the number of rows
func (m *Minutely) Len() int { return len(m.times) }

// Time returns the timestamp of row i
func (m *Minutely) Time(i int) time.Time { return m.times[i] }

// Times returns a copy of the time index
func (m *Minutely) Times() []time.Time {
	return append([]time.Time(nil), m.times...)
}

// Value returns the power of column col at row i, NaN when absent
func (m *Minutely) Value(i, col int) float64 { return m.values[i][col] }

// Present reports whether column col has a reading at row i
func (m *Minutely) Present(i, col int) bool { return !math.IsNaN(m.values[i][col]) }

// Row returns a copy of row i
func (m *Minutely) Row(i int) []float64 {
	return append([]float64(nil), m.values[i]...)
}

// Total returns the sum of the present values of row i
func (m *Minutely) Total(i int) float64 {
	return sumPresent(m.values[i])
}

// Start returns the first timestamp
func (m *Minutely) Start() (time.Time, bool) {
	if len(m.times) == 0 {
		return time.Time{}, false
	}
	return m.times[0], true
}

// End returns the last timestamp
func (m *Minutely) End() (time.Time, bool) {
	if len(m.times) == 0 {
		return time.Time{}, false
	}
	return m.times[len(m.times)-1], true
}

// Series extracts one device's values. The aggregate yields row totals.
func (m *Minutely) Series(d models.Device) ([]float64, bool) {
	if d.IsZero() {
		return nil, false
	}
	out := make([]float64, len(m.times))
	if d.IsAggregate() {
		for i := range m.values {
			out[i] = m.Total(i)
		}
		return out, true
	}
	col, ok := m.schema.Index(d.ID())
	if !ok {
		return nil, false
	}
	for i := range m.values {
		out[i] = m.values[i][col]
	}
	return out, true
}

func sumPresent(row []float64) float64 {
	var total float64
	for _, v := range row {
		if !math.IsNaN(v) {
			total += v
		}
	}
	return total
}
