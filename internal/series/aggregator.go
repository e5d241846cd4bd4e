package series

import (
	"fmt"
	"math"
	"time"

	"github.com/jgoulah/wattcast/pkg/models"
)

// FillPolicy decides what an absent sample on the grid holds
type FillPolicy int

const (
	// FillMissing keeps absent samples as NaN
	FillMissing FillPolicy = iota
	// FillZero treats absent samples as 0 W
	FillZero
	// FillPrevious carries the device's last reading forward
	FillPrevious
)

// ParseFillPolicy parses the config spelling of a policy
func ParseFillPolicy(s string) (FillPolicy, error) {
	switch s {
	case "", "missing":
		return FillMissing, nil
	case "zero":
		return FillZero, nil
	case "previous":
		return FillPrevious, nil
	default:
		return FillMissing, fmt.Errorf("unknown fill policy: %s (available: missing, zero, previous)", s)
	}
}

func (p FillPolicy) String() string {
	switch p {
	case FillZero:
		return "zero"
	case FillPrevious:
		return "previous"
	default:
		return "missing"
	}
}

// Aggregator turns a month of readings into minutely and daily matrices
type Aggregator struct {
	Interval time.Duration
	Fill     FillPolicy
}

// NewAggregator returns an aggregator for the given sampling interval
func NewAggregator(interval time.Duration, fill FillPolicy) Aggregator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Aggregator{Interval: interval, Fill: fill}
}

// FilterMonth keeps the readings of one calendar month
func FilterMonth(readings []models.Reading, year int, month time.Month) []models.Reading {
	var out []models.Reading
	for _, r := range readings {
		if r.Timestamp.Year() == year && r.Timestamp.Month() == month {
			out = append(out, r)
		}
	}
	return out
}

// ToMinutely pivots readings into one column per device on a regular grid
// from the first to the last observed slot. Timestamps are truncated to the
// interval; of two readings in one slot the later one wins.
func (a Aggregator) ToMinutely(readings []models.Reading) *Minutely {
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, r := range readings {
		if !seen[r.DeviceID] {
			seen[r.DeviceID] = true
			ids = append(ids, r.DeviceID)
		}
	}
	schema := NewSchema(ids)

	if len(readings) == 0 {
		return NewMinutely(schema, a.Interval, nil, nil)
	}

	first := readings[0].Timestamp.Truncate(a.Interval)
	last := first
	for _, r := range readings {
		slot := r.Timestamp.Truncate(a.Interval)
		if slot.Before(first) {
			first = slot
		}
		if slot.After(last) {
			last = slot
		}
	}

	n := int(last.Sub(first)/a.Interval) + 1
	times := make([]time.Time, n)
	values := make([][]float64, n)
	for i := range times {
		times[i] = first.Add(time.Duration(i) * a.Interval)
		row := make([]float64, schema.Len())
		for c := range row {
			row[c] = math.NaN()
		}
		values[i] = row
	}

	for _, r := range readings {
		i := int(r.Timestamp.Truncate(a.Interval).Sub(first) / a.Interval)
		col, _ := schema.Index(r.DeviceID)
		values[i][col] = r.PowerW()
	}

	a.fill(values)
	return NewMinutely(schema, a.Interval, times, values)
}

func (a Aggregator) fill(values [][]float64) {
	switch a.Fill {
	case FillZero:
		for _, row := range values {
			for c, v := range row {
				if math.IsNaN(v) {
					row[c] = 0
				}
			}
		}
	case FillPrevious:
		// leading gaps have nothing to carry and stay missing
		if len(values) == 0 {
			return
		}
		for c := range values[0] {
			prev := math.NaN()
			for _, row := range values {
				if math.IsNaN(row[c]) {
					row[c] = prev
				} else {
					prev = row[c]
				}
			}
		}
	}
}

// ToDaily sums each device's power per calendar day and converts it to kWh.
func (a Aggregator) ToDaily(m *Minutely) *Daily {
	interval := m.Interval()
	if interval <= 0 {
		interval = a.Interval
	}
	cols := m.Schema().Len()

	var dates []time.Time
	var values [][]float64
	for i := 0; i < m.Len(); i++ {
		day := Day(m.Time(i))
		if len(dates) == 0 || !dates[len(dates)-1].Equal(day) {
			dates = append(dates, day)
			row := make([]float64, cols)
			for c := range row {
				row[c] = math.NaN()
			}
			values = append(values, row)
		}
		row := values[len(values)-1]
		for c := 0; c < cols; c++ {
			if !m.Present(i, c) {
				continue
			}
			if math.IsNaN(row[c]) {
				row[c] = 0
			}
			row[c] += m.Value(i, c)
		}
	}

	for _, row := range values {
		for c, v := range row {
			if !math.IsNaN(v) {
				row[c] = EnergyKWh(v, interval)
			}
		}
	}

	return NewDaily(m.Schema(), dates, values)
}
