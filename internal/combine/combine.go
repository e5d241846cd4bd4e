// Package combine splices historical and forecast power series of one device
// for inspection and rolls them up into daily energy.
package combine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jgoulah/wattcast/internal/series"
	"github.com/jgoulah/wattcast/pkg/models"
)

// ErrUnknownDevice is returned when the selected device is not in the series
var ErrUnknownDevice = errors.New("combine: unknown device")

// Row is one sample of the combined series. PowerW is NaN for an absent
// historical sample.
type Row struct {
	Time   time.Time
	Device models.Device
	PowerW float64
	Source models.Source
}

// Series is a device's historical rows followed by its forecast rows
type Series struct {
	Device   models.Device
	Interval time.Duration
	Rows     []Row
}

// Len returns the number of rows
func (s *Series) Len() int { return len(s.Rows) }

// Count returns the number of rows from src
func (s *Series) Count(src models.Source) int {
	n := 0
	for _, r := range s.Rows {
		if r.Source == src {
			n++
		}
	}
	return n
}

// Combine extracts sel from both series and concatenates them, historical
// rows first.
func Combine(future, historical *series.Minutely, sel models.Device) (*Series, error) {
	if sel.IsZero() {
		return nil, fmt.Errorf("no device selected: %w", models.ErrSelectionIncomplete)
	}
	if future == nil {
		return nil, fmt.Errorf("no forecast: %w", models.ErrForecastUnavailable)
	}

	past, ok := historical.Series(sel)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, sel)
	}
	ahead, ok := future.Series(sel)
	if !ok {
		return nil, fmt.Errorf("%w in forecast: %s", ErrUnknownDevice, sel)
	}

	out := &Series{
		Device:   sel,
		Interval: historical.Interval(),
		Rows:     make([]Row, 0, len(past)+len(ahead)),
	}
	for i, v := range past {
		out.Rows = append(out.Rows, Row{Time: historical.Time(i), Device: sel, PowerW: v, Source: models.Historical})
	}
	for i, v := range ahead {
		out.Rows = append(out.Rows, Row{Time: future.Time(i), Device: sel, PowerW: v, Source: models.Forecast})
	}
	return out, nil
}

// DailyRow is one day of a rolled-up combined series. Anchor marks the
// duplicated last historical day that joins the two lines in a chart; it
// is never part of a total.
type DailyRow struct {
	Date     time.Time
	Device   models.Device
	UsageKWh float64
	Source   models.Source
	Anchor   bool
}

// DailyRollup sums power per calendar day into kWh. A day takes the source
// of its last row, so a day split by the boundary counts as Forecast. The
// last Historical day is repeated as a Forecast anchor on the same date.
func DailyRollup(s *Series) []DailyRow {
	var rows []DailyRow
	var sums []float64
	for _, r := range s.Rows {
		day := series.Day(r.Time)
		if len(rows) == 0 || !rows[len(rows)-1].Date.Equal(day) {
			rows = append(rows, DailyRow{Date: day, Device: s.Device})
			sums = append(sums, 0)
		}
		last := len(rows) - 1
		if !math.IsNaN(r.PowerW) {
			sums[last] += r.PowerW
		}
		rows[last].Source = r.Source
	}
	for i := range rows {
		rows[i].UsageKWh = series.EnergyKWh(sums[i], s.Interval)
	}

	anchorAt := -1
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Source == models.Historical {
			anchorAt = i
			break
		}
	}
	if anchorAt < 0 {
		return rows
	}

	anchor := rows[anchorAt]
	anchor.Source = models.Forecast
	anchor.Anchor = true

	out := make([]DailyRow, 0, len(rows)+1)
	out = append(out, rows[:anchorAt+1]...)
	out = append(out, anchor)
	return append(out, rows[anchorAt+1:]...)
}

// TotalKWh sums the rollup, skipping anchors
func TotalKWh(rows []DailyRow) float64 {
	var total float64
	for _, r := range rows {
		if !r.Anchor {
			total += r.UsageKWh
		}
	}
	return total
}

// Totals returns the rollup's kWh and price
func Totals(rows []DailyRow, pricePerKWh float64) (kwh, price float64) {
	kwh = TotalKWh(rows)
	return kwh, kwh * pricePerKWh
}
