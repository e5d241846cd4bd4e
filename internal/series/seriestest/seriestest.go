// Package seriestest builds synthetic readings for tests.
package seriestest

import (
	"sort"
	"time"

	"github.com/jgoulah/wattcast/pkg/models"
)

// ConstantReadings returns one reading per device every interval over
// [start, start+days) with constant power (voltage fixed at 200 V).
func ConstantReadings(start time.Time, days int, interval time.Duration, powerW map[string]float64) []models.Reading {
	ids := make([]string, 0, len(powerW))
	for id := range powerW {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	end := start.AddDate(0, 0, days)
	var out []models.Reading
	for t := start; t.Before(end); t = t.Add(interval) {
		for _, id := range ids {
			out = append(out, models.Reading{
				Timestamp: t,
				DeviceID:  id,
				Voltage:   200,
				Current:   powerW[id] / 200,
			})
		}
	}
	return out
}
