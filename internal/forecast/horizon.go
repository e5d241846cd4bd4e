package forecast

import (
	"time"

	"github.com/jgoulah/wattcast/pkg/models"
)

// Horizon is how far ahead to forecast, either a day count or a target time
type Horizon struct {
	days  float64
	until time.Time
}

// HorizonDays forecasts a fixed number of days past the last observation
func HorizonDays(days float64) Horizon { return Horizon{days: days} }

// HorizonUntil forecasts up to and including end
func HorizonUntil(end time.Time) Horizon { return Horizon{until: end} }

// Samples converts the horizon into a number of future samples after last
func (h Horizon) Samples(last time.Time, interval time.Duration) int {
	if interval <= 0 {
		return 0
	}
	if !h.until.IsZero() {
		if !h.until.After(last) {
			return 0
		}
		return int(h.until.Sub(last) / interval)
	}
	if h.days <= 0 {
		return 0
	}
	return int(h.days * 24 * 60 / interval.Minutes())
}

// EndOfMonth returns the last sample slot of t's month
func EndOfMonth(t time.Time, interval time.Duration) time.Time {
	next := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	return next.Add(-interval)
}

// Covariates are the auxiliary inputs for future timestamps
type Covariates struct {
	Times       []time.Time
	MinuteOfDay []int
}

// FutureCovariates builds horizon timestamps after last with their
// minute of day
func FutureCovariates(last time.Time, interval time.Duration, horizon int) Covariates {
	c := Covariates{
		Times:       make([]time.Time, horizon),
		MinuteOfDay: make([]int, horizon),
	}
	for i := 0; i < horizon; i++ {
		t := last.Add(time.Duration(i+1) * interval)
		c.Times[i] = t
		c.MinuteOfDay[i] = models.MinuteOfDay(t)
	}
	return c
}
