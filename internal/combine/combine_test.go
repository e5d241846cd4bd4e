package combine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jgoulah/wattcast/internal/series"
	"github.com/jgoulah/wattcast/internal/series/seriestest"
	"github.com/jgoulah/wattcast/pkg/models"
)

var april = time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

// history covers April 1-3 ending at 11:55 on the 3rd, future continues
// from 12:00 on the 3rd through the 4th.
func fixtures(t *testing.T) (hist, future *series.Minutely) {
	t.Helper()
	agg := series.NewAggregator(series.DefaultInterval, series.FillMissing)
	readings := seriestest.ConstantReadings(april, 2, series.DefaultInterval, map[string]float64{"Fridge": 100, "TV": 50})
	readings = append(readings, seriestest.ConstantReadings(april.AddDate(0, 0, 2), 1, series.DefaultInterval, map[string]float64{"Fridge": 100, "TV": 50})[:2*144]...)
	hist = agg.ToMinutely(readings)

	last, ok := hist.End()
	require.True(t, ok)
	n := 144 + 288
	times := make([]time.Time, n)
	values := make([][]float64, n)
	for i := range times {
		times[i] = last.Add(time.Duration(i+1) * series.DefaultInterval)
		values[i] = []float64{200, 0}
	}
	return hist, series.NewMinutely(hist.Schema(), series.DefaultInterval, times, values)
}

func TestCombineCompleteness(t *testing.T) {
	hist, future := fixtures(t)

	for _, dev := range []models.Device{models.DeviceID("Fridge"), models.DeviceID("TV"), models.AggregateAll} {
		s, err := Combine(future, hist, dev)
		require.NoError(t, err)
		require.Equal(t, hist.Len()+future.Len(), s.Len())
		require.Equal(t, hist.Len(), s.Count(models.Historical))
		require.Equal(t, future.Len(), s.Count(models.Forecast))

		for i, r := range s.Rows {
			require.Equal(t, dev, r.Device)
			if i < hist.Len() {
				require.Equal(t, models.Historical, r.Source)
				require.Equal(t, hist.Time(i), r.Time)
			} else {
				require.Equal(t, models.Forecast, r.Source)
			}
		}
	}
}

func TestCombineAggregateSumsDevices(t *testing.T) {
	hist, future := fixtures(t)
	s, err := Combine(future, hist, models.AggregateAll)
	require.NoError(t, err)
	require.Equal(t, 150.0, s.Rows[0].PowerW)
	require.Equal(t, 200.0, s.Rows[s.Len()-1].PowerW)
}

func TestCombineSelection(t *testing.T) {
	hist, future := fixtures(t)

	_, err := Combine(future, hist, models.Device{})
	require.ErrorIs(t, err, models.ErrSelectionIncomplete)

	_, err = Combine(future, hist, models.DeviceID("Oven"))
	require.ErrorIs(t, err, ErrUnknownDevice)

	_, err = Combine(nil, hist, models.AggregateAll)
	require.ErrorIs(t, err, models.ErrForecastUnavailable)
}

func TestDailyRollupBoundary(t *testing.T) {
	hist, future := fixtures(t)
	s, err := Combine(future, hist, models.DeviceID("Fridge"))
	require.NoError(t, err)

	rows := DailyRollup(s)
	require.Len(t, rows, 5)

	require.Equal(t, models.Historical, rows[1].Source)
	require.InDelta(t, 2.4, rows[1].UsageKWh, 1e-9)

	anchor := rows[2]
	require.True(t, anchor.Anchor)
	require.Equal(t, models.Forecast, anchor.Source)
	require.Equal(t, rows[1].Date, anchor.Date)
	require.Equal(t, rows[1].UsageKWh, anchor.UsageKWh)

	// the 3rd mixes 12h of history at 100 W with 12h of forecast at 200 W
	require.Equal(t, models.Forecast, rows[3].Source)
	require.InDelta(t, 1.2+2.4, rows[3].UsageKWh, 1e-9)
	require.InDelta(t, 4.8, rows[4].UsageKWh, 1e-9)

	kwh, price := Totals(rows, 10)
	require.InDelta(t, 2.4+2.4+3.6+4.8, kwh, 1e-9)
	require.InDelta(t, kwh*10, price, 1e-9)
}

func TestDailyRollupWithoutHistory(t *testing.T) {
	s := &Series{
		Device:   models.AggregateAll,
		Interval: time.Hour,
		Rows:     []Row{{Time: april, PowerW: 1000, Source: models.Forecast}},
	}
	rows := DailyRollup(s)
	require.Len(t, rows, 1)
	require.False(t, rows[0].Anchor)
	require.InDelta(t, 1.0, TotalKWh(rows), 1e-9)
}
