package series

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jgoulah/wattcast/internal/series/seriestest"
	"github.com/jgoulah/wattcast/pkg/models"
)

var april = time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

func TestConstantMonthDailyEnergy(t *testing.T) {
	readings := seriestest.ConstantReadings(april, 30, DefaultInterval, map[string]float64{"Fridge": 100, "TV": 50})
	agg := NewAggregator(DefaultInterval, FillMissing)

	m := agg.ToMinutely(readings)
	require.Equal(t, 30*288, m.Len())
	require.Equal(t, []string{"Fridge", "TV"}, m.Schema().IDs())
	require.InDelta(t, 150.0, m.Total(0), 1e-9)

	d := agg.ToDaily(m)
	require.Equal(t, 30, d.Len())
	fridge, _ := d.Schema().Index("Fridge")
	tv, _ := d.Schema().Index("TV")
	for i := 0; i < d.Len(); i++ {
		require.InDelta(t, 2.4, d.Value(i, fridge), 1e-9)
		require.InDelta(t, 1.2, d.Value(i, tv), 1e-9)
	}
	require.Equal(t, april.AddDate(0, 0, 29), d.Date(29))
}

func TestEnergyConservation(t *testing.T) {
	var readings []models.Reading
	for i := 0; i < 600; i++ {
		ts := april.Add(time.Duration(i) * DefaultInterval)
		readings = append(readings, models.Reading{Timestamp: ts, DeviceID: "Heater", Voltage: 230, Current: float64(i%17) / 3})
	}
	agg := NewAggregator(DefaultInterval, FillMissing)
	m := agg.ToMinutely(readings)
	d := agg.ToDaily(m)

	for day := 0; day < d.Len(); day++ {
		var sum float64
		for i := 0; i < m.Len(); i++ {
			if Day(m.Time(i)).Equal(d.Date(day)) {
				sum += m.Value(i, 0)
			}
		}
		require.InDelta(t, sum*5/60/1000, d.Value(day, 0), 1e-9)
	}
}

func TestToMinutelyMarksGaps(t *testing.T) {
	readings := []models.Reading{
		{Timestamp: april, DeviceID: "A", Voltage: 100, Current: 1},
		{Timestamp: april, DeviceID: "B", Voltage: 100, Current: 2},
		{Timestamp: april.Add(15 * time.Minute), DeviceID: "A", Voltage: 100, Current: 3},
	}
	m := NewAggregator(DefaultInterval, FillMissing).ToMinutely(readings)

	require.Equal(t, 4, m.Len())
	require.True(t, m.Present(0, 1))
	require.False(t, m.Present(3, 1))
	require.False(t, m.Present(1, 0))
	require.True(t, math.IsNaN(m.Value(2, 0)))
	require.InDelta(t, 300.0, m.Total(3), 1e-9)

	end, ok := m.End()
	require.True(t, ok)
	require.Equal(t, april.Add(15*time.Minute), end)
}

func TestFillPolicies(t *testing.T) {
	readings := []models.Reading{
		{Timestamp: april, DeviceID: "A", Voltage: 100, Current: 1},
		{Timestamp: april.Add(10 * time.Minute), DeviceID: "A", Voltage: 100, Current: 2},
		{Timestamp: april.Add(10 * time.Minute), DeviceID: "B", Voltage: 100, Current: 2},
	}

	zero := NewAggregator(DefaultInterval, FillZero).ToMinutely(readings)
	require.Equal(t, 0.0, zero.Value(1, 0))
	require.Equal(t, 0.0, zero.Value(0, 1))

	prev := NewAggregator(DefaultInterval, FillPrevious).ToMinutely(readings)
	require.Equal(t, 100.0, prev.Value(1, 0))
	require.False(t, prev.Present(0, 1))
}

func TestToMinutelyTruncatesAndKeepsLater(t *testing.T) {
	readings := []models.Reading{
		{Timestamp: april.Add(time.Minute), DeviceID: "A", Voltage: 100, Current: 1},
		{Timestamp: april.Add(3 * time.Minute), DeviceID: "A", Voltage: 100, Current: 4},
	}
	m := NewAggregator(DefaultInterval, FillMissing).ToMinutely(readings)
	require.Equal(t, 1, m.Len())
	require.Equal(t, april, m.Time(0))
	require.Equal(t, 400.0, m.Value(0, 0))
}

func TestEmptyMonth(t *testing.T) {
	agg := NewAggregator(DefaultInterval, FillMissing)
	m := agg.ToMinutely(FilterMonth(nil, 2024, time.May))
	require.Equal(t, 0, m.Len())
	require.Equal(t, 0, m.Schema().Len())

	_, ok := m.End()
	require.False(t, ok)
	require.Equal(t, 0, agg.ToDaily(m).Len())
}

func TestDailySkipsDaysWithoutSamples(t *testing.T) {
	readings := []models.Reading{
		{Timestamp: april, DeviceID: "A", Voltage: 100, Current: 1},
		{Timestamp: april, DeviceID: "B", Voltage: 100, Current: 1},
		{Timestamp: april.AddDate(0, 0, 1), DeviceID: "A", Voltage: 100, Current: 1},
	}
	agg := NewAggregator(DefaultInterval, FillMissing)
	d := agg.ToDaily(agg.ToMinutely(readings))
	require.Equal(t, 2, d.Len())
	require.True(t, d.Present(1, 0))
	require.False(t, d.Present(1, 1))
	require.Len(t, d.ColumnValues(1), 1)
}

func TestFilterMonth(t *testing.T) {
	readings := seriestest.ConstantReadings(april.AddDate(0, 0, -1), 2, time.Hour, map[string]float64{"A": 1})
	got := FilterMonth(readings, 2024, time.April)
	require.Len(t, got, 24)
	for _, r := range got {
		require.Equal(t, time.April, r.Timestamp.Month())
	}
}

func TestMinutelySeries(t *testing.T) {
	readings := seriestest.ConstantReadings(april, 1, time.Hour, map[string]float64{"A": 10, "B": 20})
	m := NewAggregator(time.Hour, FillMissing).ToMinutely(readings)

	all, ok := m.Series(models.AggregateAll)
	require.True(t, ok)
	require.Equal(t, 30.0, all[5])

	b, ok := m.Series(models.DeviceID("B"))
	require.True(t, ok)
	require.Equal(t, 20.0, b[0])

	_, ok = m.Series(models.DeviceID("C"))
	require.False(t, ok)
	_, ok = m.Series(models.Device{})
	require.False(t, ok)
}

func TestParseFillPolicy(t *testing.T) {
	p, err := ParseFillPolicy("previous")
	require.NoError(t, err)
	require.Equal(t, FillPrevious, p)

	_, err = ParseFillPolicy("interpolate")
	require.Error(t, err)
}
