package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jgoulah/wattcast/internal/series"
	"github.com/jgoulah/wattcast/internal/series/seriestest"
	"github.com/jgoulah/wattcast/pkg/models"
)

var april = time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

func constantMonth(t *testing.T) (*series.Minutely, *series.Daily) {
	t.Helper()
	readings := seriestest.ConstantReadings(april, 30, series.DefaultInterval, map[string]float64{"Fridge": 100, "TV": 50})
	agg := series.NewAggregator(series.DefaultInterval, series.FillMissing)
	m := agg.ToMinutely(readings)
	return m, agg.ToDaily(m)
}

func TestTotalPerDevice(t *testing.T) {
	_, d := constantMonth(t)

	totals, err := TotalPerDevice(d, 1500)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	require.Equal(t, models.DeviceID("Fridge"), totals[0].Device)
	require.InDelta(t, 72.0, totals[0].KWh, 1e-9)
	require.InDelta(t, 72.0*1500, totals[0].Price, 1e-6)
	require.InDelta(t, 36.0, totals[1].KWh, 1e-9)
}

func TestGrandTotalMatchesSum(t *testing.T) {
	_, d := constantMonth(t)

	kwh, price, err := GrandTotal(d, 2)
	require.NoError(t, err)
	require.InDelta(t, 108.0, kwh, 1e-9)
	require.InDelta(t, 216.0, price, 1e-9)

	totals, err := TotalPerDevice(d, 2)
	require.NoError(t, err)
	sumKWh, sumPrice := Sum(totals)
	require.InDelta(t, kwh, sumKWh, 1e-9)
	require.InDelta(t, price, sumPrice, 1e-9)
}

func TestInvalidPrice(t *testing.T) {
	_, d := constantMonth(t)

	_, err := TotalPerDevice(d, 0)
	require.ErrorIs(t, err, ErrInvalidPrice)
	_, _, err = GrandTotal(d, -1)
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestEmptyMatrixIsNotAnError(t *testing.T) {
	agg := series.NewAggregator(series.DefaultInterval, series.FillMissing)
	d := agg.ToDaily(agg.ToMinutely(nil))

	totals, err := TotalPerDevice(d, 1)
	require.NoError(t, err)
	require.Empty(t, totals)

	kwh, _, err := GrandTotal(d, 1)
	require.NoError(t, err)
	require.Zero(t, kwh)
}

func TestDaysRemaining(t *testing.T) {
	at := time.Date(2024, time.April, 20, 12, 0, 0, 0, time.UTC)
	require.InDelta(t, 9.5, DaysRemaining(at), 1e-9)

	feb := time.Date(2024, time.February, 28, 23, 55, 0, 0, time.UTC)
	require.InDelta(t, 1-(23.0/24+55.0/1440), DaysRemaining(feb), 1e-9)

	lastDay := time.Date(2024, time.February, 29, 6, 0, 0, 0, time.UTC)
	require.Zero(t, DaysRemaining(lastDay))
}

func TestProjectMonth(t *testing.T) {
	_, d := constantMonth(t)
	projected := map[models.Device]float64{
		models.DeviceID("Fridge"): 24,
		models.AggregateAll:       36,
	}

	rows, err := ProjectMonth(d, projected, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.InDelta(t, 96.0, rows[0].KWh, 1e-9)
	require.InDelta(t, 960.0, rows[0].Price, 1e-9)
}

func TestLive(t *testing.T) {
	m, _ := constantMonth(t)

	snap, ok := Live(m)
	require.True(t, ok)
	require.InDelta(t, 150.0, snap.CurrentTotal, 1e-9)
	require.InDelta(t, 150.0, snap.PreviousTotal, 1e-9)
	require.Len(t, snap.Devices, 2)
	require.InDelta(t, 100.0*100/150, snap.Devices[0].Percentage, 1e-9)

	_, ok = Live(series.NewAggregator(series.DefaultInterval, series.FillMissing).ToMinutely(nil))
	require.False(t, ok)
}
