package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jgoulah/wattcast/internal/series"
	"github.com/jgoulah/wattcast/pkg/models"
)

type stubModel struct {
	interval time.Duration
	calls    int
	horizon  int
	future   Covariates
	width    int
	err      error
}

func (s *stubModel) SamplingInterval() time.Duration { return s.interval }

func (s *stubModel) Predict(history *series.Minutely, horizon int, future Covariates) ([][]float64, error) {
	s.calls++
	s.horizon = horizon
	s.future = future
	if s.err != nil {
		return nil, s.err
	}
	width := history.Schema().Len()
	if s.width > 0 {
		width = s.width
	}
	rows := make([][]float64, horizon)
	for i := range rows {
		rows[i] = make([]float64, width)
		for c := range rows[i] {
			rows[i][c] = float64(i)
		}
	}
	return rows, nil
}

func TestHorizonSamples(t *testing.T) {
	last := time.Date(2024, time.April, 20, 23, 55, 0, 0, time.UTC)
	require.Equal(t, 288, HorizonDays(1).Samples(last, 5*time.Minute))
	require.Equal(t, 144, HorizonDays(0.5).Samples(last, 5*time.Minute))
	require.Zero(t, HorizonDays(0).Samples(last, 5*time.Minute))

	end := EndOfMonth(last, 5*time.Minute)
	require.Equal(t, time.Date(2024, time.April, 30, 23, 55, 0, 0, time.UTC), end)
	require.Equal(t, 10*288, HorizonUntil(end).Samples(last, 5*time.Minute))
	require.Zero(t, HorizonUntil(last).Samples(last, 5*time.Minute))
	require.Zero(t, HorizonUntil(last.Add(-time.Hour)).Samples(last, 5*time.Minute))
}

func TestFutureCovariatesWrapDaily(t *testing.T) {
	last := time.Date(2024, time.April, 1, 23, 50, 0, 0, time.UTC)
	c := FutureCovariates(last, 5*time.Minute, 3)
	require.Equal(t, []int{1435, 0, 5}, c.MinuteOfDay)
	require.Equal(t, last.Add(15*time.Minute), c.Times[2])
}

func TestTrainedForecasterPredict(t *testing.T) {
	m, _ := constantMonth(t)
	stub := &stubModel{interval: series.DefaultInterval}
	f, err := NewTrainedModelForecaster(stub, series.DefaultInterval)
	require.NoError(t, err)

	out, err := f.Predict(m, HorizonDays(1))
	require.NoError(t, err)
	require.Equal(t, 1, stub.calls)
	require.Equal(t, 288, stub.horizon)
	require.Equal(t, 288, out.Len())
	require.Equal(t, m.Schema(), out.Schema())

	last, _ := m.End()
	start, _ := out.Start()
	require.Equal(t, last.Add(series.DefaultInterval), start)
	require.Equal(t, models.MinuteOfDay(start), stub.future.MinuteOfDay[0])
	require.Equal(t, 7.0, out.Value(7, 1))
}

func TestTrainedForecasterZeroHorizonIsAbsent(t *testing.T) {
	m, _ := constantMonth(t)
	stub := &stubModel{interval: series.DefaultInterval}
	f, err := NewTrainedModelForecaster(stub, series.DefaultInterval)
	require.NoError(t, err)

	out, err := f.Predict(m, HorizonDays(0))
	require.ErrorIs(t, err, models.ErrForecastUnavailable)
	require.Nil(t, out)
	require.Zero(t, stub.calls)
}

func TestTrainedForecasterEmptySeries(t *testing.T) {
	stub := &stubModel{interval: series.DefaultInterval}
	f, err := NewTrainedModelForecaster(stub, series.DefaultInterval)
	require.NoError(t, err)

	empty := series.NewAggregator(series.DefaultInterval, series.FillMissing).ToMinutely(nil)
	out, err := f.Predict(empty, HorizonDays(3))
	require.ErrorIs(t, err, models.ErrForecastUnavailable)
	require.Nil(t, out)
	require.Zero(t, stub.calls)
}

func TestTrainedForecasterRejectsBadModelOutput(t *testing.T) {
	m, _ := constantMonth(t)

	wide := &stubModel{interval: series.DefaultInterval, width: 5}
	f, err := NewTrainedModelForecaster(wide, series.DefaultInterval)
	require.NoError(t, err)
	_, err = f.Predict(m, HorizonDays(1))
	require.Error(t, err)

	failing := &stubModel{interval: series.DefaultInterval, err: errors.New("boom")}
	f, err = NewTrainedModelForecaster(failing, series.DefaultInterval)
	require.NoError(t, err)
	_, err = f.Predict(m, HorizonDays(1))
	require.ErrorContains(t, err, "boom")
}

func TestTrainedForecasterIntervalMismatch(t *testing.T) {
	_, err := NewTrainedModelForecaster(&stubModel{interval: time.Minute}, series.DefaultInterval)
	require.Error(t, err)
}
