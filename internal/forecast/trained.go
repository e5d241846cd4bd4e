package forecast

import (
	"fmt"
	"time"

	"github.com/jgoulah/wattcast/internal/series"
	"github.com/jgoulah/wattcast/pkg/models"
)

// Model is a pretrained multivariate regressor. It receives the observed
// series, the number of future samples and their covariates, and returns
// one row per future sample with one value per history column.
type Model interface {
	SamplingInterval() time.Duration
	Predict(history *series.Minutely, horizon int, future Covariates) ([][]float64, error)
}

// TrainedModelForecaster runs a Model over a minutely matrix
type TrainedModelForecaster struct {
	model    Model
	interval time.Duration
}

// NewTrainedModelForecaster wraps model for series sampled every interval
func NewTrainedModelForecaster(model Model, interval time.Duration) (*TrainedModelForecaster, error) {
	if model == nil {
		return nil, fmt.Errorf("nil model")
	}
	if interval <= 0 {
		interval = series.DefaultInterval
	}
	if mi := model.SamplingInterval(); mi != interval {
		return nil, fmt.Errorf("model trained for %s samples, data sampled every %s", mi, interval)
	}
	return &TrainedModelForecaster{model: model, interval: interval}, nil
}

// Interval returns the sampling interval of the forecasts
func (f *TrainedModelForecaster) Interval() time.Duration { return f.interval }

// Predict forecasts every device of m over h. It returns
// models.ErrForecastUnavailable without calling the model when m has no
// time range or h resolves to no samples.
func (f *TrainedModelForecaster) Predict(m *series.Minutely, h Horizon) (*series.Minutely, error) {
	last, ok := m.End()
	if !ok {
		return nil, fmt.Errorf("series has no time range: %w", models.ErrForecastUnavailable)
	}

	horizon := h.Samples(last, f.interval)
	if horizon <= 0 {
		return nil, fmt.Errorf("empty horizon: %w", models.ErrForecastUnavailable)
	}

	future := FutureCovariates(last, f.interval, horizon)
	rows, err := f.model.Predict(m, horizon, future)
	if err != nil {
		return nil, fmt.Errorf("running model: %w", err)
	}
	if len(rows) != horizon {
		return nil, fmt.Errorf("model returned %d rows, expected %d", len(rows), horizon)
	}
	width := m.Schema().Len()
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("model row %d has %d values, expected %d", i, len(row), width)
		}
	}

	return series.NewMinutely(m.Schema(), f.interval, future.Times, rows), nil
}
