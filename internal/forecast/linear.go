package forecast

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-json-experiment/json"
	"gonum.org/v1/gonum/floats"

	"github.com/jgoulah/wattcast/internal/series"
)

// DeviceWeights are the regression coefficients of one device. Harmonic
// weights come in sin/cos pairs, the k-th pair for the k-th daily harmonic
// of the minute of day.
type DeviceWeights struct {
	Intercept       float64   `json:"intercept"`
	LagWeights      []float64 `json:"lag_weights"`
	HarmonicWeights []float64 `json:"harmonic_weights,omitzero"`
}

// LinearModel is an autoregressive model with minute-of-day covariates.
// The lag-1 weight applies to the most recent sample.
type LinearModel struct {
	SamplingMinutes int                      `json:"sampling_minutes"`
	Lags            int                      `json:"lags"`
	Devices         map[string]DeviceWeights `json:"devices"`
	Default         *DeviceWeights           `json:"default,omitzero"`
}

// LoadLinearModel reads a model artifact from disk
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}

	var m LinearModel
	if err := json.Unmarshal(data, &m, json.RejectUnknownMembers(true)); err != nil {
		return nil, fmt.Errorf("parsing model file: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks the coefficient shapes
func (m *LinearModel) Validate() error {
	if m.SamplingMinutes <= 0 {
		return errors.New("sampling_minutes must be positive")
	}
	if m.Lags < 1 {
		return errors.New("lags must be at least 1")
	}
	check := func(name string, w DeviceWeights) error {
		if len(w.LagWeights) != m.Lags {
			return fmt.Errorf("device %s: %d lag weights, expected %d", name, len(w.LagWeights), m.Lags)
		}
		if len(w.HarmonicWeights)%2 != 0 {
			return fmt.Errorf("device %s: harmonic weights must come in sin/cos pairs", name)
		}
		return nil
	}
	for name, w := range m.Devices {
		if err := check(name, w); err != nil {
			return err
		}
	}
	if m.Default != nil {
		if err := check("default", *m.Default); err != nil {
			return err
		}
	}
	return nil
}

// SamplingInterval returns the interval the model was trained on
func (m *LinearModel) SamplingInterval() time.Duration {
	return time.Duration(m.SamplingMinutes) * time.Minute
}

// Predict runs the recursion for every history column. Absent history
// samples are carried forward from the previous reading, or 0 before the
// first one. Forecasts never go below 0 W.
func (m *LinearModel) Predict(history *series.Minutely, horizon int, future Covariates) ([][]float64, error) {
	if len(future.MinuteOfDay) < horizon {
		return nil, fmt.Errorf("need %d future covariates, got %d", horizon, len(future.MinuteOfDay))
	}
	schema := history.Schema()
	rows := make([][]float64, horizon)
	for i := range rows {
		rows[i] = make([]float64, schema.Len())
	}

	for col := 0; col < schema.Len(); col++ {
		id := schema.ID(col)
		w, ok := m.Devices[id]
		if !ok {
			if m.Default == nil {
				return nil, fmt.Errorf("no weights for device %s", id)
			}
			w = *m.Default
		}

		window := m.lagWindow(history, col)
		lags := make([]float64, m.Lags)
		harmonics := make([]float64, len(w.HarmonicWeights))
		for k := 0; k < horizon; k++ {
			for j := range lags {
				lags[j] = window[len(window)-1-j]
			}
			fillHarmonics(harmonics, future.MinuteOfDay[k])

			y := w.Intercept + floats.Dot(w.LagWeights, lags)
			if len(harmonics) > 0 {
				y += floats.Dot(w.HarmonicWeights, harmonics)
			}
			y = math.Max(0, y)

			rows[k][col] = y
			window = append(window[1:], y)
		}
	}
	return rows, nil
}

// lagWindow returns the last Lags values of a column, oldest first, padded
// at the front with the oldest available value.
func (m *LinearModel) lagWindow(history *series.Minutely, col int) []float64 {
	values := make([]float64, history.Len())
	prev := 0.0
	for i := range values {
		if history.Present(i, col) {
			prev = history.Value(i, col)
		}
		values[i] = prev
	}

	window := make([]float64, m.Lags)
	start := len(values) - m.Lags
	for j := range window {
		idx := start + j
		switch {
		case idx >= 0:
			window[j] = values[idx]
		case len(values) > 0:
			window[j] = values[0]
		}
	}
	return window
}

func fillHarmonics(dst []float64, minute int) {
	phase := 2 * math.Pi * float64(minute) / 1440
	for k := 0; k < len(dst)/2; k++ {
		angle := float64(k+1) * phase
		dst[2*k] = math.Sin(angle)
		dst[2*k+1] = math.Cos(angle)
	}
}
