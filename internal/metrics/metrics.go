package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline stages
const (
	StageLoad            = "load"
	StageAggregate       = "aggregate"
	StageForecastAverage = "forecast_average"
	StageForecastModel   = "forecast_model"
	StageCombine         = "combine"
)

// Metrics bundles pipeline metrics on a private registry.
type Metrics struct {
	Registry       *prometheus.Registry
	StageDuration  *prometheus.HistogramVec
	ReadingsLoaded prometheus.Counter
	ForecastsTotal *prometheus.CounterVec
	ProjectedKWh   *prometheus.GaugeVec
}

// New constructs and registers metrics.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wattcast_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		ReadingsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wattcast_readings_loaded_total",
			Help: "Total readings loaded from the log or store",
		}),
		ForecastsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wattcast_forecasts_total",
				Help: "Total forecasts by kind and result",
			},
			[]string{"kind", "result"},
		),
		ProjectedKWh: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wattcast_projected_month_kwh",
			Help: "Latest month-end energy projection in kWh",
		}, []string{"device"}),
	}
	m.Registry.MustRegister(
		m.StageDuration,
		m.ReadingsLoaded,
		m.ForecastsTotal,
		m.ProjectedKWh,
	)
	return m
}

// ObserveStage records the time elapsed since start for stage
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// ObserveForecast counts a forecast outcome
func (m *Metrics) ObserveForecast(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ForecastsTotal.WithLabelValues(kind, result).Inc()
}

// WriteTextfile dumps the registry in the node-exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
