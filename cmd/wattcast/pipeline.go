package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jgoulah/wattcast/internal/config"
	"github.com/jgoulah/wattcast/internal/forecast"
	"github.com/jgoulah/wattcast/internal/metrics"
	"github.com/jgoulah/wattcast/internal/series"
	"github.com/jgoulah/wattcast/internal/session"
	"github.com/jgoulah/wattcast/internal/usage"
	"github.com/jgoulah/wattcast/pkg/models"
)

// monthRun is one selected month with its session and cache
type monthRun struct {
	cfg   *config.Config
	sess  *session.Session
	cache *forecast.Cache
	key   forecast.DataKey
	year  int
	month time.Month
}

// openMonth loads readings and selects year/month. price overrides the
// configured price when positive.
func openMonth(year, month int, price float64) (*monthRun, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	fill, err := series.ParseFillPolicy(cfg.GetFillPolicy())
	if err != nil {
		return nil, err
	}

	readings, err := loadReadings(cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sess := session.New(readings,
		session.WithAggregator(series.NewAggregator(cfg.GetSamplingInterval(), fill)),
		session.WithLogger(logger),
	)
	if price <= 0 {
		price = cfg.GetPricePerKWh()
	}
	sess.SetPrice(price)
	if err := sess.Select(year, time.Month(month)); err != nil {
		if errors.Is(err, models.ErrSelectionIncomplete) {
			return nil, fmt.Errorf("%w (set --year, --month and --price or price_per_kwh in config)", err)
		}
		return nil, err
	}
	stats.ObserveStage(metrics.StageAggregate, start)

	sourcePath := getDataPath(cfg)
	if sourceFlag == sourceDB {
		sourcePath = getDBPath(cfg)
	}
	key, err := forecast.DataKeyFor(sourcePath, year, time.Month(month))
	if err != nil {
		return nil, err
	}

	return &monthRun{
		cfg:   cfg,
		sess:  sess,
		cache: forecast.NewCache(forecast.LinearModelLoader),
		key:   key,
		year:  year,
		month: time.Month(month),
	}, nil
}

// projectMonthEnd extrapolates daily means to the end of the month. It
// returns the per-device month-end summaries and the days projected.
func (r *monthRun) projectMonthEnd() ([]models.UsageSummary, float64, error) {
	start := time.Now()
	defer stats.ObserveStage(metrics.StageForecastAverage, start)

	daily, err := r.sess.Daily()
	if err != nil {
		return nil, 0, err
	}
	last, ok := r.sess.LastTimestamp()
	if !ok {
		err := fmt.Errorf("no readings in %04d-%02d: %w", r.year, int(r.month), models.ErrForecastUnavailable)
		stats.ObserveForecast(models.RunAverage, err)
		return nil, 0, err
	}

	days := usage.DaysRemaining(last)
	projection, err := r.cache.Average(r.key, daily).Predict(days)
	stats.ObserveForecast(models.RunAverage, err)
	if err != nil {
		return nil, 0, err
	}

	summaries, err := usage.ProjectMonth(daily, projection, r.sess.Price())
	if err != nil {
		return nil, 0, err
	}
	return summaries, days, nil
}

// modelForecast runs the trained model over the selected month
func (r *monthRun) modelForecast(modelPath string, h forecast.Horizon) (*series.Minutely, error) {
	start := time.Now()
	defer stats.ObserveStage(metrics.StageForecastModel, start)

	fut, err := r.runModel(modelPath, h)
	stats.ObserveForecast(models.RunModel, err)
	return fut, err
}

func (r *monthRun) runModel(modelPath string, h forecast.Horizon) (*series.Minutely, error) {
	if modelPath == "" {
		modelPath = r.cfg.GetModelPath()
	}
	model, err := r.cache.Model(modelPath)
	if err != nil {
		return nil, err
	}
	tf, err := forecast.NewTrainedModelForecaster(model, r.sess.Aggregator().Interval)
	if err != nil {
		return nil, err
	}
	m, err := r.sess.Minutely()
	if err != nil {
		return nil, err
	}
	return tf.Predict(m, h)
}

// parseHorizon resolves --days and --until, defaulting to the end of the
// month of last
func parseHorizon(days float64, until string, last time.Time, interval time.Duration) (forecast.Horizon, error) {
	switch {
	case until != "":
		t, err := time.Parse("2006-01-02", until)
		if err != nil {
			return forecast.Horizon{}, fmt.Errorf("parsing --until date: %w", err)
		}
		// include the whole target day
		return forecast.HorizonUntil(t.AddDate(0, 0, 1).Add(-interval)), nil
	case days > 0:
		return forecast.HorizonDays(days), nil
	default:
		return forecast.HorizonUntil(forecast.EndOfMonth(last, interval)), nil
	}
}

// formatPrice renders a price as "Rp. 1.234"
func formatPrice(currency string, v float64) string {
	return fmt.Sprintf("%s. %s", currency, humanize.FormatFloat("#.###,", v))
}

func printSummaries(title, currency string, rows []models.UsageSummary) {
	fmt.Printf("\n%s:\n", title)
	fmt.Println("--------------------------------------------------")
	fmt.Printf("%-20s  %12s  %14s\n", models.ColumnDevice, models.ColumnUsage, models.ColumnPrice)
	fmt.Println("--------------------------------------------------")

	kwh, price := usage.Sum(rows)
	for _, s := range rows {
		fmt.Printf("%-20s  %12.3f  %14s\n", s.Device, s.KWh, formatPrice(currency, s.Price))
	}
	fmt.Println("--------------------------------------------------")
	fmt.Printf("%-20s  %12.3f  %14s\n", "Total", kwh, formatPrice(currency, price))
}
