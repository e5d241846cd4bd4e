package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/wattcast/internal/combine"
	"github.com/jgoulah/wattcast/internal/database"
	"github.com/jgoulah/wattcast/internal/metrics"
	"github.com/jgoulah/wattcast/internal/usage"
	"github.com/jgoulah/wattcast/pkg/models"
)

var (
	forecastYear   int
	forecastMonth  int
	forecastPrice  float64
	forecastDays   float64
	forecastUntil  string
	forecastDevice string
	forecastModel  string
	forecastDaily  bool
	forecastRecord bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast usage to the end of the month",
	Long: `Projects the month-end usage of every device from its daily average, then runs
the trained model over the selected horizon and splices its forecast onto the
observed series of one device (or All).`,
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().IntVar(&forecastYear, "year", 0, "year to forecast")
	forecastCmd.Flags().IntVar(&forecastMonth, "month", 0, "month to forecast (1-12)")
	forecastCmd.Flags().Float64Var(&forecastPrice, "price", 0, "price per kWh (default from config)")
	forecastCmd.Flags().Float64Var(&forecastDays, "days", 0, "model horizon in days past the last reading")
	forecastCmd.Flags().StringVar(&forecastUntil, "until", "", "model horizon end date (YYYY-MM-DD, default end of month)")
	forecastCmd.Flags().StringVar(&forecastDevice, "device", models.AggregateLabel, "device to show in the combined series (All, an id, or device:<id> for a device named All)")
	forecastCmd.Flags().StringVar(&forecastModel, "model", "", "model artifact (default from config)")
	forecastCmd.Flags().BoolVar(&forecastDaily, "daily", false, "print the daily rollup of the combined series")
	forecastCmd.Flags().BoolVar(&forecastRecord, "record", true, "record forecast runs in the database")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
	run, err := openMonth(forecastYear, forecastMonth, forecastPrice)
	if err != nil {
		return err
	}
	currency := run.cfg.GetCurrency()
	price := run.sess.Price()

	var db *database.DB
	if forecastRecord {
		db, err = openDB(run.cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
	}

	projected, days, err := run.projectMonthEnd()
	if errors.Is(err, models.ErrForecastUnavailable) {
		fmt.Printf("No readings in %04d-%02d, nothing to forecast\n", run.year, int(run.month))
		return nil
	}
	if err != nil {
		return fmt.Errorf("average forecast: %w", err)
	}
	printSummaries(fmt.Sprintf("Month-end projection (%.2f days remaining)", days), currency, projected)

	kwh, total := usage.Sum(projected)
	stats.ProjectedKWh.WithLabelValues(models.AggregateLabel).Set(kwh)
	if err := recordRun(db, &models.ForecastRun{
		Kind:       models.RunAverage,
		Year:       run.year,
		Month:      int(run.month),
		Device:     models.AggregateLabel,
		TotalKWh:   kwh,
		TotalPrice: total,
	}); err != nil {
		return err
	}

	m, err := run.sess.Minutely()
	if err != nil {
		return err
	}
	last, _ := m.End()
	interval := run.sess.Aggregator().Interval
	h, err := parseHorizon(forecastDays, forecastUntil, last, interval)
	if err != nil {
		return err
	}

	future, err := run.modelForecast(forecastModel, h)
	if errors.Is(err, models.ErrForecastUnavailable) || errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("\nModel forecast unavailable: %v\n", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("model forecast: %w", err)
	}

	start := time.Now()
	sel := models.ParseDevice(forecastDevice)
	combined, err := combine.Combine(future, m, sel)
	if err != nil {
		return err
	}
	rollup := combine.DailyRollup(combined)
	stats.ObserveStage(metrics.StageCombine, start)

	fmt.Printf("\nModel forecast for %s: %d historical + %d forecast samples until %s\n",
		sel, combined.Count(models.Historical), combined.Count(models.Forecast),
		future.Times()[future.Len()-1].Format(models.TimestampLayout))

	if forecastDaily {
		fmt.Println("----------------------------------------------")
		fmt.Printf("%-12s  %12s  %-10s\n", models.ColumnDate, models.ColumnUsage, models.ColumnSource)
		fmt.Println("----------------------------------------------")
		for _, r := range rollup {
			if r.Anchor {
				continue
			}
			fmt.Printf("%-12s  %12.3f  %-10s\n", r.Date.Format("2006-01-02"), r.UsageKWh, r.Source)
		}
	}

	kwh, total = combine.Totals(rollup, price)
	fmt.Println("----------------------------------------------")
	fmt.Printf("Total %s: %.3f kWh (%s)\n", sel, kwh, formatPrice(currency, total))

	return recordRun(db, &models.ForecastRun{
		Kind:       models.RunModel,
		Year:       run.year,
		Month:      int(run.month),
		Device:     sel.String(),
		Samples:    combined.Count(models.Forecast),
		TotalKWh:   kwh,
		TotalPrice: total,
	})
}

// recordRun stores run when a database is open
func recordRun(db *database.DB, run *models.ForecastRun) error {
	if db == nil {
		return nil
	}
	if err := db.InsertForecastRun(run); err != nil {
		return fmt.Errorf("recording forecast run: %w", err)
	}
	logger.Debug("forecast run recorded", "id", run.ID, "kind", run.Kind, "device", run.Device, "kwh", run.TotalKWh)
	return nil
}
