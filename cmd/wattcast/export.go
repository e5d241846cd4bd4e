package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/wattcast/internal/combine"
	"github.com/jgoulah/wattcast/internal/report"
	"github.com/jgoulah/wattcast/internal/usage"
	"github.com/jgoulah/wattcast/pkg/models"
)

var (
	exportYear   int
	exportMonth  int
	exportPrice  float64
	exportFormat string
	exportOut    string
	exportDevice string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a monthly usage report as XLSX or PDF",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().IntVar(&exportYear, "year", 0, "year to export")
	exportCmd.Flags().IntVar(&exportMonth, "month", 0, "month to export (1-12)")
	exportCmd.Flags().Float64Var(&exportPrice, "price", 0, "price per kWh (default from config)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "report format (xlsx or pdf)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default wattcast-YYYY-MM.<format>)")
	exportCmd.Flags().StringVar(&exportDevice, "device", models.AggregateLabel, "device for the daily sheet (All, an id, or device:<id> for a device named All)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	var build func(*report.Monthly) ([]byte, error)
	switch exportFormat {
	case "xlsx":
		build = report.BuildXLSX
	case "pdf":
		build = report.BuildPDF
	default:
		return fmt.Errorf("unknown format %q (use xlsx or pdf)", exportFormat)
	}

	run, err := openMonth(exportYear, exportMonth, exportPrice)
	if err != nil {
		return err
	}
	daily, err := run.sess.Daily()
	if err != nil {
		return err
	}
	if daily.Len() == 0 {
		fmt.Printf("No readings in %04d-%02d, nothing to export\n", run.year, int(run.month))
		return nil
	}

	rows, err := usage.TotalPerDevice(daily, run.sess.Price())
	if err != nil {
		return err
	}
	doc := &report.Monthly{
		Year:        run.year,
		Month:       run.month,
		Currency:    run.cfg.GetCurrency(),
		PricePerKWh: run.sess.Price(),
		GeneratedAt: time.Now(),
		Usage:       rows,
	}

	projected, _, err := run.projectMonthEnd()
	switch {
	case errors.Is(err, models.ErrForecastUnavailable):
		logger.Info("skipping projection", "error", err)
	case err != nil:
		return err
	default:
		doc.Projection = projected
	}

	if daily, err := dailyRollup(run, exportDevice); err != nil {
		logger.Info("skipping daily sheet", "error", err)
	} else {
		doc.Daily = daily
	}

	data, err := build(doc)
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	out := exportOut
	if out == "" {
		out = fmt.Sprintf("wattcast-%s.%s", doc.Period(), exportFormat)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	fmt.Printf("✓ Wrote %s report for %s to %s (%d bytes)\n", exportFormat, doc.Period(), out, len(data))
	return nil
}

// dailyRollup forecasts to the end of the month and rolls the combined
// series of device up per day
func dailyRollup(run *monthRun, device string) ([]combine.DailyRow, error) {
	m, err := run.sess.Minutely()
	if err != nil {
		return nil, err
	}
	last, ok := m.End()
	if !ok {
		return nil, models.ErrForecastUnavailable
	}
	h, err := parseHorizon(0, "", last, run.sess.Aggregator().Interval)
	if err != nil {
		return nil, err
	}

	future, err := run.modelForecast("", h)
	if err != nil {
		return nil, err
	}

	combined, err := combine.Combine(future, m, models.ParseDevice(device))
	if err != nil {
		return nil, err
	}
	return combine.DailyRollup(combined), nil
}
