package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/wattcast/internal/publisher"
	"github.com/jgoulah/wattcast/internal/usage"
	"github.com/jgoulah/wattcast/pkg/models"
)

var (
	publishYear    int
	publishMonth   int
	publishPrice   float64
	publishPending bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the month-end projection to MQTT and Home Assistant",
	Long: `Projects the month-end usage of the selected month, records the run and
publishes it together with any earlier unpublished runs to the MQTT broker
and the Home Assistant HTTP API configured in config.yaml.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().IntVar(&publishYear, "year", 0, "year to project")
	publishCmd.Flags().IntVar(&publishMonth, "month", 0, "month to project (1-12)")
	publishCmd.Flags().Float64Var(&publishPrice, "price", 0, "price per kWh (default from config)")
	publishCmd.Flags().BoolVar(&publishPending, "pending", true, "also publish earlier unpublished runs")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	run, err := openMonth(publishYear, publishMonth, publishPrice)
	if err != nil {
		return err
	}

	projected, _, err := run.projectMonthEnd()
	if errors.Is(err, models.ErrForecastUnavailable) {
		fmt.Printf("No readings in %04d-%02d, nothing to publish\n", run.year, int(run.month))
		return nil
	}
	if err != nil {
		return fmt.Errorf("average forecast: %w", err)
	}

	pub, err := publisher.New(run.cfg.MQTT, run.cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()
	if !pub.Enabled() {
		return fmt.Errorf("neither MQTT nor Home Assistant is enabled in config")
	}

	db, err := openDB(run.cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	kwh, price := usage.Sum(projected)
	current := models.ForecastRun{
		Kind:       models.RunAverage,
		Year:       run.year,
		Month:      int(run.month),
		Device:     models.AggregateLabel,
		TotalKWh:   kwh,
		TotalPrice: price,
	}
	if err := recordRun(db, &current); err != nil {
		return err
	}

	var runs []models.ForecastRun
	if publishPending {
		pending, err := db.ListUnpublishedRuns()
		if err != nil {
			return fmt.Errorf("listing unpublished runs: %w", err)
		}
		for _, r := range pending {
			if r.ID != current.ID {
				runs = append(runs, r)
			}
		}
	}
	runs = append(runs, current)

	fmt.Printf("Publishing %d runs...\n", len(runs))
	published := 0
	for i, r := range runs {
		var summaries []models.UsageSummary
		if r.ID == current.ID {
			summaries = projected
		}

		fmt.Printf("[%d/%d] Publishing %s %04d-%02d %s (%.2f kWh)... ", i+1, len(runs), r.Kind, r.Year, r.Month, r.Device, r.TotalKWh)
		if err := pub.Publish(r, summaries); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}

		if err := db.MarkPublished(r.ID); err != nil {
			fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
		} else {
			fmt.Printf("✓\n")
		}
		published++
	}

	fmt.Printf("\nTotal runs published: %d/%d\n", published, len(runs))
	return nil
}
