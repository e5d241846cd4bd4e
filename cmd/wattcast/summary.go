package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/wattcast/internal/usage"
	"github.com/jgoulah/wattcast/pkg/models"
)

var (
	summaryYear  int
	summaryMonth int
	summaryPrice float64
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show live power and monthly usage per device",
	Long:  `Shows the latest power draw per device, the energy used per device in the selected month, and its price.`,
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryYear, "year", 0, "year to summarize")
	summaryCmd.Flags().IntVar(&summaryMonth, "month", 0, "month to summarize (1-12)")
	summaryCmd.Flags().Float64Var(&summaryPrice, "price", 0, "price per kWh (default from config)")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	run, err := openMonth(summaryYear, summaryMonth, summaryPrice)
	if err != nil {
		return err
	}
	currency := run.cfg.GetCurrency()

	m, err := run.sess.Minutely()
	if err != nil {
		return err
	}
	daily, err := run.sess.Daily()
	if err != nil {
		return err
	}
	if m.Len() == 0 {
		fmt.Printf("No readings in %04d-%02d\n", run.year, int(run.month))
		return nil
	}

	if snap, ok := usage.Live(m); ok {
		fmt.Printf("Live at %s: %.1f W (%+.1f W)\n", snap.At.Format(models.TimestampLayout),
			snap.CurrentTotal, snap.CurrentTotal-snap.PreviousTotal)
		fmt.Println("----------------------------------------")
		fmt.Printf("%-20s  %10s  %6s\n", models.ColumnDevice, models.ColumnPower, "%")
		fmt.Println("----------------------------------------")
		for _, d := range snap.Devices {
			fmt.Printf("%-20s  %10.1f  %5.1f%%\n", d.Device, d.PowerW, d.Percentage)
		}
	}

	rows, err := usage.TotalPerDevice(daily, run.sess.Price())
	if err != nil {
		return err
	}
	printSummaries(fmt.Sprintf("Usage %04d-%02d", run.year, int(run.month)), currency, rows)

	avg := run.cache.Average(run.key, daily)
	fmt.Printf("\nAverage daily usage: %.3f kWh (%s)\n", avg.TotalDailyAverage(),
		formatPrice(currency, avg.TotalDailyAverage()*run.sess.Price()))
	if last, ok := run.sess.LastTimestamp(); ok {
		fmt.Printf("Days remaining in month: %.2f\n", usage.DaysRemaining(last))
	}
	return nil
}
