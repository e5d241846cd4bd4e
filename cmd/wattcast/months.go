package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jgoulah/wattcast/internal/loader"
)

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "List the months present in the reading log",
	RunE:  runMonths,
}

func init() {
	rootCmd.AddCommand(monthsCmd)
}

func runMonths(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	readings, err := loadReadings(cfg)
	if err != nil {
		return err
	}

	available := loader.Months(readings)
	if len(available) == 0 {
		fmt.Println("No readings found")
		return nil
	}

	years := make([]int, 0, len(available))
	for y := range available {
		years = append(years, y)
	}
	sort.Ints(years)

	for _, y := range years {
		names := make([]string, 0, len(available[y]))
		for _, m := range available[y] {
			names = append(names, fmt.Sprintf("%02d (%s)", int(m), m.String()[:3]))
		}
		fmt.Printf("%d: %s\n", y, strings.Join(names, ", "))
	}
	fmt.Printf("\nTotal readings: %d\n", len(readings))
	return nil
}
