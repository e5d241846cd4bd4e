package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/wattcast/internal/loader"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a CSV reading log into the database",
	Long: `Loads a CSV reading log (Timestamp, Voltage (V), Ampere (A), Device ID) and stores
it in the local SQLite database. Readings already stored are skipped, so the
same log can be imported repeatedly as it grows.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	path := getDataPath(cfg)
	if len(args) == 1 {
		path = args[0]
	}

	start := time.Now()
	readings, err := loader.LoadFile(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	stats.ReadingsLoaded.Add(float64(len(readings)))
	fmt.Printf("Loaded %d readings from %s\n", len(readings), path)

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	inserted, err := db.InsertReadings(readings)
	if err != nil {
		return fmt.Errorf("storing readings: %w", err)
	}

	fmt.Printf("✓ Stored %d new readings (%d already present) in %s\n",
		inserted, len(readings)-inserted, time.Since(start).Round(time.Millisecond))
	return nil
}
