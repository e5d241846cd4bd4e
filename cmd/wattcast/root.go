package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/wattcast/internal/config"
	"github.com/jgoulah/wattcast/internal/database"
	"github.com/jgoulah/wattcast/internal/loader"
	"github.com/jgoulah/wattcast/internal/metrics"
	"github.com/jgoulah/wattcast/pkg/models"
)

// Reading sources
const (
	sourceCSV = "csv"
	sourceDB  = "db"
)

var (
	cfgFile     string
	dbPath      string
	dataPath    string
	sourceFlag  string
	verbose     bool
	metricsFile string

	logger = slog.Default()
	stats  = metrics.New()
)

var rootCmd = &cobra.Command{
	Use:   "wattcast",
	Short: "Summarize and forecast household electricity use per device",
	Long: `Wattcast reads a per-device log of voltage and current samples, aggregates it
into power and energy per device, prices the usage, and forecasts the rest of
the month with a daily average or a pretrained model.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if metricsFile == "" {
			return nil
		}
		return stats.WriteTextfile(metricsFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "reading log CSV (default is ./data.csv)")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", sourceCSV, "where to read readings from (csv or db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path, flag first
func getDBPath(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.GetDBPath()
}

// getDataPath returns the reading log path, flag first
func getDataPath(cfg *config.Config) string {
	if dataPath != "" {
		return dataPath
	}
	return cfg.GetDataPath()
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// openDB opens the database connection
func openDB(cfg *config.Config) (*database.DB, error) {
	path := getDBPath(cfg)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// loadReadings reads every reading from the selected source
func loadReadings(cfg *config.Config) ([]models.Reading, error) {
	start := time.Now()
	defer stats.ObserveStage(metrics.StageLoad, start)

	var readings []models.Reading
	switch sourceFlag {
	case sourceCSV:
		path := getDataPath(cfg)
		r, err := loader.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		readings = r
	case sourceDB:
		db, err := openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		r, err := db.ListReadings()
		if err != nil {
			return nil, fmt.Errorf("listing readings: %w", err)
		}
		readings = r
	default:
		return nil, fmt.Errorf("unknown source %q (use csv or db)", sourceFlag)
	}

	stats.ReadingsLoaded.Add(float64(len(readings)))
	logger.Debug("readings loaded", "source", sourceFlag, "count", len(readings), "elapsed", time.Since(start))
	return readings, nil
}
