package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jgoulah/wattcast/pkg/models"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		device_id TEXT NOT NULL,
		voltage REAL NOT NULL,
		current REAL NOT NULL,
		UNIQUE(timestamp, device_id)
	);
	CREATE INDEX IF NOT EXISTS idx_readings_timestamp ON readings(timestamp);

	CREATE TABLE IF NOT EXISTS forecast_runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		kind TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		device TEXT NOT NULL,
		samples INTEGER NOT NULL DEFAULT 0,
		total_kwh REAL NOT NULL,
		total_price REAL NOT NULL,
		published INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_period ON forecast_runs(year, month);
	CREATE INDEX IF NOT EXISTS idx_runs_published ON forecast_runs(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertReadings stores readings in one transaction, ignoring duplicates.
// It returns the number of new rows.
func (db *DB) InsertReadings(readings []models.Reading) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
	INSERT OR IGNORE INTO readings (timestamp, device_id, voltage, current)
	VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range readings {
		res, err := stmt.Exec(r.Timestamp.Format(models.TimestampLayout), r.DeviceID, r.Voltage, r.Current)
		if err != nil {
			return 0, fmt.Errorf("inserting reading: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting inserted rows: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing readings: %w", err)
	}
	return inserted, nil
}

// ListReadings retrieves all readings ordered by timestamp, then device
func (db *DB) ListReadings() ([]models.Reading, error) {
	query := `
	SELECT timestamp, device_id, voltage, current
	FROM readings
	ORDER BY timestamp ASC, device_id ASC
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	var results []models.Reading
	for rows.Next() {
		var r models.Reading
		var ts string
		if err := rows.Scan(&ts, &r.DeviceID, &r.Voltage, &r.Current); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		r.Timestamp, err = time.Parse(models.TimestampLayout, ts)
		if err != nil {
			return nil, &models.DataLoadError{Column: "timestamp", Err: err}
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// InsertForecastRun stores a forecast run, assigning an id when empty
func (db *DB) InsertForecastRun(run *models.ForecastRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO forecast_runs (id, created_at, kind, year, month, device, samples, total_kwh, total_price)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.conn.Exec(query, run.ID, run.CreatedAt.Format(time.RFC3339), run.Kind, run.Year, run.Month,
		run.Device, run.Samples, run.TotalKWh, run.TotalPrice)
	if err != nil {
		return fmt.Errorf("inserting forecast run: %w", err)
	}

	return nil
}

// ListForecastRuns retrieves the runs of a month, newest first
func (db *DB) ListForecastRuns(year, month int) ([]models.ForecastRun, error) {
	return db.queryRuns(`
	SELECT id, created_at, kind, year, month, device, samples, total_kwh, total_price
	FROM forecast_runs
	WHERE year = ? AND month = ?
	ORDER BY created_at DESC
	`, year, month)
}

// ListUnpublishedRuns retrieves all runs not yet published, oldest first
func (db *DB) ListUnpublishedRuns() ([]models.ForecastRun, error) {
	return db.queryRuns(`
	SELECT id, created_at, kind, year, month, device, samples, total_kwh, total_price
	FROM forecast_runs
	WHERE published = 0
	ORDER BY created_at ASC
	`)
}

func (db *DB) queryRuns(query string, args ...any) ([]models.ForecastRun, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying forecast runs: %w", err)
	}
	defer rows.Close()

	var results []models.ForecastRun
	for rows.Next() {
		var run models.ForecastRun
		var createdAt string
		if err := rows.Scan(&run.ID, &createdAt, &run.Kind, &run.Year, &run.Month, &run.Device,
			&run.Samples, &run.TotalKWh, &run.TotalPrice); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		results = append(results, run)
	}

	return results, rows.Err()
}

// MarkPublished marks a forecast run as published
func (db *DB) MarkPublished(id string) error {
	query := `UPDATE forecast_runs SET published = 1 WHERE id = ?`
	_, err := db.conn.Exec(query, id)
	if err != nil {
		return fmt.Errorf("marking run as published: %w", err)
	}
	return nil
}
