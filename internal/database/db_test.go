package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jgoulah/wattcast/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertReadingsIgnoresDuplicates(t *testing.T) {
	db := openTestDB(t)
	ts := time.Date(2024, time.April, 1, 10, 0, 0, 0, time.UTC)
	readings := []models.Reading{
		{Timestamp: ts.Add(5 * time.Minute), DeviceID: "TV", Voltage: 220, Current: 0.3},
		{Timestamp: ts, DeviceID: "TV", Voltage: 220, Current: 0.2},
		{Timestamp: ts, DeviceID: "Fridge", Voltage: 220, Current: 0.5},
	}

	n, err := db.InsertReadings(readings)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = db.InsertReadings(readings[:2])
	require.NoError(t, err)
	require.Zero(t, n)

	got, err := db.ListReadings()
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "Fridge", got[0].DeviceID)
	require.Equal(t, ts, got[1].Timestamp)
	require.InDelta(t, 66.0, got[2].PowerW(), 1e-9)
}

func TestForecastRuns(t *testing.T) {
	db := openTestDB(t)

	first := &models.ForecastRun{
		CreatedAt:  time.Date(2024, time.April, 20, 8, 0, 0, 0, time.UTC),
		Kind:       models.RunAverage,
		Year:       2024,
		Month:      4,
		Device:     "All",
		TotalKWh:   36,
		TotalPrice: 54000,
	}
	require.NoError(t, db.InsertForecastRun(first))
	require.NotEmpty(t, first.ID)

	second := &models.ForecastRun{Kind: models.RunModel, Year: 2024, Month: 4, Device: "TV", Samples: 288, TotalKWh: 1.2}
	require.NoError(t, db.InsertForecastRun(second))

	runs, err := db.ListForecastRuns(2024, 4)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, second.ID, runs[0].ID)
	require.Equal(t, 288, runs[0].Samples)

	require.NoError(t, db.MarkPublished(first.ID))
	pending, err := db.ListUnpublishedRuns()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, second.ID, pending[0].ID)
}
