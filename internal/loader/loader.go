// Package loader parses per-device electrical reading logs.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/wattcast/pkg/models"
)

// Required columns of the reading log
const (
	ColumnTimestamp = "Timestamp"
	ColumnVoltage   = "Voltage (V)"
	ColumnCurrent   = "Ampere (A)"
	ColumnDeviceID  = "Device ID"
)

var requiredColumns = []string{ColumnTimestamp, ColumnVoltage, ColumnCurrent, ColumnDeviceID}

// LoadFile reads a CSV reading log from disk
func LoadFile(path string) ([]models.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &models.DataLoadError{Err: fmt.Errorf("opening %s: %w", path, err)}
	}
	defer f.Close()

	return Load(f)
}

// Load parses a CSV reading log. The result is sorted by timestamp, then
// device id. Any malformed row aborts the load.
func Load(r io.Reader) ([]models.Reading, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &models.DataLoadError{Err: errors.New("empty log")}
		}
		return nil, &models.DataLoadError{Line: 1, Err: fmt.Errorf("reading header: %w", err)}
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &models.DataLoadError{Column: col, Err: errors.New("missing required column")}
		}
	}

	var readings []models.Reading
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &models.DataLoadError{Line: line, Err: err}
		}

		reading, err := parseRecord(record, index, line)
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}

	sort.SliceStable(readings, func(i, j int) bool {
		if !readings[i].Timestamp.Equal(readings[j].Timestamp) {
			return readings[i].Timestamp.Before(readings[j].Timestamp)
		}
		return readings[i].DeviceID < readings[j].DeviceID
	})

	return readings, nil
}

func parseRecord(record []string, index map[string]int, line int) (models.Reading, error) {
	get := func(col string) string {
		if i := index[col]; i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	ts, err := time.Parse(models.TimestampLayout, get(ColumnTimestamp))
	if err != nil {
		return models.Reading{}, &models.DataLoadError{Line: line, Column: ColumnTimestamp, Err: err}
	}

	voltage, err := strconv.ParseFloat(get(ColumnVoltage), 64)
	if err != nil {
		return models.Reading{}, &models.DataLoadError{Line: line, Column: ColumnVoltage, Err: err}
	}

	current, err := strconv.ParseFloat(get(ColumnCurrent), 64)
	if err != nil {
		return models.Reading{}, &models.DataLoadError{Line: line, Column: ColumnCurrent, Err: err}
	}

	deviceID := get(ColumnDeviceID)
	if deviceID == "" {
		return models.Reading{}, &models.DataLoadError{Line: line, Column: ColumnDeviceID, Err: errors.New("empty device id")}
	}

	return models.Reading{
		Timestamp: ts,
		DeviceID:  deviceID,
		Voltage:   voltage,
		Current:   current,
	}, nil
}

// Months returns the months with data for each year, ascending
func Months(readings []models.Reading) map[int][]time.Month {
	seen := make(map[int]map[time.Month]bool)
	for _, r := range readings {
		y := r.Timestamp.Year()
		if seen[y] == nil {
			seen[y] = make(map[time.Month]bool)
		}
		seen[y][r.Timestamp.Month()] = true
	}

	out := make(map[int][]time.Month, len(seen))
	for y, months := range seen {
		list := make([]time.Month, 0, len(months))
		for m := range months {
			list = append(list, m)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		out[y] = list
	}
	return out
}
