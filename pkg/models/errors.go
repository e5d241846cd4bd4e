package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDataLoad matches any *DataLoadError.
	ErrDataLoad = errors.New("data load error")
	// ErrSelectionIncomplete is returned while the year/month, price or device
	// selection is still missing. Callers wait for more input.
	ErrSelectionIncomplete = errors.New("selection incomplete")
	// ErrForecastUnavailable is returned when a forecaster is not fit, the
	// horizon is empty or the series has no resolvable time range.
	ErrForecastUnavailable = errors.New("forecast unavailable")
)

// DataLoadError reports a malformed reading log
type DataLoadError struct {
	Line   int    // 1-based line in the log, 0 when not tied to a row
	Column string // offending column, if any
	Err    error
}

func (e *DataLoadError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("loading readings: line %d, column %q: %v", e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("loading readings: line %d: %v", e.Line, e.Err)
	case e.Column != "":
		return fmt.Sprintf("loading readings: column %q: %v", e.Column, e.Err)
	default:
		return fmt.Sprintf("loading readings: %v", e.Err)
	}
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDataLoad) match every load failure
func (e *DataLoadError) Is(target error) bool { return target == ErrDataLoad }
