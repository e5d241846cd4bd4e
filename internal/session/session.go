// Package session holds the readings of one user session and the matrices
// derived from the current month selection.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jgoulah/wattcast/internal/loader"
	"github.com/jgoulah/wattcast/internal/series"
	"github.com/jgoulah/wattcast/pkg/models"
)

// Session is single-writer state; it is not safe for concurrent use
type Session struct {
	readings []models.Reading
	agg      series.Aggregator
	logger   *slog.Logger

	pricePerKWh float64
	year        int
	month       time.Month
	minutely    *series.Minutely
	daily       *series.Daily
}

// Option configures a Session
type Option func(*Session)

// WithAggregator overrides the interval and fill policy
func WithAggregator(agg series.Aggregator) Option {
	return func(s *Session) { s.agg = agg }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New wraps readings loaded once for the session
func New(readings []models.Reading, opts ...Option) *Session {
	s := &Session{
		readings: readings,
		agg:      series.NewAggregator(series.DefaultInterval, series.FillMissing),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Months lists the available year/month selections
func (s *Session) Months() map[int][]time.Month {
	return loader.Months(s.readings)
}

// SetPrice sets the price per kWh used by summaries
func (s *Session) SetPrice(pricePerKWh float64) { s.pricePerKWh = pricePerKWh }

// Price returns the price per kWh
func (s *Session) Price() float64 { return s.pricePerKWh }

// Select derives the minutely and daily matrices of one month. A month
// without readings yields empty matrices.
func (s *Session) Select(year int, month time.Month) error {
	if year == 0 || month < time.January || month > time.December {
		return fmt.Errorf("year and month required: %w", models.ErrSelectionIncomplete)
	}
	if s.pricePerKWh <= 0 {
		return fmt.Errorf("price per kWh required: %w", models.ErrSelectionIncomplete)
	}

	monthly := series.FilterMonth(s.readings, year, month)
	s.year, s.month = year, month
	s.minutely = s.agg.ToMinutely(monthly)
	s.daily = s.agg.ToDaily(s.minutely)

	s.logger.Debug("month selected",
		"year", year,
		"month", month.String(),
		"readings", len(monthly),
		"devices", s.minutely.Schema().Len(),
		"rows", s.minutely.Len(),
		"fill", s.agg.Fill.String(),
	)
	return nil
}

// Selected reports the current selection
func (s *Session) Selected() (year int, month time.Month, ok bool) {
	return s.year, s.month, s.minutely != nil
}

// Minutely returns the power matrix of the selected month
func (s *Session) Minutely() (*series.Minutely, error) {
	if s.minutely == nil {
		return nil, fmt.Errorf("no month selected: %w", models.ErrSelectionIncomplete)
	}
	return s.minutely, nil
}

// Daily returns the energy matrix of the selected month
func (s *Session) Daily() (*series.Daily, error) {
	if s.daily == nil {
		return nil, fmt.Errorf("no month selected: %w", models.ErrSelectionIncomplete)
	}
	return s.daily, nil
}

// LastTimestamp returns the last observed slot of the selected month
func (s *Session) LastTimestamp() (time.Time, bool) {
	if s.minutely == nil {
		return time.Time{}, false
	}
	return s.minutely.End()
}

// Aggregator returns the aggregator in use
func (s *Session) Aggregator() series.Aggregator { return s.agg }
