package forecast

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jgoulah/wattcast/internal/series"
)

// ModelKey identifies one version of a model artifact on disk
type ModelKey struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// ModelKeyFor stats path
func ModelKeyFor(path string) (ModelKey, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ModelKey{}, fmt.Errorf("stat model file: %w", err)
	}
	return ModelKey{Path: path, ModTime: info.ModTime(), Size: info.Size()}, nil
}

// DataKey identifies the daily matrix an average forecaster was fit on
type DataKey struct {
	Source  string
	ModTime time.Time
	Size    int64
	Year    int
	Month   time.Month
}

// DataKeyFor builds a key for a reading log file and a month selection
func DataKeyFor(path string, year int, month time.Month) (DataKey, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DataKey{}, fmt.Errorf("stat data file: %w", err)
	}
	return DataKey{Source: path, ModTime: info.ModTime(), Size: info.Size(), Year: year, Month: month}, nil
}

// LoadFunc loads a model artifact
type LoadFunc func(path string) (Model, error)

// Cache holds the loaded model and fitted average forecasters of one
// session. Sessions must not share a Cache.
type Cache struct {
	load  LoadFunc
	group singleflight.Group

	mu       sync.Mutex
	modelKey ModelKey
	model    Model
	averages map[DataKey]*AverageForecaster
}

// NewCache returns an empty cache that loads models with load
func NewCache(load LoadFunc) *Cache {
	return &Cache{load: load, averages: make(map[DataKey]*AverageForecaster)}
}

// LinearModelLoader adapts LoadLinearModel to LoadFunc
func LinearModelLoader(path string) (Model, error) {
	return LoadLinearModel(path)
}

// Model returns the model at path, reloading it when the file changed
func (c *Cache) Model(path string) (Model, error) {
	key, err := ModelKeyFor(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.model != nil && c.modelKey == key {
		m := c.model
		c.mu.Unlock()
		return m, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(fmt.Sprintf("%s|%d|%d", key.Path, key.ModTime.UnixNano(), key.Size), func() (any, error) {
		return c.load(path)
	})
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}

	m := v.(Model)
	c.mu.Lock()
	c.modelKey = key
	c.model = m
	c.mu.Unlock()
	return m, nil
}

// Average returns the forecaster fit for key, fitting d on a miss
func (c *Cache) Average(key DataKey, d *series.Daily) *AverageForecaster {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.averages[key]; ok {
		return f
	}
	f := NewAverageForecaster().Fit(d)
	c.averages[key] = f
	return f
}

// Invalidate drops the cached model and forecasters
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.model = nil
	c.modelKey = ModelKey{}
	c.averages = make(map[DataKey]*AverageForecaster)
}
