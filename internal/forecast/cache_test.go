package forecast

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheReloadsOnModTime(t *testing.T) {
	path := writeModel(t, `{"sampling_minutes": 5, "lags": 1, "devices": {}}`)
	loads := 0
	cache := NewCache(func(p string) (Model, error) {
		loads++
		return LinearModelLoader(p)
	})

	first, err := cache.Model(path)
	require.NoError(t, err)
	second, err := cache.Model(path)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, loads)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	_, err = cache.Model(path)
	require.NoError(t, err)
	require.Equal(t, 2, loads)

	cache.Invalidate()
	_, err = cache.Model(path)
	require.NoError(t, err)
	require.Equal(t, 3, loads)
}

func TestCacheAverageKeyed(t *testing.T) {
	_, d := constantMonth(t)
	cache := NewCache(LinearModelLoader)

	key := DataKey{Source: "data.csv", Year: 2024, Month: time.April}
	a := cache.Average(key, d)
	require.Same(t, a, cache.Average(key, d))

	other := key
	other.Month = time.May
	require.NotSame(t, a, cache.Average(other, d))
}

func TestCacheMissingModel(t *testing.T) {
	cache := NewCache(LinearModelLoader)
	_, err := cache.Model("does-not-exist.json")
	require.Error(t, err)
}
