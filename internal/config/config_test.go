package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "data.csv", cfg.GetDataPath())
	require.Equal(t, "model.json", cfg.GetModelPath())
	require.Equal(t, "data.db", cfg.GetDBPath())
	require.Equal(t, "Rp", cfg.GetCurrency())
	require.Equal(t, 5*time.Minute, cfg.GetSamplingInterval())
	require.Equal(t, "missing", cfg.GetFillPolicy())
	require.Equal(t, "wattcast", cfg.MQTT.GetTopicPrefix())
	require.Zero(t, cfg.GetPricePerKWh())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	in := &Config{
		DataPath:        "readings.csv",
		PricePerKWh:     1444.7,
		SamplingMinutes: 15,
		FillPolicy:      "zero",
		MQTT:            MQTTConfig{Enabled: true, Broker: "localhost:1883"},
	}
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, in, out)
	require.Equal(t, 15*time.Minute, out.GetSamplingInterval())
}

func TestSet(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Set("price_per_kwh", "1444.70"))
	require.NoError(t, cfg.Set("sampling_minutes", "10"))
	require.NoError(t, cfg.Set("fill_policy", "previous"))
	require.NoError(t, cfg.Set("currency", "IDR"))
	require.Equal(t, 1444.7, cfg.GetPricePerKWh())
	require.Equal(t, 10*time.Minute, cfg.GetSamplingInterval())
	require.Equal(t, "previous", cfg.GetFillPolicy())
	require.Equal(t, "IDR", cfg.GetCurrency())

	require.Error(t, cfg.Set("price_per_kwh", "0"))
	require.Error(t, cfg.Set("price_per_kwh", "cheap"))
	require.Error(t, cfg.Set("sampling_minutes", "-5"))
	require.Error(t, cfg.Set("fill_policy", "linear"))
	require.Error(t, cfg.Set("mqtt", "on"))
	require.Equal(t, 1444.7, cfg.GetPricePerKWh(), "rejected values leave the setting unchanged")
}
