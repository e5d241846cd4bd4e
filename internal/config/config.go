package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	DataPath        string     `yaml:"data_path,omitempty"`        // CSV reading log
	ModelPath       string     `yaml:"model_path,omitempty"`       // Trained model artifact
	DBPath          string     `yaml:"db_path,omitempty"`          // SQLite store
	PricePerKWh     float64    `yaml:"price_per_kwh,omitempty"`    // Cost per kWh
	Currency        string     `yaml:"currency,omitempty"`         // Display label, e.g. "Rp"
	SamplingMinutes int        `yaml:"sampling_minutes,omitempty"` // Reading interval (fallback: 5)
	FillPolicy      string     `yaml:"fill_policy,omitempty"`      // missing, zero or previous
	MQTT            MQTTConfig `yaml:"mqtt,omitempty"`
	HomeAssistant   HAConfig   `yaml:"home_assistant,omitempty"`
}

// MQTTConfig holds MQTT broker configuration
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`                 // host:port
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // default "wattcast"
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://homeassistant.local:8123"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.wattcast_month_projection"
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetDataPath returns the reading log path, defaulting to ./data.csv
func (c *Config) GetDataPath() string {
	if c.DataPath == "" {
		return "data.csv"
	}
	return c.DataPath
}

// GetModelPath returns the model artifact path, defaulting to ./model.json
func (c *Config) GetModelPath() string {
	if c.ModelPath == "" {
		return "model.json"
	}
	return c.ModelPath
}

// GetDBPath returns the database path, defaulting to ./data.db
func (c *Config) GetDBPath() string {
	if c.DBPath == "" {
		return "data.db"
	}
	return c.DBPath
}

// GetPricePerKWh returns the cost per kWh, or 0 if not set
func (c *Config) GetPricePerKWh() float64 {
	return c.PricePerKWh
}

// GetCurrency returns the currency label with a default of "Rp"
func (c *Config) GetCurrency() string {
	if c.Currency == "" {
		return "Rp"
	}
	return c.Currency
}

// GetSamplingInterval returns the reading interval with a default of 5 minutes
func (c *Config) GetSamplingInterval() time.Duration {
	if c.SamplingMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.SamplingMinutes) * time.Minute
}

// GetFillPolicy returns the gap policy with a default of "missing"
func (c *Config) GetFillPolicy() string {
	if c.FillPolicy == "" {
		return "missing"
	}
	return c.FillPolicy
}

// GetTopicPrefix returns the MQTT topic prefix with a default of "wattcast"
func (m MQTTConfig) GetTopicPrefix() string {
	if m.TopicPrefix == "" {
		return "wattcast"
	}
	return m.TopicPrefix
}

// Keys accepted by Set
var Keys = []string{"data_path", "model_path", "db_path", "price_per_kwh", "currency", "sampling_minutes", "fill_policy"}

// Set assigns a top-level setting from its string form
func (c *Config) Set(key, value string) error {
	switch key {
	case "data_path":
		c.DataPath = value
	case "model_path":
		c.ModelPath = value
	case "db_path":
		c.DBPath = value
	case "currency":
		c.Currency = value
	case "price_per_kwh":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v <= 0 {
			return fmt.Errorf("price_per_kwh must be a positive number, got %q", value)
		}
		c.PricePerKWh = v
	case "sampling_minutes":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 {
			return fmt.Errorf("sampling_minutes must be a positive integer, got %q", value)
		}
		c.SamplingMinutes = v
	case "fill_policy":
		switch value {
		case "missing", "zero", "previous":
			c.FillPolicy = value
		default:
			return fmt.Errorf("fill_policy must be missing, zero or previous, got %q", value)
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}
