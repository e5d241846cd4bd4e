package publisher

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-json-experiment/json"

	"github.com/jgoulah/wattcast/internal/config"
	"github.com/jgoulah/wattcast/pkg/models"
)

// publishTimeout bounds the wait for a broker acknowledgement
var publishTimeout = 10 * time.Second

// Publisher sends month-end projections to MQTT and the Home Assistant HTTP API
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
	httpClient  *http.Client
}

// New creates a new publisher (supports both MQTT and HA HTTP API)
func New(mqttCfg config.MQTTConfig, haCfg config.HAConfig) (*Publisher, error) {
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	var client mqtt.Client
	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("wattcast")
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
	}

	return &Publisher{
		client:      client,
		topicPrefix: mqttCfg.GetTopicPrefix(),
		haConfig:    haCfg,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Enabled reports whether any publication target is configured
func (p *Publisher) Enabled() bool {
	return p.client != nil || p.haConfig.Enabled
}

// Publish sends a forecast run to every enabled target. Summaries carry the
// per-device month-end projection and go to MQTT only.
func (p *Publisher) Publish(run models.ForecastRun, summaries []models.UsageSummary) error {
	if !p.Enabled() {
		return fmt.Errorf("no publication target is enabled in config")
	}

	if p.client != nil {
		if err := p.publishMQTT(run, summaries); err != nil {
			return err
		}
	}
	if p.haConfig.Enabled {
		if err := p.publishHA(run); err != nil {
			return err
		}
	}
	return nil
}

// Topic returns the MQTT topic for a device metric
func (p *Publisher) Topic(device, metric string) string {
	return fmt.Sprintf("%s/%s/%s", p.topicPrefix, topicSegment(device), metric)
}

func (p *Publisher) publishMQTT(run models.ForecastRun, summaries []models.UsageSummary) error {
	messages := map[string]string{
		p.Topic(models.AggregateLabel, "projected_kwh"):   fmt.Sprintf("%.2f", run.TotalKWh),
		p.Topic(models.AggregateLabel, "projected_price"): fmt.Sprintf("%.0f", run.TotalPrice),
	}
	for _, s := range summaries {
		messages[p.Topic(s.Device.String(), "projected_kwh")] = fmt.Sprintf("%.2f", s.KWh)
		messages[p.Topic(s.Device.String(), "projected_price")] = fmt.Sprintf("%.0f", s.Price)
	}

	for topic, payload := range messages {
		token := p.client.Publish(topic, 1, true, payload)
		if !token.WaitTimeout(publishTimeout) {
			return fmt.Errorf("publishing %s: timed out", topic)
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("publishing %s: %w", topic, err)
		}
	}
	return nil
}

// HAState is the body of a Home Assistant state update
type HAState struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

func (p *Publisher) publishHA(run models.ForecastRun) error {
	apiURL := fmt.Sprintf("%s/api/states/%s", strings.TrimRight(p.haConfig.URL, "/"), p.haConfig.EntityID)

	payload := HAState{
		State: fmt.Sprintf("%.2f", run.TotalKWh),
		Attributes: map[string]any{
			"unit_of_measurement": "kWh",
			"device_class":        "energy",
			"device":              run.Device,
			"year":                run.Year,
			"month":               run.Month,
			"projected_price":     run.TotalPrice,
			"forecast_kind":       run.Kind,
			"run_id":              run.ID,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	// 201 on first creation of the entity, 200 afterwards
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

func topicSegment(device string) string {
	s := strings.ToLower(strings.TrimSpace(device))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '+', '#':
			return '_'
		}
		return r
	}, s)
}
