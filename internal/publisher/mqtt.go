package publisher

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"usmscraper/internal/config"
	"usmscraper/pkg/models"
)

// Publisher sends scraped data to Home Assistant over MQTT. Everything for
// one run goes out as a single JSON payload on one topic, and Home Assistant
// splits it into sensors with value_json templates.
type Publisher struct {
	client    mqtt.Client
	baseTopic string
	retain    bool
}

// New connects to the MQTT broker configured for Home Assistant
func New(cfg config.MQTTConfig, baseTopic string) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	port := cfg.Port
	if port == 0 {
		port = 1883
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, port))
	opts.SetClientID("usmscraper")
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return &Publisher{
		client:    client,
		baseTopic: baseTopic,
		retain:    cfg.Retain,
	}, nil
}

// Payload is the JSON document published to <base_topic>/usms/data
type Payload struct {
	RemainingUnits   *float64         `json:"remaining_units,omitempty"`
	RemainingBalance *float64         `json:"remaining_balance,omitempty"`
	BalanceRaw       string           `json:"remaining_balance_raw,omitempty"`
	LastUpdated      string           `json:"last_updated,omitempty"`
	TotalConsumption float64          `json:"total_consumption"`
	HourlyData       []models.Reading `json:"hourly_data"`
	Timestamp        string           `json:"mqtt_timestamp"`
}

// BuildPayload assembles the MQTT payload from a scraped day and, when
// available, the electricity meter card.
func BuildPayload(summary *models.DaySummary, meters []models.MeterInfo, now time.Time) Payload {
	p := Payload{
		TotalConsumption: summary.TotalKWh,
		HourlyData:       summary.Readings,
		Timestamp:        now.Format(time.RFC3339),
	}
	if p.HourlyData == nil {
		p.HourlyData = []models.Reading{}
	}

	for i := range meters {
		if meters[i].Type != "Electricity" {
			continue
		}
		units := meters[i].RemainingUnits
		balance := meters[i].RemainingBalance
		p.RemainingUnits = &units
		p.RemainingBalance = &balance
		p.BalanceRaw = meters[i].BalanceRaw
		p.LastUpdated = meters[i].LastUpdated
		break
	}

	return p
}

// PublishDay sends one day's data to Home Assistant
func (p *Publisher) PublishDay(summary *models.DaySummary, meters []models.MeterInfo) error {
	payload := BuildPayload(summary, meters, time.Now())

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	topic := fmt.Sprintf("%s/usms/data", p.baseTopic)
	token := p.client.Publish(topic, 0, p.retain, body)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
