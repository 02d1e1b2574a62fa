package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"usmscraper/pkg/models"
)

func TestBuildPayload(t *testing.T) {
	summary := &models.DaySummary{
		Date: time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC),
		Readings: []models.Reading{
			{Hour: "00:00", KWh: 1.2},
			{Hour: "01:00", KWh: 0.8},
		},
		TotalKWh: 2.0,
	}
	meters := []models.MeterInfo{
		{Type: "Water", RemainingUnits: 99},
		{Type: "Electricity", RemainingUnits: 123.45, RemainingBalance: 67.89,
			BalanceRaw: "BND 67.89", LastUpdated: "2025-05-29 13:40:12"},
	}
	now := time.Date(2025, 5, 30, 8, 0, 0, 0, time.UTC)

	p := BuildPayload(summary, meters, now)

	require.Equal(t, 2.0, p.TotalConsumption)
	require.Len(t, p.HourlyData, 2)
	require.NotNil(t, p.RemainingUnits)
	require.Equal(t, 123.45, *p.RemainingUnits)
	require.NotNil(t, p.RemainingBalance)
	require.Equal(t, 67.89, *p.RemainingBalance)
	require.Equal(t, "BND 67.89", p.BalanceRaw)
	require.Equal(t, "2025-05-30T08:00:00Z", p.Timestamp)
}

func TestBuildPayloadWithoutMeters(t *testing.T) {
	summary := &models.DaySummary{TotalKWh: 18.24}

	p := BuildPayload(summary, nil, time.Now())

	require.Nil(t, p.RemainingUnits)
	require.Nil(t, p.RemainingBalance)

	// Home Assistant templates expect hourly_data to always be an array.
	body, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.Equal(t, []any{}, decoded["hourly_data"])
	require.NotContains(t, decoded, "remaining_units")
}

func TestPayloadFieldNames(t *testing.T) {
	units := 1.0
	p := Payload{RemainingUnits: &units, TotalConsumption: 2.0, HourlyData: []models.Reading{{Hour: "00:00", KWh: 1.2}}}

	body, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))

	require.Contains(t, decoded, "remaining_units")
	require.Contains(t, decoded, "total_consumption")
	require.Contains(t, decoded, "mqtt_timestamp")

	hourly := decoded["hourly_data"].([]any)
	first := hourly[0].(map[string]any)
	require.Equal(t, "00:00", first["hour"])
	require.Equal(t, 1.2, first["consumption_kWh"])
}
