package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemperatureF(t *testing.T) {
	tests := []struct {
		celsius    int
		fahrenheit int
	}{
		{celsius: -20, fahrenheit: -4},
		{celsius: 0, fahrenheit: 32},
		{celsius: 1, fahrenheit: 34},
		{celsius: 21, fahrenheit: 70},
		{celsius: 37, fahrenheit: 99},
		{celsius: 54, fahrenheit: 129},
	}

	for _, tt := range tests {
		forecast := WeatherForecast{TemperatureC: tt.celsius}
		assert.Equal(t, tt.fahrenheit, forecast.TemperatureF(), "celsius %d", tt.celsius)
	}
}

func TestMarshalJSONIncludesDerivedFahrenheit(t *testing.T) {
	forecast := WeatherForecast{
		Date:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		TemperatureC: 10,
		Summary:      "Cool",
	}

	body, err := json.Marshal(forecast)
	require.NoError(t, err)

	assert.JSONEq(t, `{"date":"2024-01-02T00:00:00Z","temperatureC":10,"summary":"Cool","temperatureF":50}`, string(body))
}

func TestUnmarshalJSONRecomputesFahrenheit(t *testing.T) {
	var forecast WeatherForecast
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-02T00:00:00Z","temperatureC":-5,"summary":"Chilly","temperatureF":999}`), &forecast))

	assert.Equal(t, -5, forecast.TemperatureC)
	assert.Equal(t, "Chilly", forecast.Summary)
	assert.Equal(t, 23, forecast.TemperatureF())
}
