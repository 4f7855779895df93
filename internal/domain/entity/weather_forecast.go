package entity

import (
	"encoding/json"
	"math"
	"time"
)

// fahrenheitDivisor is the Celsius to Fahrenheit scale factor (5/9) rounded to four places.
const fahrenheitDivisor = 0.5556

// WeatherForecast is one day of a generated forecast
type WeatherForecast struct {
	Date         time.Time `json:"date"`
	TemperatureC int       `json:"temperatureC"`
	Summary      string    `json:"summary"`
}

// TemperatureF is derived from TemperatureC on every call and never stored.
func (forecast WeatherForecast) TemperatureF() int {
	return 32 + int(math.Round(float64(forecast.TemperatureC)/fahrenheitDivisor))
}

// weatherForecastJSON is the wire shape, with the derived Fahrenheit value
type weatherForecastJSON struct {
	Date         time.Time `json:"date"`
	TemperatureC int       `json:"temperatureC"`
	Summary      string    `json:"summary"`
	TemperatureF int       `json:"temperatureF"`
}

func (forecast WeatherForecast) MarshalJSON() ([]byte, error) {
	return json.Marshal(weatherForecastJSON{
		Date:         forecast.Date,
		TemperatureC: forecast.TemperatureC,
		Summary:      forecast.Summary,
		TemperatureF: forecast.TemperatureF(),
	})
}

// UnmarshalJSON ignores temperatureF, it is recomputed from temperatureC.
func (forecast *WeatherForecast) UnmarshalJSON(data []byte) error {
	var wire weatherForecastJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	forecast.Date = wire.Date
	forecast.TemperatureC = wire.TemperatureC
	forecast.Summary = wire.Summary
	return nil
}
