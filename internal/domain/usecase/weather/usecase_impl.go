package weather

import (
	"math/rand/v2"

	"weather-api/internal/domain/entity"
	"weather-api/pkg/util/clock"
)

const (
	ForecastDays = 5
	// MinTemperatureC is inclusive
	MinTemperatureC = -20
	// MaxTemperatureC is exclusive
	MaxTemperatureC = 55
)

// Summaries is ordered from coldest to hottest
var Summaries = []string{
	"Freezing", "Bracing", "Chilly", "Cool", "Mild", "Warm", "Balmy", "Hot", "Sweltering", "Scorching",
}

// RandomSource must be safe for concurrent use when the use case serves concurrent requests.
type RandomSource interface {
	IntN(n int) int
}

// sharedRandom uses the math/rand/v2 global generator, safe for concurrent use
type sharedRandom struct{}

func (sharedRandom) IntN(n int) int {
	return rand.IntN(n)
}

type weatherUseCase struct {
	clock  clock.Clock
	random RandomSource
}

func NewWeatherUseCase(clk clock.Clock, random RandomSource) UseCase {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if random == nil {
		random = sharedRandom{}
	}

	return &weatherUseCase{
		clock:  clk,
		random: random,
	}
}

// GetWeatherForecast generates the forecast for the next ForecastDays days, soonest first
func (uc *weatherUseCase) GetWeatherForecast() []entity.WeatherForecast {
	now := uc.clock.Now()
	forecasts := make([]entity.WeatherForecast, 0, ForecastDays)

	for index := 1; index <= ForecastDays; index++ {
		forecasts = append(forecasts, entity.WeatherForecast{
			Date:         now.AddDate(0, 0, index),
			TemperatureC: MinTemperatureC + uc.random.IntN(MaxTemperatureC-MinTemperatureC),
			Summary:      Summaries[uc.random.IntN(len(Summaries))],
		})
	}

	return forecasts
}
