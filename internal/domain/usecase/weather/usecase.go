package weather

import "weather-api/internal/domain/entity"

type UseCase interface {
	// GetWeatherForecast generates the forecast for the next ForecastDays days, soonest first
	GetWeatherForecast() []entity.WeatherForecast
}
