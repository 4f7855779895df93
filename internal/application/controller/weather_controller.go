package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"weather-api/internal/domain/gateway/metrics"
	"weather-api/internal/domain/usecase/weather"
)

const GetWeatherForecastRoute = "GetWeatherForecast"

type WeatherController struct {
	api      *echo.Group
	useCase  weather.UseCase
	recorder metrics.Recorder
}

func NewWeatherController(api *echo.Group, useCase weather.UseCase, recorder metrics.Recorder) *WeatherController {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &WeatherController{api: api, useCase: useCase, recorder: recorder}
}

// InitWeatherRoutes initializes weather routes, middlewares apply to the forecast route only
func (controller *WeatherController) InitWeatherRoutes(middlewares ...echo.MiddlewareFunc) {
	controller.api.GET("/weatherforecast", controller.GetWeatherForecast, middlewares...).Name = GetWeatherForecastRoute
}

// GetWeatherForecast godoc
// @Summary Get the weather forecast
// @Description Generate a random forecast for each of the next five days
// @Tags weather
// @Produce json
// @Success 200 {array} entity.WeatherForecast "Forecast for the next five days"
// @Failure 429 {object} map[string]string "Too many requests"
// @Router /weatherforecast [get]
func (controller *WeatherController) GetWeatherForecast(c echo.Context) error {
	controller.recorder.RecordForecastRequest(c.Request().Context())

	return c.JSON(http.StatusOK, controller.useCase.GetWeatherForecast())
}
