package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"weather-api/configs"
	_ "weather-api/docs"
	"weather-api/internal/application/controller"
	"weather-api/internal/application/middleware"
	"weather-api/internal/domain/gateway/metrics"
	"weather-api/internal/domain/usecase/health"
	"weather-api/internal/domain/usecase/weather"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
	"weather-api/pkg/resource"
)

// Config holds the HTTP server settings
type Config struct {
	Port            string
	ContextPath     string
	ShutdownTimeout time.Duration
	TLSPort         string
	TLSCertFile     string
	TLSKeyFile      string
	Environment     string
}

// NewConfigFromProperties reads the server settings from application properties and the environment
func NewConfigFromProperties() *Config {
	return &Config{
		Port:            resource.GetStringOrDefault("app.server.port", "8080"),
		ContextPath:     strings.TrimSuffix(resource.GetString("app.server.context-path"), "/"),
		ShutdownTimeout: resource.GetDurationOrDefault("app.server.shutdown-timeout", 10*time.Second),
		TLSPort:         resource.GetStringOrDefault("app.server.tls.port", "8443"),
		TLSCertFile:     resource.GetString("app.server.tls.cert-file"),
		TLSKeyFile:      resource.GetString("app.server.tls.key-file"),
		Environment:     configs.Env.Environment,
	}
}

// Dependencies are the use cases and infrastructure the routes are built from
type Dependencies struct {
	WeatherUseCase weather.UseCase
	HealthUseCase  health.UseCase
	Recorder       metrics.Recorder
	MetricsHandler http.Handler
	// RateLimitStore enables rate limiting on the forecast route when set
	RateLimitStore middleware.RateLimitStore
}

type Server struct {
	echo   *echo.Echo
	config *Config
}

func NewServer(config *Config, deps Dependencies) *Server {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	server := &Server{echo: e, config: config}

	if server.TLSEnabled() {
		e.Pre(middleware.HTTPSRedirect(config.TLSPort, skipInfrastructurePaths))
		log.Info(msg.GetMessage("app.server.tls-enabled"))
	}
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	middleware.SetupRequestLogger(e)

	if deps.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(deps.MetricsHandler))
	}

	if server.SwaggerEnabled() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
		log.Info(msg.GetMessage("app.swagger.enabled", config.Environment))
	}

	api := e.Group(config.ContextPath)

	var forecastMiddlewares []echo.MiddlewareFunc
	if deps.RateLimitStore != nil {
		forecastMiddlewares = append(forecastMiddlewares, middleware.RateLimit(deps.RateLimitStore))
	}

	controller.NewHealthController(api, deps.HealthUseCase).InitHealthRoutes()
	controller.NewWeatherController(api, deps.WeatherUseCase, deps.Recorder).InitWeatherRoutes(forecastMiddlewares...)

	return server
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) TLSEnabled() bool {
	return s.config.TLSCertFile != "" && s.config.TLSKeyFile != ""
}

// SwaggerEnabled reports whether the documentation UI is served, development and staging only
func (s *Server) SwaggerEnabled() bool {
	env := configs.EnvConfig{Environment: s.config.Environment}
	return env.IsDevelopment() || env.IsStaging()
}

// Start listens on the plain port, and on the TLS port when configured, until Shutdown
func (s *Server) Start() error {
	listeners := 1
	result := make(chan error, 2)

	go func() {
		result <- s.echo.Start(":" + s.config.Port)
	}()

	if s.TLSEnabled() {
		listeners++
		go func() {
			result <- s.echo.StartTLS(":"+s.config.TLSPort, s.config.TLSCertFile, s.config.TLSKeyFile)
		}()
	}

	for i := 0; i < listeners; i++ {
		if err := <-result; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones up to the shutdown timeout
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

func skipInfrastructurePaths(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasSuffix(path, "/health") || path == "/metrics"
}
