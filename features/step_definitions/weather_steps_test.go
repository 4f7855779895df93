package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"regexp"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"weather-api/internal/application/schedule"
	"weather-api/internal/application/server"
	"weather-api/internal/domain/gateway/console"
	"weather-api/internal/domain/model"
	"weather-api/internal/domain/usecase/backgroundwork"
	"weather-api/internal/domain/usecase/health"
	"weather-api/internal/domain/usecase/weather"
	"weather-api/pkg/util/clock"
)

var backgroundWorkLine = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}) - (.+)$`)

type consoleBuffer struct {
	mutex  sync.Mutex
	buffer bytes.Buffer
}

func (b *consoleBuffer) Write(p []byte) (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

func (b *consoleBuffer) lines() []string {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	content := strings.TrimSpace(b.buffer.String())
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

type testContext struct {
	clock     clock.Clock
	server    *httptest.Server
	response  *http.Response
	forecasts []map[string]any

	console   *consoleBuffer
	scheduler *schedule.BackgroundWorkScheduler
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "weather-api",
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{".."},
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &testContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		*tc = testContext{clock: clock.RealClock{}, console: &consoleBuffer{}}
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc.server != nil {
			tc.server.Close()
		}
		if tc.scheduler != nil {
			_ = tc.scheduler.Stop()
		}
		return ctx, nil
	})

	ctx.Step(`^the clock is fixed at "([^"]*)"$`, tc.theClockIsFixedAt)
	ctx.Step(`^the weather service is running$`, tc.theWeatherServiceIsRunning)
	ctx.Step(`^I request the weather forecast$`, tc.iRequestTheWeatherForecast)
	ctx.Step(`^I should receive a successful response$`, tc.iShouldReceiveSuccessfulResponse)
	ctx.Step(`^the response should contain (\d+) forecasts$`, tc.theResponseShouldContainForecasts)
	ctx.Step(`^the first forecast date should be "([^"]*)"$`, tc.theFirstForecastDateShouldBe)
	ctx.Step(`^the last forecast date should be "([^"]*)"$`, tc.theLastForecastDateShouldBe)
	ctx.Step(`^the forecast dates should increase by one day$`, tc.theForecastDatesShouldIncreaseByOneDay)
	ctx.Step(`^every temperatureC should be between (-?\d+) and (-?\d+)$`, tc.everyTemperatureCShouldBeBetween)
	ctx.Step(`^every summary should be one of the known summaries$`, tc.everySummaryShouldBeKnown)
	ctx.Step(`^every temperatureF should be derived from temperatureC$`, tc.everyTemperatureFShouldBeDerived)

	ctx.Step(`^the background work is started$`, tc.theBackgroundWorkIsStarted)
	ctx.Step(`^the background work is stopped$`, tc.theBackgroundWorkIsStopped)
	ctx.Step(`^within (\d+) milliseconds the console should contain a "([^"]*)" line$`, tc.withinMillisecondsTheConsoleShouldContain)
	ctx.Step(`^the console should contain a "([^"]*)" line$`, tc.theConsoleShouldContain)
	ctx.Step(`^the console should contain exactly one "([^"]*)" line$`, tc.theConsoleShouldContainExactlyOne)
	ctx.Step(`^the stop line should be the last line$`, tc.theStopLineShouldBeTheLastLine)
	ctx.Step(`^the stop line timestamp should not be before the start line timestamp$`, tc.theStopLineShouldNotBeBeforeTheStartLine)
}

type upGateway struct{}

func (upGateway) Health(context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{Status: model.StatusUp}
}

func (tc *testContext) theClockIsFixedAt(value string) error {
	instant, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return err
	}
	tc.clock = clock.FixedClock{Instant: instant}
	return nil
}

func (tc *testContext) theWeatherServiceIsRunning() error {
	srv := server.NewServer(&server.Config{Port: "8080", Environment: "production"}, server.Dependencies{
		WeatherUseCase: weather.NewWeatherUseCase(tc.clock, nil),
		HealthUseCase:  health.NewHealthUseCase(upGateway{}, nil),
	})

	tc.server = httptest.NewServer(srv.Echo())
	return nil
}

func (tc *testContext) iRequestTheWeatherForecast() error {
	resp, err := http.Get(tc.server.URL + "/weatherforecast")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.response = resp
	return json.NewDecoder(resp.Body).Decode(&tc.forecasts)
}

func (tc *testContext) iShouldReceiveSuccessfulResponse() error {
	if tc.response.StatusCode != http.StatusOK {
		return fmt.Errorf("expected status 200, got %d", tc.response.StatusCode)
	}
	return nil
}

func (tc *testContext) theResponseShouldContainForecasts(count int) error {
	if len(tc.forecasts) != count {
		return fmt.Errorf("expected %d forecasts, got %d", count, len(tc.forecasts))
	}
	return nil
}

func (tc *testContext) theFirstForecastDateShouldBe(expected string) error {
	return tc.forecastDateShouldBe(0, expected)
}

func (tc *testContext) theLastForecastDateShouldBe(expected string) error {
	return tc.forecastDateShouldBe(len(tc.forecasts)-1, expected)
}

func (tc *testContext) forecastDateShouldBe(index int, expected string) error {
	if index < 0 || index >= len(tc.forecasts) {
		return fmt.Errorf("no forecast at index %d", index)
	}
	if date := tc.forecasts[index]["date"]; date != expected {
		return fmt.Errorf("expected date %s at index %d, got %v", expected, index, date)
	}
	return nil
}

func (tc *testContext) theForecastDatesShouldIncreaseByOneDay() error {
	var previous time.Time
	for i, forecast := range tc.forecasts {
		date, err := time.Parse(time.RFC3339, fmt.Sprint(forecast["date"]))
		if err != nil {
			return err
		}
		if i > 0 && !date.Equal(previous.AddDate(0, 0, 1)) {
			return fmt.Errorf("forecast %d is dated %s, expected one day after %s", i, date, previous)
		}
		previous = date
	}
	return nil
}

func (tc *testContext) everyTemperatureCShouldBeBetween(lower, upper int) error {
	for i, forecast := range tc.forecasts {
		value, ok := forecast["temperatureC"].(float64)
		if !ok || value != math.Trunc(value) {
			return fmt.Errorf("forecast %d temperatureC %v is not an integer", i, forecast["temperatureC"])
		}
		if int(value) < lower || int(value) > upper {
			return fmt.Errorf("forecast %d temperatureC %v outside [%d, %d]", i, value, lower, upper)
		}
	}
	return nil
}

func (tc *testContext) everySummaryShouldBeKnown() error {
	for i, forecast := range tc.forecasts {
		summary, _ := forecast["summary"].(string)
		if !slices.Contains(weather.Summaries, summary) {
			return fmt.Errorf("forecast %d has unknown summary %v", i, forecast["summary"])
		}
	}
	return nil
}

func (tc *testContext) everyTemperatureFShouldBeDerived() error {
	for i, forecast := range tc.forecasts {
		celsius, _ := forecast["temperatureC"].(float64)
		fahrenheit, _ := forecast["temperatureF"].(float64)
		if expected := 32 + math.Round(celsius/0.5556); fahrenheit != expected {
			return fmt.Errorf("forecast %d temperatureF %v, expected %v", i, fahrenheit, expected)
		}
	}
	return nil
}

func (tc *testContext) theBackgroundWorkIsStarted() error {
	useCase := backgroundwork.NewBackgroundWorkUseCase(nil, console.NewZapConsoleGateway(tc.console), nil, nil)

	scheduler, err := schedule.NewBackgroundWorkScheduler(useCase, &schedule.BackgroundWorkSchedulerConfig{
		Interval:    time.Second,
		StopTimeout: time.Second,
	})
	if err != nil {
		return err
	}
	tc.scheduler = scheduler

	return scheduler.Start()
}

func (tc *testContext) theBackgroundWorkIsStopped() error {
	return tc.scheduler.Stop()
}

func (tc *testContext) linesWith(text string) []string {
	var matched []string
	for _, line := range tc.console.lines() {
		if parts := backgroundWorkLine.FindStringSubmatch(line); parts != nil && parts[2] == text {
			matched = append(matched, line)
		}
	}
	return matched
}

func (tc *testContext) withinMillisecondsTheConsoleShouldContain(millis int, text string) error {
	deadline := time.Now().Add(time.Duration(millis) * time.Millisecond)
	for time.Now().Before(deadline) {
		if len(tc.linesWith(text)) > 0 {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return tc.theConsoleShouldContain(text)
}

func (tc *testContext) theConsoleShouldContain(text string) error {
	if len(tc.linesWith(text)) == 0 {
		return fmt.Errorf("no %q line in console output %q", text, tc.console.lines())
	}
	return nil
}

func (tc *testContext) theConsoleShouldContainExactlyOne(text string) error {
	if count := len(tc.linesWith(text)); count != 1 {
		return fmt.Errorf("expected one %q line, got %d", text, count)
	}
	return nil
}

func (tc *testContext) theStopLineShouldBeTheLastLine() error {
	lines := tc.console.lines()
	if len(lines) == 0 || !strings.HasSuffix(lines[len(lines)-1], " - Stop Background Work") {
		return fmt.Errorf("last console line is not the stop line: %q", lines)
	}
	return nil
}

func (tc *testContext) theStopLineShouldNotBeBeforeTheStartLine() error {
	starts := tc.linesWith("Start Background Work")
	stops := tc.linesWith("Stop Background Work")
	if len(starts) == 0 || len(stops) == 0 {
		return fmt.Errorf("missing start or stop line in %q", tc.console.lines())
	}

	started, err := time.Parse("15:04:05", starts[0][:8])
	if err != nil {
		return err
	}
	stopped, err := time.Parse("15:04:05", stops[0][:8])
	if err != nil {
		return err
	}
	// a run straddling midnight wraps the clock
	if stopped.Before(started) && started.Hour() != 23 {
		return fmt.Errorf("stop line %s is before start line %s", stops[0], starts[0])
	}
	return nil
}
