package configs

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvironmentDevelopment = "development"
	EnvironmentStaging     = "staging"
	EnvironmentProduction  = "production"
)

type EnvConfig struct {
	ApplicationName string
	Environment     string
}

var Env *EnvConfig

func init() {
	viper.AutomaticEnv()

	Env = &EnvConfig{
		ApplicationName: getStringOrDefault("APPLICATION_NAME", "weather-api"),
		Environment:     strings.ToLower(getStringOrDefault("APP_ENV", EnvironmentProduction)),
	}
}

// IsDevelopment reports whether the process runs in the development environment
func (env *EnvConfig) IsDevelopment() bool {
	return env.Environment == EnvironmentDevelopment
}

// IsStaging reports whether the process runs in the staging environment
func (env *EnvConfig) IsStaging() bool {
	return env.Environment == EnvironmentStaging
}

func getStringOrDefault(key, defaultValue string) string {
	value := viper.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}
