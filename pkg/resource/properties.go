package resource

import (
	"bytes"
	"errors"
	"log"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/spf13/viper"

	"weather-api/configs"
)

var (
	properties *viper.Viper
	mutex      sync.RWMutex
	envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)
)

// init loads application properties from YAML
func init() {
	var value, ok = os.LookupEnv("PROPERTIES_FILE_PATH")
	if !ok {
		value = "configs/application.yml"
	}
	Init(value)
}

// Init loads the properties file at filepath. When the file does not exist the
// defaults embedded in the binary are used instead.
func Init(filepath string) {
	raw, err := os.ReadFile(filepath)
	if errors.Is(err, os.ErrNotExist) {
		raw = configs.DefaultProperties
	} else if err != nil {
		log.Fatalf("Fail to read properties: %v", err)
	}

	if err := Load(raw); err != nil {
		log.Fatalf("Fail to read properties: %v", err)
	}
}

// Load replaces the current properties with the YAML document in raw.
func Load(raw []byte) error {
	source := viper.New()
	source.SetConfigType("yml")
	if err := source.ReadConfig(bytes.NewReader(raw)); err != nil {
		return err
	}

	resolved := make(map[string]any)
	parsePropertiesMap("", source.AllSettings(), resolved)

	target := viper.New()
	for key, value := range resolved {
		target.Set(key, value)
	}

	mutex.Lock()
	properties = target
	mutex.Unlock()
	return nil
}

// parsePropertiesMap reads recursively the YAML file
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = resolveEnvVariable(v)
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			result[fullKey] = v
		case []any:
			result[fullKey] = v
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		default:
			log.Printf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// resolveEnvVariable replaces a ${NAME:default} placeholder with the environment value,
// falling back to the default. Values without a placeholder are returned unchanged.
func resolveEnvVariable(value string) string {
	matches := envPattern.FindStringSubmatch(value)
	if matches == nil {
		return value
	}

	if envValue, exists := os.LookupEnv(matches[1]); exists {
		return envValue
	}
	return matches[2]
}

func current() *viper.Viper {
	mutex.RLock()
	defer mutex.RUnlock()
	return properties
}

func Get(key string) any {
	return current().Get(key)
}

func GetString(key string) string {
	return current().GetString(key)
}

func GetBool(key string) bool {
	return current().GetBool(key)
}

func GetDuration(key string) time.Duration {
	return current().GetDuration(key)
}

func GetInt(key string) int {
	return current().GetInt(key)
}

func GetFloat64(key string) float64 {
	return current().GetFloat64(key)
}

func GetStringSlice(key string) []string {
	return current().GetStringSlice(key)
}

// GetStringOrDefault returns the property value, or defaultValue when it is empty
func GetStringOrDefault(key, defaultValue string) string {
	if value := GetString(key); value != "" {
		return value
	}
	return defaultValue
}

// GetDurationOrDefault returns the property value, or defaultValue when it is not a positive duration
func GetDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := GetDuration(key); value > 0 {
		return value
	}
	return defaultValue
}
