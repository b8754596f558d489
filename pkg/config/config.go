package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	FirebaseProject            string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string
	StorageBucket              string

	PlacesAPIKey string
	PlacesRegion string

	GeminiAPIKey string
	GeminiModel  string

	AlgoliaAppID         string
	AlgoliaAPIKey        string
	AlgoliaIndex         string
	AlgoliaWritesEnabled bool

	HotThreshold           int
	MessagePageSize        int
	AutocompleteDebounceMs int

	WorkerCount     int
	WorkerQueueSize int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StorageBucket:              getEnv("STORAGE_BUCKET", ""),

		PlacesAPIKey: getEnv("PLACES_API_KEY", ""),
		PlacesRegion: getEnv("PLACES_REGION", "id"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		AlgoliaAppID:         getEnv("ALGOLIA_APP_ID", ""),
		AlgoliaAPIKey:        getEnv("ALGOLIA_API_KEY", ""),
		AlgoliaIndex:         getEnv("ALGOLIA_INDEX", "listings"),
		AlgoliaWritesEnabled: getEnvAsBool("ALGOLIA_WRITES_ENABLED", false),

		HotThreshold:           getEnvAsInt("HOT_THRESHOLD", 10),
		MessagePageSize:        getEnvAsInt("MESSAGE_PAGE_SIZE", 20),
		AutocompleteDebounceMs: getEnvAsInt("AUTOCOMPLETE_DEBOUNCE_MS", 350),

		WorkerCount:     getEnvAsInt("WORKER_COUNT", 4),
		WorkerQueueSize: getEnvAsInt("WORKER_QUEUE_SIZE", 256),
	}

	return config, nil
}

// IsDevelopment reports whether local-only behaviour (debug logs, colour output) should be enabled.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "local"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(strings.TrimSpace(value))
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(strings.TrimSpace(value))
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}
