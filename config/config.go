package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Redis Config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0

// HTTP server
const HTTP_ADDRESS = ":8080"
const HTTP_SHUTDOWN_TIMEOUT_SECONDS = 5

// Opening hours are always evaluated in the directory's business timezone.
const BUSINESS_TIMEZONE = "Europe/Brussels"

// Venues catalog refresher config
const VENUES_CATALOG_REFRESHER_SCHEDULE_MINUTES = 60
const CATALOG_ENDPOINT_BASE_V1 = "https://catalog.flavorquest.be/api/v1"

// Nearby search default radius, in km
const DEFAULT_NEARBY_RADIUS_KM = 5.0

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const CATALOG_RESPONSE_RESOURCE = "catalog_response.json"
const VENUE_STATIC_RESOURCE = "venue_static.json"

// Environment variable keys
const (
	EnvAppEnv                 = "APP_ENV"
	EnvProjectRoot            = "PROJECT_ROOT"
	EnvRedisAddress           = "REDIS_ADDRESS"
	EnvRedisPassword          = "REDIS_PASSWORD"
	EnvRedisDB                = "REDIS_DB"
	EnvHTTPAddress            = "HTTP_ADDRESS"
	EnvBusinessTimezone       = "BUSINESS_TIMEZONE"
	EnvCatalogEndpoint        = "CATALOG_ENDPOINT"
	EnvCatalogAPIKey          = "CATALOG_API_KEY"
	EnvAdminAPIKey            = "ADMIN_API_KEY"
	EnvCatalogRefreshInterval = "CATALOG_REFRESH_INTERVAL"
)

// Config is the runtime configuration, built from the constants above and
// overridden by the environment.
type Config struct {
	Env                    string
	RedisAddress           string
	RedisPassword          string
	RedisDB                int
	HTTPAddress            string
	BusinessTimezone       string
	CatalogEndpoint        string
	CatalogAPIKey          string
	AdminAPIKey            string
	CatalogRefreshInterval time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[Config] could not load .env: %v", err)
	}

	return Config{
		Env:                    GetEnv(EnvAppEnv, "dev"),
		RedisAddress:           GetEnv(EnvRedisAddress, REDIS_DB_ADDRESS),
		RedisPassword:          GetEnv(EnvRedisPassword, REDIS_DB_PASSWORD),
		RedisDB:                GetInt(EnvRedisDB, REDIS_DB),
		HTTPAddress:            GetEnv(EnvHTTPAddress, HTTP_ADDRESS),
		BusinessTimezone:       GetEnv(EnvBusinessTimezone, BUSINESS_TIMEZONE),
		CatalogEndpoint:        GetEnv(EnvCatalogEndpoint, CATALOG_ENDPOINT_BASE_V1),
		CatalogAPIKey:          GetEnv(EnvCatalogAPIKey, ""),
		AdminAPIKey:            GetEnv(EnvAdminAPIKey, ""),
		CatalogRefreshInterval: GetDuration(EnvCatalogRefreshInterval, VENUES_CATALOG_REFRESHER_SCHEDULE_MINUTES*time.Minute),
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv(EnvProjectRoot); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resource_file string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resource_file)
}
