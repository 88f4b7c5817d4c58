package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	AuthJWTSecret string

	OTLPEndpoint string

	DBType        string
	DBHost        string
	DBPort        string
	DBName        string
	DBUser        string
	DBPassword    string
	DBSSLMode     string
	DBMaxIdleConn int
	DBMaxOpenConn int

	SeedDemoData bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:       getenv("APP_SERVICE", "atelier"),
		AppVersion:    getenv("APP_VERSION", "0.1.0"),
		Environment:   getenv("ENVIRONMENT", "development"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		AuthJWTSecret: strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		OTLPEndpoint:  getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:        getenv("DATABASE_TYPE", "postgres"),
		DBHost:        getenv("DATABASE_HOST", "localhost"),
		DBPort:        getenv("DATABASE_PORT", "5432"),
		DBName:        getenv("DATABASE_NAME", "atelier"),
		DBUser:        getenv("DATABASE_USER", "postgres"),
		DBPassword:    getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:     getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn: getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn: getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		SeedDemoData:  getenvBool("SEED_DEMO_DATA", false),
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
