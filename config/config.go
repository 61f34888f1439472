package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string

	// Store configuration. Backend is one of memory, file, sqlite, redis.
	StoreBackend  string
	StorePath     string
	RedisAddr     string
	RedisPort     string
	RedisPassword string

	JWTSecret string

	// Simulated latencies, in milliseconds. Zero in tests.
	AuthLatencyMS    int
	PaymentLatencyMS int
	EmailLatencyMS   int
	ChatLatencyMS    int

	// Log configuration
	LogLevel      string
	LogFilename   string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool
}

func (c *Config) RedisFullAddr() string {
	return c.RedisAddr + ":" + c.RedisPort
}

func (c *Config) AuthLatency() time.Duration {
	return time.Duration(c.AuthLatencyMS) * time.Millisecond
}

func (c *Config) PaymentLatency() time.Duration {
	return time.Duration(c.PaymentLatencyMS) * time.Millisecond
}

func (c *Config) EmailLatency() time.Duration {
	return time.Duration(c.EmailLatencyMS) * time.Millisecond
}

func (c *Config) ChatLatency() time.Duration {
	return time.Duration(c.ChatLatencyMS) * time.Millisecond
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		// Ignore error if .env file is not found
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		StoreBackend:  getEnv("STORE_BACKEND", "memory"),
		StorePath:     getEnv("STORE_PATH", "data/openears.json"),
		RedisAddr:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: getEnv("JWT_SECRET", "openears-dev-secret"),

		AuthLatencyMS:    getEnvAsInt("AUTH_LATENCY_MS", 1000),
		PaymentLatencyMS: getEnvAsInt("PAYMENT_LATENCY_MS", 2000),
		EmailLatencyMS:   getEnvAsInt("EMAIL_LATENCY_MS", 1500),
		ChatLatencyMS:    getEnvAsInt("CHAT_LATENCY_MS", 500),

		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		LogFilename:   getEnv("LOG_FILENAME", "logs/app.log"),
		LogMaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:     getEnvAsInt("LOG_MAX_AGE", 28),
		LogCompress:   getEnvAsBool("LOG_COMPRESS", true),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
