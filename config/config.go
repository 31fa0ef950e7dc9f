package config

import (
	"log"
	"os"
	"strconv"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type Config struct {
	Env      string
	Port     string
	LogLevel string
	DBURL    string
	Redis    RedisConfig

	AccessTokenSecret string

	AccessExpiryHours       int
	RefreshExpiryDays       int
	VerificationExpiryHours int

	LockoutThreshold int
	LockoutWindowMin int

	EmailRateMax       int
	EmailRateWindowSec int
}

func Load() *Config {
	return &Config{
		Env:                     getEnv("ENV", "development"),
		Port:                    getEnv("PORT", "8080"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		DBURL:                   mustGetEnv("DB_URL"),
		AccessTokenSecret:       mustGetEnv("ACCESS_TOKEN_SECRET"),
		AccessExpiryHours:       getEnvAsInt("ACCESS_TOKEN_EXPIRY_HOURS", 24),
		RefreshExpiryDays:       getEnvAsInt("REFRESH_TOKEN_EXPIRY_DAYS", 30),
		VerificationExpiryHours: getEnvAsInt("VERIFICATION_TOKEN_EXPIRY_HOURS", 24),
		LockoutThreshold:        getEnvAsInt("LOCKOUT_THRESHOLD", 5),
		LockoutWindowMin:        getEnvAsInt("LOCKOUT_WINDOW_MINUTES", 15),
		EmailRateMax:            getEnvAsInt("EMAIL_RATE_LIMIT_MAX", 5),
		EmailRateWindowSec:      getEnvAsInt("EMAIL_RATE_LIMIT_WINDOW_SECONDS", 60),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}
}

// IsProduction reports whether the service runs with production hardening
// (secure cookies in particular).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
