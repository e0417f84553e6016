package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env                string
	Port               string
	DBURL              string
	RedisAddr          string
	RedisPassword      string
	SigningSecret      string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	GoogleTokeninfoURL string
	YandexTokeninfoURL string
}

func Load() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DBURL:              mustGetEnv("DB_URL"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		SigningSecret:      mustGetEnv("SIGNING_SECRET"),
		AccessTokenTTL:     mustParseTTL("ACCESS_TOKEN_TTL", "15m"),
		RefreshTokenTTL:    mustParseTTL("REFRESH_TOKEN_TTL", "1M"),
		GoogleTokeninfoURL: getEnv("GOOGLE_TOKENINFO_URL", "https://www.googleapis.com/oauth2/v3/tokeninfo"),
		YandexTokeninfoURL: getEnv("YANDEX_TOKENINFO_URL", "https://login.yandex.ru/info"),
	}
}

// ParseTTL parses a duration of the form <integer><unit> where unit is one of
// s, m, h, d, M or y. A bare integer is taken as seconds.
func ParseTTL(value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("empty duration")
	}

	unit := value[len(value)-1]
	numPart := value

	mult := time.Second
	switch unit {
	case 's':
		numPart = value[:len(value)-1]
	case 'm':
		numPart = value[:len(value)-1]
		mult = time.Minute
	case 'h':
		numPart = value[:len(value)-1]
		mult = time.Hour
	case 'd':
		numPart = value[:len(value)-1]
		mult = 24 * time.Hour
	case 'M':
		numPart = value[:len(value)-1]
		mult = 30 * 24 * time.Hour
	case 'y':
		numPart = value[:len(value)-1]
		mult = 365 * 24 * time.Hour
	}

	n, err := strconv.Atoi(numPart)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration %q", value)
	}

	return time.Duration(n) * mult, nil
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

func mustParseTTL(key, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	d, err := ParseTTL(valStr)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return d
}
