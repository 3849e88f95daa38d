package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 应用配置
type Config struct {
	Port    string
	BaseURL string // Public URL the OAuth callback is built from

	StravaClientID     string
	StravaClientSecret string
	StravaTimeout      time.Duration

	SessionSecret string
	SessionTTL    time.Duration

	DBPath    string
	StaticDir string

	LogLevel  string
	LogFormat string

	RateLimit int // Refreshes per client IP per minute
}

// Load 加载配置
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", ":5000"),
		BaseURL:            strings.TrimRight(getEnv("DEFAULT_URL", "http://localhost:5001"), "/"),
		StravaClientID:     strings.TrimSpace(os.Getenv("STRAVA_CLIENT_ID")),
		StravaClientSecret: strings.TrimSpace(os.Getenv("STRAVA_CLIENT_SECRET")),
		StravaTimeout:      getDuration("STRAVA_HTTP_TIMEOUT", 30*time.Second),
		SessionSecret:      getEnv("SESSION_SECRET", "dev-secret-key"),
		SessionTTL:         getDuration("SESSION_TTL", 30*24*time.Hour),
		DBPath:             getEnv("DB_PATH", "./data/greens.db"),
		StaticDir:          getEnv("STATIC_DIR", "./static"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		RateLimit:          getInt("RATE_LIMIT", 30),
	}
}

// RedirectURL is the OAuth callback
func (c *Config) RedirectURL() string {
	return c.BaseURL + "/authorized"
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
