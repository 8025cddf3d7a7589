package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the board server.
type Config struct {
	Port         string
	DatabasePath string
	FilesDir     string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	AdminUsername string
	AdminPassword string

	// Comma-separated defaults applied when a project is created
	ProjectCategories string
	BoardColumns      string

	CategoryCacheTTL time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string

	CORSOrigins []string
}

var (
	appConfig *Config
	onceEnv   sync.Once
)

// Load reads .env (if present) and the environment into a Config.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8008"),
		DatabasePath: getEnv("DATABASE_PATH", "kanboard.db"),
		FilesDir:     getEnv("FILES_DIR", "data/files"),

		JWTSecret:   getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
		JWTIssuer:   getEnv("JWT_ISSUER", "kanboard"),
		JWTAudience: getEnv("JWT_AUDIENCE", "kanboard-clients"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),

		ProjectCategories: os.Getenv("PROJECT_CATEGORIES"),
		BoardColumns:      getEnv("BOARD_COLUMNS", "Backlog,Ready,Work in progress,Done"),

		CategoryCacheTTL: getEnvDuration("CATEGORY_CACHE_TTL", time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   os.Getenv("LOG_FILE"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

// Env returns the process-wide configuration, loading it on first use.
func Env() *Config {
	onceEnv.Do(func() {
		appConfig = Load()
	})
	return appConfig
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// SplitList splits a comma-separated setting, trimming entries and dropping blanks.
func SplitList(raw string) []string {
	return splitList(raw)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
