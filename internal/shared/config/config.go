package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"resume-builder/internal/shared/telemetry"
)

// Snapshot drivers for the editor's local working copy.
const (
	SnapshotDriverFile   = "file"
	SnapshotDriverSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string

	RateLimitRPS   float64
	RateLimitBurst int

	ChromePath string

	// Editor / CLI settings.
	SnapshotDriver string
	SnapshotDir    string
	DebounceWindow time.Duration
	APIBaseURL     string
}

// Load reads configuration from environment variables with sensible defaults.
// Values already present in the environment win over .env files.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{
			"env": env,
		})
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 20),
		ChromePath:      getEnv("CHROME_PATH", ""),
		SnapshotDriver:  normalizeSnapshotDriver(getEnv("SNAPSHOT_DRIVER", SnapshotDriverFile)),
		SnapshotDir:     getEnv("SNAPSHOT_DIR", defaultSnapshotDir()),
		DebounceWindow:  getEnvDuration("DEBOUNCE_WINDOW", time.Second),
		APIBaseURL:      strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			telemetry.Warn("config.env_file_invalid", map[string]any{
				"path":  path,
				"error": err.Error(),
			})
		}
	}
}

func defaultSnapshotDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "resume-builder")
	}
	return ".resume-builder"
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		invalid(key, err)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		invalid(key, err)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val < 0 {
		if err == nil {
			err = strconv.ErrRange
		}
		invalid(key, err)
		return def
	}
	return val
}

func invalid(key string, err error) {
	telemetry.Warn("config.invalid_value", map[string]any{
		"key":   key,
		"error": err.Error(),
	})
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeSnapshotDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sqlite", "sqlite3":
		return SnapshotDriverSQLite
	default:
		return SnapshotDriverFile
	}
}
