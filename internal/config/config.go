// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends accepted in STORAGE_BACKEND.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendGCS   = "gcs"
	BackendAzure = "azure"
)

// UpstreamConfig describes the external course listing endpoint and the
// fixed form fields posted to it.
type UpstreamConfig struct {
	URL         string        // POST target (default: https://louslist.org/deliverData.php)
	Group       string        // "Group" form field (default: CS)
	Extended    string        // "Extended" form field (default: Yes)
	DefaultTerm string        // "Semester" form field when the caller gives none (default: 1252)
	Timeout     time.Duration // whole-request timeout (default: 10s)
}

// Config holds the configuration for the HTTP API and the dataset store.
type Config struct {
	ListenAddr string // HTTP listen address (default ":6000")
	LogLevel   string // log level: debug, info, warn, error (default "info")
	Env        string // environment: "development" (default) or "production"

	// Dataset storage.
	StorageBackend string // local (default), s3, gcs, azure
	DataPath       string // local cache file (default "data/data.csv")
	ObjectKey      string // object name for s3/gcs/azure (default "data.csv")

	// S3 fields are optional: nil when not configured.
	S3KeyID    *string
	S3Secret   *string
	S3Endpoint *string
	S3Region   *string
	S3Bucket   *string

	GCSBucket  string
	GCSKeyFile string

	AzureAccountName string
	AzureAccountKey  string
	AzureContainer   string

	Upstream UpstreamConfig

	FetchSchedule  string // cron expression for scheduled refetch; empty disables
	HistoryDBPath  string // SQLite fetch history (default "louslist_history.sqlite")
	MetricsEnabled bool   // expose /metrics (default true)

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 20)
	RateLimitBurst int     // burst capacity (default 40)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// HasS3Config returns true if all required S3 fields are set.
func (c *Config) HasS3Config() bool {
	return c.S3KeyID != nil && c.S3Secret != nil &&
		c.S3Endpoint != nil && c.S3Region != nil && c.S3Bucket != nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:       os.Getenv("LISTEN_ADDR"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		Env:              os.Getenv("ENV"),
		StorageBackend:   strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_BACKEND"))),
		DataPath:         os.Getenv("DATA_PATH"),
		ObjectKey:        os.Getenv("OBJECT_KEY"),
		GCSBucket:        os.Getenv("GCS_BUCKET"),
		GCSKeyFile:       os.Getenv("GCS_KEY_FILE"),
		AzureAccountName: os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:  os.Getenv("AZURE_ACCOUNT_KEY"),
		AzureContainer:   os.Getenv("AZURE_CONTAINER"),
		FetchSchedule:    strings.TrimSpace(os.Getenv("FETCH_SCHEDULE")),
		HistoryDBPath:    os.Getenv("HISTORY_DB_PATH"),
		MetricsEnabled:   parseBoolEnvDefault("METRICS_ENABLED", true),
		Upstream: UpstreamConfig{
			URL:         os.Getenv("UPSTREAM_URL"),
			Group:       os.Getenv("UPSTREAM_GROUP"),
			Extended:    os.Getenv("UPSTREAM_EXTENDED"),
			DefaultTerm: os.Getenv("DEFAULT_TERM"),
		},
	}

	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", v, err)
		}
		cfg.Upstream.Timeout = d
	}

	// Rate limiting
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}

	// S3 fields are optional; only set if present
	if v := os.Getenv("KEY_ID"); v != "" {
		cfg.S3KeyID = &v
	}
	if v := os.Getenv("SECRET"); v != "" {
		cfg.S3Secret = &v
	}
	if v := os.Getenv("ENDPOINT"); v != "" {
		cfg.S3Endpoint = &v
	}
	if v := os.Getenv("REGION"); v != "" {
		cfg.S3Region = &v
	}
	if v := os.Getenv("BUCKET"); v != "" {
		cfg.S3Bucket = &v
	}

	// CORS
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = compactNonEmpty(origins)
	}

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":6000"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = BackendLocal
	}
	if cfg.DataPath == "" {
		cfg.DataPath = "data/data.csv"
	}
	if cfg.ObjectKey == "" {
		cfg.ObjectKey = "data.csv"
	}
	if cfg.HistoryDBPath == "" {
		cfg.HistoryDBPath = "louslist_history.sqlite"
	}
	if cfg.Upstream.URL == "" {
		cfg.Upstream.URL = "https://louslist.org/deliverData.php"
	}
	if cfg.Upstream.Group == "" {
		cfg.Upstream.Group = "CS"
	}
	if cfg.Upstream.Extended == "" {
		cfg.Upstream.Extended = "Yes"
	}
	if cfg.Upstream.DefaultTerm == "" {
		cfg.Upstream.DefaultTerm = "1252"
	}
	if cfg.Upstream.Timeout <= 0 {
		cfg.Upstream.Timeout = 10 * time.Second
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 20
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 40
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	if err := cfg.validateStorage(); err != nil {
		return nil, err
	}

	// Production mode: insecure defaults are fatal errors.
	if cfg.IsProduction() {
		if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
			return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
	} else if cfg.CORSAllowedOrigins[0] == "*" {
		cfg.Warnings = append(cfg.Warnings, "CORS allows every origin; set CORS_ALLOWED_ORIGINS to restrict it")
	}

	return cfg, nil
}

func (c *Config) validateStorage() error {
	switch c.StorageBackend {
	case BackendLocal:
		return nil
	case BackendS3:
		if !c.HasS3Config() {
			return fmt.Errorf("STORAGE_BACKEND=s3 requires KEY_ID, SECRET, ENDPOINT, REGION and BUCKET")
		}
	case BackendGCS:
		if c.GCSBucket == "" || c.GCSKeyFile == "" {
			return fmt.Errorf("STORAGE_BACKEND=gcs requires GCS_BUCKET and GCS_KEY_FILE")
		}
	case BackendAzure:
		if c.AzureAccountName == "" || c.AzureAccountKey == "" || c.AzureContainer == "" {
			return fmt.Errorf("STORAGE_BACKEND=azure requires AZURE_ACCOUNT_NAME, AZURE_ACCOUNT_KEY and AZURE_CONTAINER")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q: use local, s3, gcs or azure", c.StorageBackend)
	}
	return nil
}

func parseBoolEnvDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return defaultVal
	}
	if v == "0" || v == "false" || v == "no" || v == "off" {
		return false
	}
	if v == "1" || v == "true" || v == "yes" || v == "on" {
		return true
	}
	return defaultVal
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = stripQuotes(strings.TrimSpace(value))
		if _, set := os.LookupEnv(key); !set {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
