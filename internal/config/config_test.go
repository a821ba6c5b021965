package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"LISTEN_ADDR", "LOG_LEVEL", "ENV", "STORAGE_BACKEND", "DATA_PATH", "OBJECT_KEY",
	"KEY_ID", "SECRET", "ENDPOINT", "REGION", "BUCKET",
	"GCS_BUCKET", "GCS_KEY_FILE", "AZURE_ACCOUNT_NAME", "AZURE_ACCOUNT_KEY", "AZURE_CONTAINER",
	"UPSTREAM_URL", "UPSTREAM_GROUP", "UPSTREAM_EXTENDED", "DEFAULT_TERM",
	"FETCH_TIMEOUT", "FETCH_SCHEDULE", "HISTORY_DB_PATH", "METRICS_ENABLED",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ALLOWED_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.ListenAddr)
	assert.Equal(t, BackendLocal, cfg.StorageBackend)
	assert.Equal(t, "data/data.csv", cfg.DataPath)
	assert.Equal(t, "data.csv", cfg.ObjectKey)
	assert.Equal(t, "louslist_history.sqlite", cfg.HistoryDBPath)
	assert.Equal(t, "https://louslist.org/deliverData.php", cfg.Upstream.URL)
	assert.Equal(t, "CS", cfg.Upstream.Group)
	assert.Equal(t, "Yes", cfg.Upstream.Extended)
	assert.Equal(t, "1252", cfg.Upstream.DefaultTerm)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.Empty(t, cfg.FetchSchedule)
	assert.True(t, cfg.MetricsEnabled)
	assert.InDelta(t, 20.0, cfg.RateLimitRPS, 0.001)
	assert.Equal(t, 40, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Nil(t, cfg.S3KeyID)
	assert.NotEmpty(t, cfg.Warnings)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("DATA_PATH", "/var/cache/louslist.csv")
	t.Setenv("DEFAULT_TERM", "1258")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("METRICS_ENABLED", "off")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, "/var/cache/louslist.csv", cfg.DataPath)
	assert.Equal(t, "1258", cfg.Upstream.DefaultTerm)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_InvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("FETCH_TIMEOUT", "soon")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_TIMEOUT")
}

func TestLoadFromEnv_StorageBackends(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown backend",
			env:     map[string]string{"STORAGE_BACKEND": "ftp"},
			wantErr: "unknown STORAGE_BACKEND",
		},
		{
			name:    "s3 missing bucket",
			env:     map[string]string{"STORAGE_BACKEND": "s3", "KEY_ID": "k", "SECRET": "s", "ENDPOINT": "e", "REGION": "r"},
			wantErr: "STORAGE_BACKEND=s3",
		},
		{
			name: "s3 complete",
			env:  map[string]string{"STORAGE_BACKEND": "S3", "KEY_ID": "k", "SECRET": "s", "ENDPOINT": "e", "REGION": "r", "BUCKET": "b"},
		},
		{
			name:    "gcs missing key file",
			env:     map[string]string{"STORAGE_BACKEND": "gcs", "GCS_BUCKET": "b"},
			wantErr: "GCS_KEY_FILE",
		},
		{
			name: "gcs complete",
			env:  map[string]string{"STORAGE_BACKEND": "gcs", "GCS_BUCKET": "b", "GCS_KEY_FILE": "/k.json"},
		},
		{
			name:    "azure missing container",
			env:     map[string]string{"STORAGE_BACKEND": "azure", "AZURE_ACCOUNT_NAME": "a", "AZURE_ACCOUNT_KEY": "k"},
			wantErr: "AZURE_CONTAINER",
		},
		{
			name: "azure complete",
			env:  map[string]string{"STORAGE_BACKEND": "azure", "AZURE_ACCOUNT_NAME": "a", "AZURE_ACCOUNT_KEY": "k", "AZURE_CONTAINER": "c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadFromEnv()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.StorageBackend)
		})
	}
}

func TestLoadFromEnv_ProductionRejectsWildcardCORS(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS wildcard")

	t.Setenv("CORS_ALLOWED_ORIGINS", "https://louslist.example")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "DEBUG"},
		{"WARN", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"", "INFO"},
		{"verbose", "INFO"},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level}
			assert.Equal(t, tt.want, cfg.SlogLevel().String())
		})
	}
}

func TestLoadDotEnv_FileNotFound(t *testing.T) {
	err := LoadDotEnv("/nonexistent/.env")
	if err != nil {
		t.Errorf("expected no error for missing .env, got: %v", err)
	}
}

func TestLoadDotEnv_ParsesKeyValue(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	err := os.WriteFile(envFile, []byte("# comment\nTEST_KEY=\"test value\"\nexport TEST_EXPORTED='x'\nnot a pair\n"), 0o644)
	require.NoError(t, err)

	require.NoError(t, LoadDotEnv(envFile))
	t.Cleanup(func() {
		_ = os.Unsetenv("TEST_KEY")
		_ = os.Unsetenv("TEST_EXPORTED")
	})

	assert.Equal(t, "test value", os.Getenv("TEST_KEY"))
	assert.Equal(t, "x", os.Getenv("TEST_EXPORTED"))
}

func TestLoadDotEnv_EnvVarPrecedence(t *testing.T) {
	t.Setenv("TEST_PRECEDENCE_KEY", "from_env")

	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	err := os.WriteFile(envFile, []byte("TEST_PRECEDENCE_KEY=from_file\n"), 0o644)
	require.NoError(t, err)

	require.NoError(t, LoadDotEnv(envFile))

	if val := os.Getenv("TEST_PRECEDENCE_KEY"); val != "from_env" {
		t.Errorf("TEST_PRECEDENCE_KEY = %q, want %q (env precedence)", val, "from_env")
	}
}
