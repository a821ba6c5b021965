package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"louslist/internal/config"
)

func TestCurlHostForListenAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		listenAddr string
		want       string
	}{
		{name: "port only", listenAddr: ":6000", want: "localhost:6000"},
		{name: "ipv4 host and port", listenAddr: "127.0.0.1:8080", want: "127.0.0.1:8080"},
		{name: "wildcard ipv4", listenAddr: "0.0.0.0:8080", want: "localhost:8080"},
		{name: "wildcard ipv6", listenAddr: "[::]:8080", want: "localhost:8080"},
		{name: "ipv6 loopback", listenAddr: "[::1]:8080", want: "[::1]:8080"},
		{name: "trim host and port", listenAddr: " localhost:9090 ", want: "localhost:9090"},
		{name: "trim port only", listenAddr: "  :7070  ", want: "localhost:7070"},
		{name: "empty falls back", listenAddr: "", want: "localhost:6000"},
		{name: "whitespace falls back", listenAddr: "   ", want: "localhost:6000"},
		{name: "malformed passes through", listenAddr: "localhost", want: "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := curlHostForListenAddr(tt.listenAddr)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(&config.Config{Env: "production", LogLevel: "warn"}, &buf).Info("dropped")
	newLogger(&config.Config{Env: "production", LogLevel: "warn"}, &buf).Warn("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])

	buf.Reset()
	newLogger(&config.Config{}, &buf).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestOpenHistory_CreatesDirAndMigrates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "history.sqlite")
	pool, err := openHistory(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	var n int
	require.NoError(t, pool.Read.QueryRow(`SELECT count(*) FROM fetch_history`).Scan(&n))
	assert.Zero(t, n)
}
