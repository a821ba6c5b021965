//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"louslist/internal/app"
	"louslist/internal/config"
	"louslist/internal/db"
	"louslist/internal/storage"
	"louslist/internal/testutil"
)

// fakeLousList stands in for deliverData.php. It records every posted form.
type fakeLousList struct {
	mu     sync.Mutex
	forms  []url.Values
	status int
	body   string
}

func (f *fakeLousList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.forms = append(f.forms, r.PostForm)
	status, body := f.status, f.body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (f *fakeLousList) respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.body = status, body
}

func (f *fakeLousList) lastForm() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.forms) == 0 {
		return nil
	}
	return f.forms[len(f.forms)-1]
}

type testEnv struct {
	Server   *httptest.Server
	Upstream *fakeLousList
	Config   *config.Config
}

// setupHTTPServer boots the full application against a fake upstream, a
// local dataset file and a migrated SQLite history database.
func setupHTTPServer(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	fake := &fakeLousList{body: testutil.CourseCSV}
	upstreamSrv := httptest.NewServer(fake)
	t.Cleanup(upstreamSrv.Close)

	cfg := &config.Config{
		StorageBackend: config.BackendLocal,
		DataPath:       filepath.Join(dir, "data", "data.csv"),
		HistoryDBPath:  filepath.Join(dir, "history.sqlite"),
		MetricsEnabled: true,
		Upstream: config.UpstreamConfig{
			URL:         upstreamSrv.URL,
			Group:       "CS",
			Extended:    "Yes",
			DefaultTerm: "1252",
			Timeout:     5 * time.Second,
		},
		RateLimitRPS:       1000,
		RateLimitBurst:     1000,
		CORSAllowedOrigins: []string{"*"},
	}

	pool, err := db.OpenPool(cfg.HistoryDBPath, 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })
	require.NoError(t, db.Migrate(context.Background(), pool.Write))

	a := app.New(app.Deps{
		Cfg:     cfg,
		Objects: storage.NewFileStore(cfg.DataPath),
		History: pool,
		Logger:  slog.New(slog.DiscardHandler),
	})

	srv := httptest.NewServer(a.Router)
	t.Cleanup(srv.Close)

	return &testEnv{Server: srv, Upstream: fake, Config: cfg}
}

func doGet(t *testing.T, rawURL string) *http.Response {
	t.Helper()
	resp, err := http.Get(rawURL) //nolint:gosec,noctx // test server URL
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
