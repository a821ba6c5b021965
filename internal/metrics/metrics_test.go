package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFetch(t *testing.T) {
	m := New()
	m.ObserveFetch("SUCCESS", 200*time.Millisecond, 42)
	m.ObserveFetch("ERROR", time.Second, -1)

	assert.InDelta(t, 1, testutil.ToFloat64(m.fetches.WithLabelValues("SUCCESS")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.fetches.WithLabelValues("ERROR")), 0)
	assert.InDelta(t, 42, testutil.ToFloat64(m.datasetRows), 0)
}

func TestObserveSearch_DefaultsPreset(t *testing.T) {
	m := New()
	m.ObserveSearch("", "json")
	m.ObserveSearch("ofs", "csv")

	assert.InDelta(t, 1, testutil.ToFloat64(m.searches.WithLabelValues("all", "json")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.searches.WithLabelValues("ofs", "csv")), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("SUCCESS", time.Second, 1)
	m.ObserveSearch("ofs", "json")

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/search/{query}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, q := range []string{"calc", "ai"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search/"+q, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/search/{query}", "204")), 0)
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.ObserveFetch("SUCCESS", time.Millisecond, 3)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `louslist_fetches_total{status="SUCCESS"} 1`)
	assert.Contains(t, string(body), "louslist_dataset_rows 3")
}
