package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"louslist/internal/domain"
	"louslist/internal/search"
)

type searchFunc func(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)

func (f searchFunc) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	return f(ctx, req)
}

var courses = &domain.Dataset{
	Columns: []string{"ClassNumber", "Title", "Room1"},
	Rows: [][]domain.Value{
		{domain.IntValue(10001), domain.StringValue("Intro to AI"), domain.StringValue("Rice Hall 130")},
		{domain.IntValue(10002), domain.StringValue("Calculus II"), domain.Null},
	},
}

func serve(t *testing.T, svc Searcher, target string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	NewHandler(svc, slog.New(slog.DiscardHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	return rec.Code, string(body)
}

func TestDashboard_NoQueryRendersForm(t *testing.T) {
	called := false
	code, body := serve(t, searchFunc(func(context.Context, domain.SearchRequest) (*domain.SearchResult, error) {
		called = true
		return nil, nil
	}), "/dashboard")

	assert.Equal(t, http.StatusOK, code)
	assert.False(t, called)
	assert.Contains(t, body, `<form class="card toolbar" method="get" action="/dashboard">`)
	assert.NotContains(t, body, "<table")
}

func TestDashboard_RendersMatches(t *testing.T) {
	var got domain.SearchRequest
	code, body := serve(t, searchFunc(func(_ context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
		got = req
		return &domain.SearchResult{Matches: search.Filter(courses, req.Query, req.Columns)}, nil
	}), "/dashboard?query=rice")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "rice", got.Query)
	assert.Nil(t, got.Columns)
	assert.Contains(t, body, "1 matching rows")
	assert.Contains(t, body, "<td>Rice Hall 130</td>")
	assert.NotContains(t, body, "Calculus II")
	assert.Contains(t, body, `data-signals`)
	assert.Contains(t, body, `data-bind`)
	assert.Contains(t, body, `data-show`)
}

func TestDashboard_PresetRestrictsColumns(t *testing.T) {
	var got domain.SearchRequest
	_, body := serve(t, searchFunc(func(_ context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
		got = req
		return &domain.SearchResult{Matches: search.Filter(courses, req.Query, req.Columns)}, nil
	}), "/dashboard?query=calc&preset=enrollment")

	assert.Equal(t, "enrollment", got.Preset)
	assert.Equal(t, domain.SearchPresets["enrollment"], got.Columns)
	assert.Contains(t, body, `<option value="enrollment" selected>`)
}

func TestDashboard_InlineErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   string
	}{
		{"missing dataset", "/dashboard?query=ai", domain.ErrNotFound(domain.NoDatasetMessage), domain.NoDatasetMessage},
		{"unknown preset", "/dashboard?query=ai&preset=grades", nil, "unknown search preset"},
		{"internal error hidden", "/dashboard?query=ai", errors.New("disk on fire"), "Search failed. Try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serve(t, searchFunc(func(context.Context, domain.SearchRequest) (*domain.SearchResult, error) {
				return nil, tt.err
			}), tt.target)

			assert.Equal(t, http.StatusOK, code)
			assert.Contains(t, body, `role="alert"`)
			assert.Contains(t, strings.ReplaceAll(body, "&#34;", `"`), tt.want)
			assert.NotContains(t, body, "disk on fire")
		})
	}
}

func TestDashboard_NoMatches(t *testing.T) {
	_, body := serve(t, searchFunc(func(_ context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
		return &domain.SearchResult{Matches: search.Filter(courses, req.Query, nil)}, nil
	}), "/dashboard?query=zzz")

	assert.Contains(t, body, "No courses match")
}

func TestContainsExpr(t *testing.T) {
	assert.Equal(t, `$q === '' || "rice hall".includes($q.toLowerCase())`, containsExpr("Rice Hall"))
}
