// Package ui renders the HTML dashboard.
package ui

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"maragu.dev/gomponents"

	"louslist/internal/domain"
)

// Searcher is the part of dataset.Service the dashboard needs.
type Searcher interface {
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
}

// Handler serves GET /dashboard.
type Handler struct {
	svc    Searcher
	logger *slog.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(svc Searcher, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// ServeHTTP renders the search form and, when ?query is set, the matching
// rows. Errors are shown inline; the status stays 200 so the form remains
// usable.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	view := dashboardView{
		Query:  strings.TrimSpace(r.URL.Query().Get("query")),
		Preset: r.URL.Query().Get("preset"),
	}

	if view.Query != "" {
		req := domain.SearchRequest{Query: view.Query, Format: domain.FormatJSON}
		if view.Preset != "" {
			var err error
			if req, err = domain.PresetSearch(view.Preset, view.Query, domain.FormatJSON); err != nil {
				view.Error = err.Error()
			}
		}
		if view.Error == "" {
			res, err := h.svc.Search(r.Context(), req)
			switch {
			case err == nil:
				view.Result = res.Matches
			case isUserFacing(err):
				view.Error = err.Error()
			default:
				h.logger.Error("dashboard search", "query", view.Query, "error", err)
				view.Error = "Search failed. Try again later."
			}
		}
	}

	renderHTML(w, http.StatusOK, dashboardPage(view))
}

func isUserFacing(err error) bool {
	var nf *domain.NotFoundError
	var ve *domain.ValidationError
	return errors.As(err, &nf) || errors.As(err, &ve)
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}
