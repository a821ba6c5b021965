// Package api serves the course listing over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"louslist/internal/domain"
	"louslist/internal/middleware"
	"louslist/internal/table"
)

// RunningMessage is the body of the root endpoint.
const RunningMessage = "Lou's List App is Running!"

// DataFilename is the download name of the raw cached dataset.
const DataFilename = "data.csv"

// DatasetService is implemented by dataset.Service.
type DatasetService interface {
	Fetch(ctx context.Context, term string) (*domain.FetchSummary, error)
	LoadAll(ctx context.Context) (*domain.Dataset, error)
	RawCSV(ctx context.Context) ([]byte, error)
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
	History(ctx context.Context, limit int) ([]domain.FetchRecord, error)
}

// Handler holds the route handlers.
type Handler struct {
	svc    DatasetService
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc DatasetService, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type messageResponse struct {
	Message string `json:"message"`
}

type dataResponse struct {
	Message string          `json:"message"`
	Data    []domain.Record `json:"data"`
}

type resultsResponse struct {
	Results []domain.Record `json:"results"`
}

type historyResponse struct {
	History []domain.FetchRecord `json:"history"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Root reports that the service is up.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: RunningMessage})
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Fetch refreshes the cached dataset from upstream. ?term selects the
// semester.
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Fetch(r.Context(), r.URL.Query().Get("term"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// FetchHistory lists recent fetch attempts. ?limit defaults to 20.
func (h *Handler) FetchHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.writeError(w, r, domain.ErrValidation("limit must be an integer, got %q", v))
			return
		}
		limit = n
	}
	records, err := h.svc.History(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []domain.FetchRecord{}
	}
	writeJSON(w, http.StatusOK, historyResponse{History: records})
}

// Data returns every cached row as JSON records.
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	ds, err := h.svc.LoadAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{
		Message: "Data loaded successfully!",
		Data:    ds.Records(),
	})
}

// DownloadCSV sends the cached file as an attachment.
func (h *Handler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	raw, err := h.svc.RawCSV(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeAttachment(w, DataFilename, raw)
}

// Search matches every column. The query comes from the {query} path
// segment or, on the bare route, from ?query.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req := domain.SearchRequest{
		Query:  queryParam(r),
		Format: formatParam(r),
	}
	h.search(w, r, req)
}

// AdvancedSearch restricts the returned columns to the {preset} allowlist.
func (h *Handler) AdvancedSearch(w http.ResponseWriter, r *http.Request) {
	req, err := domain.PresetSearch(chi.URLParam(r, "preset"), queryParam(r), formatParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.search(w, r, req)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, req domain.SearchRequest) {
	res, err := h.svc.Search(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if res.Format == domain.FormatCSV {
		var buf bytes.Buffer
		if err := table.Write(&buf, res.Matches); err != nil {
			h.writeError(w, r, err)
			return
		}
		writeAttachment(w, domain.SearchResultsFilename, buf.Bytes())
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: res.Matches.Records()})
}

func queryParam(r *http.Request) string {
	if q := pathParam(r, "query"); q != "" {
		return q
	}
	return r.URL.Query().Get("query")
}

func formatParam(r *http.Request) domain.Format {
	if f := pathParam(r, "format"); f != "" {
		return domain.ParseFormat(f)
	}
	return domain.ParseFormat(r.URL.Query().Get("format"))
}

// pathParam returns a decoded chi URL parameter. chi matches against the
// raw path when one is present, leaving escapes such as %2F in place.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromDomainError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAttachment(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
