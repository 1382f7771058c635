package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
	"github.com/desertthunder/acms/internal/tasks"
)

const (
	maxPageSize = 100
	maxBodySize = 1 << 20
)

// ContentService is the part of [tasks.ContentSyncer] the HTTP API uses.
type ContentService interface {
	Save(ctx context.Context, record *models.ContentRecord) (*tasks.SaveResult, error)
	Remove(ctx context.Context, id string) error
	FetchOne(ctx context.Context, id string) (*models.ContentRecord, error)
	FetchPage(ctx context.Context, page, pageSize int, search string) ([]models.ContentSummary, error)
	Catalog(ctx context.Context) (*models.Catalog, error)
}

// ContentHandler serves the content JSON API.
type ContentHandler struct {
	service ContentService
	logger  *log.Logger
	mux     *http.ServeMux
}

// NewContentHandler creates a handler backed by service.
func NewContentHandler(service ContentService, logger *log.Logger) *ContentHandler {
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	h := &ContentHandler{service: service, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /health", h.health)
	h.mux.HandleFunc("GET /catalog", h.catalog)
	h.mux.HandleFunc("GET /content", h.list)
	h.mux.HandleFunc("POST /content", h.create)
	h.mux.HandleFunc("GET /content/{id}", h.get)
	h.mux.HandleFunc("PUT /content/{id}", h.update)
	h.mux.HandleFunc("DELETE /content/{id}", h.remove)
	return h
}

// Routes returns the patterns served by the handler.
func (h *ContentHandler) Routes() []string {
	return []string{"/health", "/catalog", "/content", "/content/{id}"}
}

func (h *ContentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *ContentHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ContentHandler) catalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.Catalog(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (h *ContentHandler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := intParam(query.Get("page"), 0)
	if err != nil || page < 0 {
		h.fail(w, fmt.Errorf("%w: page must be a non-negative integer", shared.ErrInvalidInput))
		return
	}
	size, err := intParam(query.Get("size"), models.DefaultPageSize)
	if err != nil || size < 1 || size > maxPageSize {
		h.fail(w, fmt.Errorf("%w: size must be between 1 and %d", shared.ErrInvalidInput, maxPageSize))
		return
	}

	summaries, err := h.service.FetchPage(r.Context(), page, size, query.Get("q"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *ContentHandler) get(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.FetchOne(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *ContentHandler) create(w http.ResponseWriter, r *http.Request) {
	record, err := decodeRecord(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.save(w, r, record)
}

// update saves the body under the path id. Whether that inserts or updates
// still depends on the record's createdAt.
func (h *ContentHandler) update(w http.ResponseWriter, r *http.Request) {
	record, err := decodeRecord(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	record.ID = r.PathValue("id")
	h.save(w, r, record)
}

func (h *ContentHandler) save(w http.ResponseWriter, r *http.Request, record *models.ContentRecord) {
	result, err := h.service.Save(r.Context(), record)
	if err != nil {
		h.fail(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

func (h *ContentHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContentHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "status", status, "err", err)
	}
	writeError(w, status, err.Error())
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrContentNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrSaveFailed), errors.Is(err, shared.ErrContentWrite), errors.Is(err, shared.ErrContentRead):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeRecord(r *http.Request) (*models.ContentRecord, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()

	var record models.ContentRecord
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("%w: malformed content record: %w", shared.ErrInvalidInput, err)
	}
	return &record, nil
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
