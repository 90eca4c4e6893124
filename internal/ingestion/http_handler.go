package ingestion

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/creamas/volcert/internal/repository"
)

// Handler exposes ingestion over HTTP: the batch upload itself, plus the
// per-file error log recorded for rejected batches.
type Handler struct {
	service *Service
	logs    repository.IngestionLogRepository
}

// NewHTTPHandler wraps the service and the ingestion log lookup.
func NewHTTPHandler(service *Service, logs repository.IngestionLogRepository) http.Handler {
	return &Handler{service: service, logs: logs}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/upload"):
		h.handleUpload(w, r)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/logs"):
		h.handleLogs(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	result := h.service.Process(r.Context(), Request{
		FileName: header.Filename,
		Data:     file,
	})

	status := http.StatusOK
	if !result.OK() {
		// The batch was rejected as a whole; the error list explains why.
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	fileName := strings.TrimSpace(r.URL.Query().Get("file"))
	if fileName == "" {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.logs.List(r.Context(), fileName, limit, offset)
	if err != nil {
		http.Error(w, "failed to list ingestion logs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
