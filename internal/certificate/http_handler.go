package certificate

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/creamas/volcert/internal/repository"
)

// Handler exposes certificate downloads and verification lookups. The ids of
// the batch to download are passed explicitly by the caller (they come back
// in the upload response); the archiver holds no ambient batch state.
type Handler struct {
	archiver     *Archiver
	participants repository.ParticipantRepository
}

// NewHTTPHandler wraps the archiver and the verification lookup.
func NewHTTPHandler(archiver *Archiver, participants repository.ParticipantRepository) http.Handler {
	return &Handler{archiver: archiver, participants: participants}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/download"):
		h.handleDownload(w, r)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/verify"):
		h.handleVerify(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r.URL.Query()["ids"])
	if err != nil {
		http.Error(w, "invalid ids: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(ids) == 0 {
		// Nothing to archive.
		http.Error(w, "no hay certificados para descargar", http.StatusNotFound)
		return
	}

	zipBytes, err := h.archiver.BuildArchive(r.Context(), ids)
	if err != nil {
		http.Error(w, "failed to build archive: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="certificados_lote.zip"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(zipBytes)))
	_, _ = w.Write(zipBytes)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	participant, err := h.participants.FindByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "certificate not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, participant)
}

func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
