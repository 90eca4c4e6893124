package ingestion

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/creamas/volcert/internal/domain"
)

func multipartUpload(t *testing.T, fileName string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestUploadCommitsBatch(t *testing.T) {
	service, _, logs := newTestService()
	handler := NewHTTPHandler(service, logs)

	body, contentType := multipartUpload(t, "lote.xlsx", participantSheet(t, participantRow()))
	req := httptest.NewRequest(http.MethodPost, "/participants/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result domain.BatchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if len(result.SavedIDs) != 1 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestUploadRejectedBatchReturns422(t *testing.T) {
	service, _, logs := newTestService()
	handler := NewHTTPHandler(service, logs)

	bad := participantRow()
	bad[0] = "" // missing given names
	body, contentType := multipartUpload(t, "lote.xlsx", participantSheet(t, bad))
	req := httptest.NewRequest(http.MethodPost, "/participants/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var result domain.BatchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if len(result.Errors) != 1 || len(result.SavedIDs) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestUploadRequiresPost(t *testing.T) {
	service, _, logs := newTestService()
	handler := NewHTTPHandler(service, logs)

	req := httptest.NewRequest(http.MethodGet, "/participants/upload", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestLogsReturnsRecordedErrors(t *testing.T) {
	service, _, logs := newTestService()
	handler := NewHTTPHandler(service, logs)

	// A rejected upload leaves its row errors behind for later inspection.
	bad := participantRow()
	bad[2] = "123" // malformed DNI
	body, contentType := multipartUpload(t, "lote.xlsx", participantSheet(t, bad))
	req := httptest.NewRequest(http.MethodPost, "/participants/upload", body)
	req.Header.Set("Content-Type", contentType)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/participants/logs?file=lote.xlsx", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var entries []domain.IngestionLogEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %+v", entries)
	}
	if entries[0].FileName != "lote.xlsx" || entries[0].RowNumber == nil || *entries[0].RowNumber != 2 {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestLogsRequiresFileName(t *testing.T) {
	service, _, logs := newTestService()
	handler := NewHTTPHandler(service, logs)

	req := httptest.NewRequest(http.MethodGet, "/participants/logs", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUploadRequiresFileField(t *testing.T) {
	service, _, logs := newTestService()
	handler := NewHTTPHandler(service, logs)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("other", "value"); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/participants/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
