package domain

import "time"

// IngestionLogEntry captures row level issues that occur during ingestion.
// Entries exist for observability of rejected batches; they never influence
// the batch result itself.
type IngestionLogEntry struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"file_name"`
	RowNumber    *int      `json:"row_number,omitempty"`
	ErrorMessage string    `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}
