package repository

import (
	"context"
	"errors"

	"github.com/creamas/volcert/internal/domain"
)

// ErrNotFound is returned when a lookup matches no persisted record.
var ErrNotFound = errors.New("record not found")

// ParticipantRepository defines the store boundary for participant records.
// SaveAll is the single all-or-nothing persistence operation the ingestion
// pipeline relies on: it must commit every candidate or none of them.
type ParticipantRepository interface {
	SaveAll(ctx context.Context, candidates []domain.Participant) ([]domain.Participant, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindAllByIDs(ctx context.Context, ids []int64) ([]domain.Participant, error)
	FindByCode(ctx context.Context, code string) (domain.Participant, error)
}

// IngestionLogRepository stores ingestion errors for observability.
type IngestionLogRepository interface {
	Record(ctx context.Context, entry domain.IngestionLogEntry) error
	List(ctx context.Context, fileName string, limit int, offset int) ([]domain.IngestionLogEntry, error)
}
