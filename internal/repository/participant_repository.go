package repository

import (
	"context"
	"fmt"

	"github.com/creamas/volcert/internal/db"
	"github.com/creamas/volcert/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type participantRepository struct {
	pool *pgxpool.Pool
}

// NewParticipantRepository wires a repository backed by pgxpool.
func NewParticipantRepository(pool *pgxpool.Pool) ParticipantRepository {
	return &participantRepository{pool: pool}
}

// SaveAll inserts every candidate inside one transaction. A failure on any
// row rolls back the whole batch, so callers never observe partial commits.
func (r *participantRepository) SaveAll(ctx context.Context, candidates []domain.Participant) ([]domain.Participant, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("participant repository not initialized")
	}
	if len(candidates) == 0 {
		return []domain.Participant{}, nil
	}

	saved := make([]domain.Participant, 0, len(candidates))
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, candidate := range candidates {
			persisted := candidate
			var createdAt pgtype.Timestamptz
			err := tx.QueryRow(
				ctx,
				`INSERT INTO participants
				   (given_names, surnames, dni, program, role, start_date, end_date, hours, team_value, verification_code)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				 RETURNING id, created_at`,
				candidate.GivenNames,
				candidate.Surnames,
				candidate.DNI,
				candidate.Program,
				candidate.Role,
				candidate.StartDate,
				candidate.EndDate,
				candidate.Hours,
				candidate.TeamValue,
				candidate.VerificationCode,
			).Scan(&persisted.ID, &createdAt)
			if err != nil {
				return fmt.Errorf("failed to insert participant %s: %w", candidate.DNI, err)
			}
			if createdAt.Valid {
				persisted.CreatedAt = createdAt.Time
			}
			saved = append(saved, persisted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *participantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("participant repository not initialized")
	}
	var exists bool
	err := r.pool.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM participants WHERE verification_code = $1)`,
		code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check verification code: %w", err)
	}
	return exists, nil
}

func (r *participantRepository) FindAllByIDs(ctx context.Context, ids []int64) ([]domain.Participant, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("participant repository not initialized")
	}
	if len(ids) == 0 {
		return []domain.Participant{}, nil
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, given_names, surnames, dni, program, role, start_date, end_date, hours, team_value, verification_code, created_at
		 FROM participants
		 WHERE id = ANY($1)
		 ORDER BY id`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := []domain.Participant{}
	for rows.Next() {
		participant, scanErr := scanParticipant(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		participants = append(participants, participant)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", rowsErr)
	}
	return participants, nil
}

func (r *participantRepository) FindByCode(ctx context.Context, code string) (domain.Participant, error) {
	if r.pool == nil {
		return domain.Participant{}, fmt.Errorf("participant repository not initialized")
	}
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, given_names, surnames, dni, program, role, start_date, end_date, hours, team_value, verification_code, created_at
		 FROM participants
		 WHERE verification_code = $1`,
		code,
	)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("failed to look up verification code: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return domain.Participant{}, fmt.Errorf("failed to look up verification code: %w", rowsErr)
		}
		return domain.Participant{}, ErrNotFound
	}
	return scanParticipant(rows)
}

func scanParticipant(rows pgx.Rows) (domain.Participant, error) {
	var (
		participant domain.Participant
		startDate   pgtype.Date
		endDate     pgtype.Date
		createdAt   pgtype.Timestamptz
	)
	if err := rows.Scan(
		&participant.ID,
		&participant.GivenNames,
		&participant.Surnames,
		&participant.DNI,
		&participant.Program,
		&participant.Role,
		&startDate,
		&endDate,
		&participant.Hours,
		&participant.TeamValue,
		&participant.VerificationCode,
		&createdAt,
	); err != nil {
		return domain.Participant{}, fmt.Errorf("failed to scan participant: %w", err)
	}
	if startDate.Valid {
		participant.StartDate = startDate.Time
	}
	if endDate.Valid {
		participant.EndDate = endDate.Time
	}
	if createdAt.Valid {
		participant.CreatedAt = createdAt.Time
	}
	return participant, nil
}
