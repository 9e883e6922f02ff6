package evidence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres"
	"github.com/careops/compliance-backend/internal/domain"
)

// TrailRepo provides append-only trail persistence. Entries are never
// modified after insert.
type TrailRepo struct {
	pool *pgxpool.Pool
}

// NewTrailRepo creates a new evidence trail repository.
func NewTrailRepo(pool *pgxpool.Pool) *TrailRepo {
	return &TrailRepo{pool: pool}
}

const insertTrailSQL = `
INSERT INTO evidence_trail (
    id, request_id, actor, from_status, to_status, note, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

const listTrailByRequestSQL = `
SELECT id, request_id, actor, from_status, to_status, note, created_at
FROM evidence_trail
WHERE request_id = $1
ORDER BY created_at, id`

// Append records one trail entry.
func (r *TrailRepo) Append(ctx context.Context, entry *domain.EvidenceTrailEntry) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertTrailSQL,
		entry.ID, entry.RequestID, entry.Actor, entry.FromStatus,
		entry.ToStatus, entry.Note, entry.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "trail entry", entry.ID)
	}

	return nil
}

// ListByRequest returns the request's trail in recorded order.
func (r *TrailRepo) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]domain.EvidenceTrailEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listTrailByRequestSQL, requestID)
	if err != nil {
		return nil, fmt.Errorf("list trail: %w", err)
	}
	defer rows.Close()

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.EvidenceTrailEntry, error) {
		var e domain.EvidenceTrailEntry
		err := row.Scan(
			&e.ID, &e.RequestID, &e.Actor, &e.FromStatus, &e.ToStatus,
			&e.Note, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan trail: %w", err)
	}

	return entries, nil
}
