// Package compresponse implements the compliance run response repository.
// Answers are upserted on (run_id, item_id): re-answering an item while the
// run is open replaces the previous value in place.
package compresponse

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres"
	"github.com/careops/compliance-backend/internal/domain"
)

// Repo provides run response persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new run response repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const upsertResponseSQL = `
INSERT INTO compliance_responses (
    id, run_id, item_id, value, notes, attachment_ref, updated_by, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (run_id, item_id) DO UPDATE SET
    value = EXCLUDED.value,
    notes = EXCLUDED.notes,
    attachment_ref = EXCLUDED.attachment_ref,
    updated_by = EXCLUDED.updated_by,
    updated_at = EXCLUDED.updated_at
RETURNING id, run_id, item_id, value, notes, attachment_ref, updated_by, updated_at`

const getResponseByItemSQL = `
SELECT id, run_id, item_id, value, notes, attachment_ref, updated_by, updated_at
FROM compliance_responses
WHERE run_id = $1 AND item_id = $2`

const listResponsesByRunSQL = `
SELECT id, run_id, item_id, value, notes, attachment_ref, updated_by, updated_at
FROM compliance_responses
WHERE run_id = $1
ORDER BY updated_at`

// Upsert inserts the answer or replaces the existing one for the same item.
// The stored row keeps its original id on replacement.
func (r *Repo) Upsert(ctx context.Context, resp *domain.ComplianceResponse) (*domain.ComplianceResponse, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, upsertResponseSQL,
		resp.ID, resp.RunID, resp.ItemID, resp.Value, resp.Notes,
		resp.AttachmentRef, resp.UpdatedBy, resp.UpdatedAt)

	stored, err := scanResponse(row)
	if err != nil {
		return nil, postgres.MapError(err, "run response", resp.ItemID)
	}

	return stored, nil
}

// GetByItem returns the answer for one item in one run.
func (r *Repo) GetByItem(ctx context.Context, runID, itemID uuid.UUID) (*domain.ComplianceResponse, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	resp, err := scanResponse(q.QueryRow(ctx, getResponseByItemSQL, runID, itemID))
	if err != nil {
		return nil, postgres.MapError(err, "run response", itemID)
	}

	return resp, nil
}

// ListByRun returns all answers recorded for the run.
func (r *Repo) ListByRun(ctx context.Context, runID uuid.UUID) ([]domain.ComplianceResponse, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listResponsesByRunSQL, runID)
	if err != nil {
		return nil, fmt.Errorf("list run responses: %w", err)
	}
	defer rows.Close()

	responses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ComplianceResponse, error) {
		var resp domain.ComplianceResponse
		err := row.Scan(
			&resp.ID, &resp.RunID, &resp.ItemID, &resp.Value, &resp.Notes,
			&resp.AttachmentRef, &resp.UpdatedBy, &resp.UpdatedAt)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan run responses: %w", err)
	}

	return responses, nil
}

func scanResponse(row pgx.Row) (*domain.ComplianceResponse, error) {
	var resp domain.ComplianceResponse
	err := row.Scan(
		&resp.ID, &resp.RunID, &resp.ItemID, &resp.Value, &resp.Notes,
		&resp.AttachmentRef, &resp.UpdatedBy, &resp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
