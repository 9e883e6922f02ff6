// Package auditresponse implements the indicator response repository.
// Responses are unique per (audit, indicator) and upserted last-writer-wins;
// the row id and created_at of the first write are preserved.
package auditresponse

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres"
	"github.com/careops/compliance-backend/internal/domain"
)

// Repo provides indicator response persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new indicator response repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const upsertResponseSQL = `
INSERT INTO audit_indicator_responses (
    id, audit_id, indicator_id, rating, comment,
    score_points, score_version, responded_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (audit_id, indicator_id) DO UPDATE SET
    rating = EXCLUDED.rating,
    comment = EXCLUDED.comment,
    score_points = EXCLUDED.score_points,
    score_version = EXCLUDED.score_version,
    responded_by = EXCLUDED.responded_by,
    updated_at = EXCLUDED.updated_at
RETURNING
    id, audit_id, indicator_id, rating, comment,
    score_points, score_version, responded_by, created_at, updated_at`

const getByIndicatorSQL = `
SELECT
    id, audit_id, indicator_id, rating, comment,
    score_points, score_version, responded_by, created_at, updated_at
FROM audit_indicator_responses
WHERE audit_id = $1 AND indicator_id = $2`

const listByAuditSQL = `
SELECT
    id, audit_id, indicator_id, rating, comment,
    score_points, score_version, responded_by, created_at, updated_at
FROM audit_indicator_responses
WHERE audit_id = $1
ORDER BY created_at`

// Upsert inserts or overwrites the response for (audit, indicator).
func (r *Repo) Upsert(ctx context.Context, resp *domain.AuditIndicatorResponse) (*domain.AuditIndicatorResponse, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, upsertResponseSQL,
		resp.ID, resp.AuditID, resp.IndicatorID, resp.Rating, resp.Comment,
		resp.ScorePoints, resp.ScoreVersion, resp.RespondedBy,
		resp.CreatedAt, resp.UpdatedAt)

	stored, err := scanResponseRow(row)
	if err != nil {
		return nil, postgres.MapError(err, "audit_indicator_response", resp.ID)
	}

	return stored, nil
}

// GetByIndicator returns the response for (audit, indicator), if any.
func (r *Repo) GetByIndicator(ctx context.Context, auditID, indicatorID uuid.UUID) (*domain.AuditIndicatorResponse, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getByIndicatorSQL, auditID, indicatorID)
	stored, err := scanResponseRow(row)
	if err != nil {
		return nil, postgres.MapError(err, "audit_indicator_response", indicatorID)
	}

	return stored, nil
}

// ListByAudit returns all responses recorded for an audit.
func (r *Repo) ListByAudit(ctx context.Context, auditID uuid.UUID) ([]domain.AuditIndicatorResponse, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByAuditSQL, auditID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	responses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AuditIndicatorResponse, error) {
		var resp domain.AuditIndicatorResponse
		err := row.Scan(
			&resp.ID, &resp.AuditID, &resp.IndicatorID, &resp.Rating, &resp.Comment,
			&resp.ScorePoints, &resp.ScoreVersion, &resp.RespondedBy,
			&resp.CreatedAt, &resp.UpdatedAt)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan responses: %w", err)
	}

	return responses, nil
}

func scanResponseRow(row pgx.Row) (*domain.AuditIndicatorResponse, error) {
	var resp domain.AuditIndicatorResponse
	err := row.Scan(
		&resp.ID, &resp.AuditID, &resp.IndicatorID, &resp.Rating, &resp.Comment,
		&resp.ScorePoints, &resp.ScoreVersion, &resp.RespondedBy,
		&resp.CreatedAt, &resp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
