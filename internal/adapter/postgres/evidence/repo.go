// Package evidence implements evidence request, item, and trail persistence
// using PostgreSQL. The trail table has no update or delete statements on
// purpose: rows only ever get appended.
package evidence

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres"
	"github.com/careops/compliance-backend/internal/domain"
)

// RequestRepo provides evidence request persistence.
type RequestRepo struct {
	pool *pgxpool.Pool
}

// NewRequestRepo creates a new evidence request repository.
func NewRequestRepo(pool *pgxpool.Pool) *RequestRepo {
	return &RequestRepo{pool: pool}
}

var requestColumns = []string{
	"id", "company_id", "finding_id", "audit_id", "indicator_id", "title",
	"description", "status", "due_date", "public_token",
	"portal_password_hash", "created_by", "created_at", "updated_at",
}

const insertRequestSQL = `
INSERT INTO evidence_requests (
    id, company_id, finding_id, audit_id, indicator_id, title,
    description, status, due_date, public_token,
    portal_password_hash, created_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const getRequestSQL = `
SELECT id, company_id, finding_id, audit_id, indicator_id, title,
       description, status, due_date, public_token,
       portal_password_hash, created_by, created_at, updated_at
FROM evidence_requests
WHERE company_id = $1 AND id = $2`

const getRequestByTokenSQL = `
SELECT id, company_id, finding_id, audit_id, indicator_id, title,
       description, status, due_date, public_token,
       portal_password_hash, created_by, created_at, updated_at
FROM evidence_requests
WHERE public_token = $1`

const updateRequestSQL = `
UPDATE evidence_requests SET
    title = $3, description = $4, status = $5, due_date = $6,
    portal_password_hash = $7, updated_at = $8
WHERE company_id = $1 AND id = $2`

// Create inserts an evidence request. The unique index on public_token maps
// a token collision to domain.ErrAlreadyExists.
func (r *RequestRepo) Create(ctx context.Context, req *domain.EvidenceRequest) (*domain.EvidenceRequest, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertRequestSQL,
		req.ID, req.CompanyID, req.FindingID, req.AuditID, req.IndicatorID,
		req.Title, req.Description, req.Status, req.DueDate, req.PublicToken,
		req.PortalPasswordHash, req.CreatedBy, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "evidence request", req.ID)
	}

	return req, nil
}

// GetByID returns a request by primary key with company filter.
func (r *RequestRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.EvidenceRequest, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	req, err := scanRequest(q.QueryRow(ctx, getRequestSQL, companyID, id))
	if err != nil {
		return nil, postgres.MapError(err, "evidence request", id)
	}

	return req, nil
}

// GetByToken returns a request by its public portal token. There is no
// company filter: the token itself is the lookup key the public portal has.
func (r *RequestRepo) GetByToken(ctx context.Context, token string) (*domain.EvidenceRequest, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	req, err := scanRequest(q.QueryRow(ctx, getRequestByTokenSQL, token))
	if err != nil {
		return nil, postgres.MapError(err, "evidence request", uuid.Nil)
	}

	return req, nil
}

// Update rewrites a request's mutable columns.
func (r *RequestRepo) Update(ctx context.Context, req *domain.EvidenceRequest) (*domain.EvidenceRequest, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateRequestSQL,
		req.CompanyID, req.ID,
		req.Title, req.Description, req.Status, req.DueDate,
		req.PortalPasswordHash, req.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "evidence request", req.ID)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("evidence request %s: %w", req.ID, domain.ErrNotFound)
	}

	return req, nil
}

// List returns the company's requests matching the filter, newest first.
func (r *RequestRepo) List(ctx context.Context, companyID uuid.UUID, filter domain.EvidenceFilter) ([]domain.EvidenceRequest, error) {
	builder := sq.Select(requestColumns...).
		From("evidence_requests").
		Where(sq.Eq{"company_id": companyID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.FindingID != nil {
		builder = builder.Where(sq.Eq{"finding_id": *filter.FindingID})
	}
	if filter.AuditID != nil {
		builder = builder.Where(sq.Eq{"audit_id": *filter.AuditID})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build evidence requests query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list evidence requests: %w", err)
	}
	defer rows.Close()

	requests, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.EvidenceRequest, error) {
		var req domain.EvidenceRequest
		err := row.Scan(
			&req.ID, &req.CompanyID, &req.FindingID, &req.AuditID,
			&req.IndicatorID, &req.Title, &req.Description, &req.Status,
			&req.DueDate, &req.PublicToken, &req.PortalPasswordHash,
			&req.CreatedBy, &req.CreatedAt, &req.UpdatedAt)
		return req, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan evidence requests: %w", err)
	}

	return requests, nil
}

func scanRequest(row pgx.Row) (*domain.EvidenceRequest, error) {
	var req domain.EvidenceRequest
	err := row.Scan(
		&req.ID, &req.CompanyID, &req.FindingID, &req.AuditID,
		&req.IndicatorID, &req.Title, &req.Description, &req.Status,
		&req.DueDate, &req.PublicToken, &req.PortalPasswordHash,
		&req.CreatedBy, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
