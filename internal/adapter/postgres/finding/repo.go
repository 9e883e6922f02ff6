// Package finding implements the finding repository using PostgreSQL.
// The unique index on (audit_id, indicator_id) backs the at-most-one-finding
// invariant; listing uses squirrel for its optional filters.
package finding

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

// Repo provides finding persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new finding repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const findingColumns = `
    id, company_id, audit_id, indicator_id, severity, status, summary,
    owner_id, due_date, closure_note, closed_by, closed_at,
    created_at, updated_at`

const insertFindingSQL = `
INSERT INTO findings (
    id, company_id, audit_id, indicator_id, severity, status, summary,
    owner_id, due_date, closure_note, closed_by, closed_at,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const getFindingSQL = `
SELECT` + findingColumns + `
FROM findings
WHERE company_id = $1 AND id = $2`

const getByIndicatorSQL = `
SELECT` + findingColumns + `
FROM findings
WHERE audit_id = $1 AND indicator_id = $2`

const updateFindingSQL = `
UPDATE findings SET
    severity = $3, status = $4, summary = $5, owner_id = $6, due_date = $7,
    closure_note = $8, closed_by = $9, closed_at = $10, updated_at = $11
WHERE company_id = $1 AND id = $2`

const hasOpenWithSeveritySQL = `
SELECT EXISTS (
    SELECT 1 FROM findings
    WHERE audit_id = $1 AND severity = $2 AND status <> 'CLOSED'
)`

// Create inserts a finding. The (audit_id, indicator_id) unique index maps
// a duplicate insert to domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, f *domain.Finding) (*domain.Finding, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertFindingSQL,
		f.ID, f.CompanyID, f.AuditID, f.IndicatorID, f.Severity, f.Status,
		f.Summary, f.OwnerID, f.DueDate, f.ClosureNote, f.ClosedBy, f.ClosedAt,
		f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "finding", f.ID)
	}

	return f, nil
}

// GetByID returns a finding by primary key with company filter.
func (r *Repo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Finding, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	f, err := scanFinding(q.QueryRow(ctx, getFindingSQL, companyID, id))
	if err != nil {
		return nil, postgres.MapError(err, "finding", id)
	}

	return f, nil
}

// GetByIndicator returns the finding for (audit, indicator), if any.
func (r *Repo) GetByIndicator(ctx context.Context, auditID, indicatorID uuid.UUID) (*domain.Finding, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	f, err := scanFinding(q.QueryRow(ctx, getByIndicatorSQL, auditID, indicatorID))
	if err != nil {
		return nil, postgres.MapError(err, "finding", indicatorID)
	}

	return f, nil
}

// Update rewrites a finding's mutable columns.
func (r *Repo) Update(ctx context.Context, f *domain.Finding) (*domain.Finding, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateFindingSQL,
		f.CompanyID, f.ID,
		f.Severity, f.Status, f.Summary, f.OwnerID, f.DueDate,
		f.ClosureNote, f.ClosedBy, f.ClosedAt, f.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "finding", f.ID)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("finding %s: %w", f.ID, domain.ErrNotFound)
	}

	return f, nil
}

// List returns the company's findings matching the filter, newest first.
func (r *Repo) List(ctx context.Context, companyID uuid.UUID, filter domain.FindingFilter) ([]domain.Finding, error) {
	builder := sq.Select(
		"id", "company_id", "audit_id", "indicator_id", "severity", "status",
		"summary", "owner_id", "due_date", "closure_note", "closed_by",
		"closed_at", "created_at", "updated_at").
		From("findings").
		Where(sq.Eq{"company_id": companyID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.AuditID != nil {
		builder = builder.Where(sq.Eq{"audit_id": *filter.AuditID})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.Severity != nil {
		builder = builder.Where(sq.Eq{"severity": *filter.Severity})
	}
	if filter.OwnerID != nil {
		builder = builder.Where(sq.Eq{"owner_id": *filter.OwnerID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build findings query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	defer rows.Close()

	findings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Finding, error) {
		var f domain.Finding
		err := row.Scan(
			&f.ID, &f.CompanyID, &f.AuditID, &f.IndicatorID, &f.Severity,
			&f.Status, &f.Summary, &f.OwnerID, &f.DueDate, &f.ClosureNote,
			&f.ClosedBy, &f.ClosedAt, &f.CreatedAt, &f.UpdatedAt)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan findings: %w", err)
	}

	return findings, nil
}

// HasOpenWithSeverity reports whether the audit has an unresolved finding of
// the given severity.
func (r *Repo) HasOpenWithSeverity(ctx context.Context, auditID uuid.UUID, severity domain.FindingSeverity) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := q.QueryRow(ctx, hasOpenWithSeveritySQL, auditID, severity).Scan(&exists); err != nil {
		return false, fmt.Errorf("check open findings: %w", err)
	}

	return exists, nil
}

func scanFinding(row pgx.Row) (*domain.Finding, error) {
	var f domain.Finding
	err := row.Scan(
		&f.ID, &f.CompanyID, &f.AuditID, &f.IndicatorID, &f.Severity,
		&f.Status, &f.Summary, &f.OwnerID, &f.DueDate, &f.ClosureNote,
		&f.ClosedBy, &f.ClosedAt, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
