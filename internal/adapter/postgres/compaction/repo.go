// Package compaction implements the corrective action repository using
// PostgreSQL. Listing uses squirrel because the filter combines run, status,
// severity, assignee, and a created-at window.
package compaction

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

// Repo provides corrective action persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new corrective action repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var actionColumns = []string{
	"id", "company_id", "run_id", "item_id", "title", "severity", "status",
	"assignee_id", "due_date", "closure_note", "closure_attachment_ref",
	"closed_by", "closed_at", "created_at", "updated_at",
}

const insertActionSQL = `
INSERT INTO compliance_actions (
    id, company_id, run_id, item_id, title, severity, status,
    assignee_id, due_date, closure_note, closure_attachment_ref,
    closed_by, closed_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const getActionSQL = `
SELECT id, company_id, run_id, item_id, title, severity, status,
       assignee_id, due_date, closure_note, closure_attachment_ref,
       closed_by, closed_at, created_at, updated_at
FROM compliance_actions
WHERE company_id = $1 AND id = $2`

const updateActionSQL = `
UPDATE compliance_actions SET
    title = $3, severity = $4, status = $5, assignee_id = $6, due_date = $7,
    closure_note = $8, closure_attachment_ref = $9, closed_by = $10,
    closed_at = $11, updated_at = $12
WHERE company_id = $1 AND id = $2`

// Create inserts a corrective action.
func (r *Repo) Create(ctx context.Context, a *domain.ComplianceAction) (*domain.ComplianceAction, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertActionSQL,
		a.ID, a.CompanyID, a.RunID, a.ItemID, a.Title, a.Severity, a.Status,
		a.AssigneeID, a.DueDate, a.ClosureNote, a.ClosureAttachmentRef,
		a.ClosedBy, a.ClosedAt, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "corrective action", a.ID)
	}

	return a, nil
}

// GetByID returns a corrective action by primary key with company filter.
func (r *Repo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceAction, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var a domain.ComplianceAction
	err := q.QueryRow(ctx, getActionSQL, companyID, id).Scan(
		&a.ID, &a.CompanyID, &a.RunID, &a.ItemID, &a.Title, &a.Severity,
		&a.Status, &a.AssigneeID, &a.DueDate, &a.ClosureNote,
		&a.ClosureAttachmentRef, &a.ClosedBy, &a.ClosedAt, &a.CreatedAt,
		&a.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "corrective action", id)
	}

	return &a, nil
}

// Update rewrites a corrective action's mutable columns.
func (r *Repo) Update(ctx context.Context, a *domain.ComplianceAction) (*domain.ComplianceAction, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateActionSQL,
		a.CompanyID, a.ID,
		a.Title, a.Severity, a.Status, a.AssigneeID, a.DueDate,
		a.ClosureNote, a.ClosureAttachmentRef, a.ClosedBy, a.ClosedAt,
		a.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "corrective action", a.ID)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("corrective action %s: %w", a.ID, domain.ErrNotFound)
	}

	return a, nil
}

// List returns the company's corrective actions matching the filter, newest
// first.
func (r *Repo) List(ctx context.Context, companyID uuid.UUID, filter domain.ActionFilter) ([]domain.ComplianceAction, error) {
	builder := sq.Select(actionColumns...).
		From("compliance_actions").
		Where(sq.Eq{"company_id": companyID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.RunID != nil {
		builder = builder.Where(sq.Eq{"run_id": *filter.RunID})
	}
	if len(filter.RunIDs) > 0 {
		builder = builder.Where(sq.Eq{"run_id": filter.RunIDs})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.Severity != nil {
		builder = builder.Where(sq.Eq{"severity": *filter.Severity})
	}
	if filter.AssigneeID != nil {
		builder = builder.Where(sq.Eq{"assignee_id": *filter.AssigneeID})
	}
	if filter.CreatedFrom != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filter.CreatedFrom})
	}
	if filter.CreatedUntil != nil {
		builder = builder.Where(sq.Lt{"created_at": *filter.CreatedUntil})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build actions query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	actions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ComplianceAction, error) {
		var a domain.ComplianceAction
		err := row.Scan(
			&a.ID, &a.CompanyID, &a.RunID, &a.ItemID, &a.Title, &a.Severity,
			&a.Status, &a.AssigneeID, &a.DueDate, &a.ClosureNote,
			&a.ClosureAttachmentRef, &a.ClosedBy, &a.ClosedAt, &a.CreatedAt,
			&a.UpdatedAt)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan actions: %w", err)
	}

	return actions, nil
}
