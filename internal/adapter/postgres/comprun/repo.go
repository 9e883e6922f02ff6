// Package comprun implements the compliance run repository using PostgreSQL.
// The unique index on (template_id, scope_entity_id, period_start) is what
// enforces one run per template, scope entity, and period under concurrency.
package comprun

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres"
	"github.com/careops/compliance-backend/internal/domain"
)

// Repo provides compliance run persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new compliance run repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const runColumns = `
    id, company_id, template_id, scope_type, scope_entity_id,
    period_start, period_end, status, outcome,
    submitted_by, submitted_at, created_by, created_at`

const insertRunSQL = `
INSERT INTO compliance_runs (
    id, company_id, template_id, scope_type, scope_entity_id,
    period_start, period_end, status, outcome,
    submitted_by, submitted_at, created_by, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const getRunSQL = `
SELECT` + runColumns + `
FROM compliance_runs
WHERE company_id = $1 AND id = $2`

const getRunByPeriodSQL = `
SELECT` + runColumns + `
FROM compliance_runs
WHERE template_id = $1 AND scope_entity_id = $2 AND period_start = $3`

const updateRunSQL = `
UPDATE compliance_runs SET
    status = $3, outcome = $4, submitted_by = $5, submitted_at = $6
WHERE company_id = $1 AND id = $2`

const listRunsByWindowSQL = `
SELECT` + runColumns + `
FROM compliance_runs
WHERE company_id = $1 AND scope_entity_id = $2
  AND period_start >= $3 AND period_start < $4
ORDER BY period_start, created_at`

// Create inserts a run. A period collision maps to domain.ErrAlreadyExists
// via the (template_id, scope_entity_id, period_start) unique index.
func (r *Repo) Create(ctx context.Context, run *domain.ComplianceRun) (*domain.ComplianceRun, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertRunSQL,
		run.ID, run.CompanyID, run.TemplateID, run.ScopeType, run.ScopeEntityID,
		run.PeriodStart, run.PeriodEnd, run.Status, run.Outcome,
		run.SubmittedBy, run.SubmittedAt, run.CreatedBy, run.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "compliance run", run.ID)
	}

	return run, nil
}

// GetByID returns a run by primary key with company filter.
func (r *Repo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceRun, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	run, err := scanRun(q.QueryRow(ctx, getRunSQL, companyID, id))
	if err != nil {
		return nil, postgres.MapError(err, "compliance run", id)
	}

	return run, nil
}

// GetByPeriod returns the run occupying (template, scope entity, period
// start), used to surface the winner of a period conflict.
func (r *Repo) GetByPeriod(ctx context.Context, templateID, scopeEntityID uuid.UUID, periodStart time.Time) (*domain.ComplianceRun, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	run, err := scanRun(q.QueryRow(ctx, getRunByPeriodSQL, templateID, scopeEntityID, periodStart))
	if err != nil {
		return nil, postgres.MapError(err, "compliance run", templateID)
	}

	return run, nil
}

// Update rewrites a run's mutable columns.
func (r *Repo) Update(ctx context.Context, run *domain.ComplianceRun) (*domain.ComplianceRun, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateRunSQL,
		run.CompanyID, run.ID,
		run.Status, run.Outcome, run.SubmittedBy, run.SubmittedAt)
	if err != nil {
		return nil, postgres.MapError(err, "compliance run", run.ID)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("compliance run %s: %w", run.ID, domain.ErrNotFound)
	}

	return run, nil
}

// ListByWindow returns the scope entity's runs whose period starts inside the
// window, oldest first.
func (r *Repo) ListByWindow(ctx context.Context, companyID uuid.UUID, window domain.RunWindow) ([]domain.ComplianceRun, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listRunsByWindowSQL,
		companyID, window.ScopeEntityID, window.PeriodStart, window.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ComplianceRun, error) {
		var run domain.ComplianceRun
		err := row.Scan(
			&run.ID, &run.CompanyID, &run.TemplateID, &run.ScopeType,
			&run.ScopeEntityID, &run.PeriodStart, &run.PeriodEnd, &run.Status,
			&run.Outcome, &run.SubmittedBy, &run.SubmittedAt, &run.CreatedBy,
			&run.CreatedAt)
		return run, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}

	return runs, nil
}

func scanRun(row pgx.Row) (*domain.ComplianceRun, error) {
	var run domain.ComplianceRun
	err := row.Scan(
		&run.ID, &run.CompanyID, &run.TemplateID, &run.ScopeType,
		&run.ScopeEntityID, &run.PeriodStart, &run.PeriodEnd, &run.Status,
		&run.Outcome, &run.SubmittedBy, &run.SubmittedAt, &run.CreatedBy,
		&run.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
