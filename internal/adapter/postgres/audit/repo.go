// Package audit implements the audit repository using PostgreSQL.
// An audit row and its scope items are read and written together; scope
// items are replaced wholesale on update.
package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres"
	"github.com/careops/compliance-backend/internal/domain"
)

// Repo provides audit persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertAuditSQL = `
INSERT INTO audits (
    id, company_id, title, audit_type, status, template_id, scope_locked,
    domains, external_auditor_name, external_auditor_org,
    close_reason, closed_by, closed_at, created_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

const getAuditSQL = `
SELECT
    id, company_id, title, audit_type, status, template_id, scope_locked,
    domains, external_auditor_name, external_auditor_org,
    close_reason, closed_by, closed_at, created_by, created_at, updated_at
FROM audits
WHERE company_id = $1 AND id = $2`

const updateAuditSQL = `
UPDATE audits SET
    title = $3, status = $4, template_id = $5, scope_locked = $6,
    domains = $7, external_auditor_name = $8, external_auditor_org = $9,
    close_reason = $10, closed_by = $11, closed_at = $12, updated_at = $13
WHERE company_id = $1 AND id = $2`

const deleteScopeItemsSQL = `DELETE FROM audit_scope_items WHERE audit_id = $1`

const insertScopeItemSQL = `
INSERT INTO audit_scope_items (id, audit_id, code, description)
VALUES ($1, $2, $3, $4)`

const listScopeItemsSQL = `
SELECT id, audit_id, code, description
FROM audit_scope_items
WHERE audit_id = $1
ORDER BY code`

// Create inserts an audit with its scope items.
func (r *Repo) Create(ctx context.Context, audit *domain.Audit) (*domain.Audit, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertAuditSQL,
		audit.ID, audit.CompanyID, audit.Title, audit.AuditType, audit.Status,
		audit.TemplateID, audit.ScopeLocked, audit.Domains,
		audit.ExternalAuditorName, audit.ExternalAuditorOrg,
		audit.CloseReason, audit.ClosedBy, audit.ClosedAt,
		audit.CreatedBy, audit.CreatedAt, audit.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "audit", audit.ID)
	}

	if err := r.replaceScopeItems(ctx, q, audit.ID, audit.ScopeItems); err != nil {
		return nil, err
	}

	return audit, nil
}

// GetByID returns an audit with its scope items, filtered by company.
func (r *Repo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Audit, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var a domain.Audit
	err := q.QueryRow(ctx, getAuditSQL, companyID, id).Scan(
		&a.ID, &a.CompanyID, &a.Title, &a.AuditType, &a.Status,
		&a.TemplateID, &a.ScopeLocked, &a.Domains,
		&a.ExternalAuditorName, &a.ExternalAuditorOrg,
		&a.CloseReason, &a.ClosedBy, &a.ClosedAt,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "audit", id)
	}

	items, err := r.listScopeItems(ctx, q, a.ID)
	if err != nil {
		return nil, err
	}
	a.ScopeItems = items

	return &a, nil
}

// Update rewrites an audit row and replaces its scope items.
func (r *Repo) Update(ctx context.Context, audit *domain.Audit) (*domain.Audit, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateAuditSQL,
		audit.CompanyID, audit.ID,
		audit.Title, audit.Status, audit.TemplateID, audit.ScopeLocked,
		audit.Domains, audit.ExternalAuditorName, audit.ExternalAuditorOrg,
		audit.CloseReason, audit.ClosedBy, audit.ClosedAt, audit.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "audit", audit.ID)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("audit %s: %w", audit.ID, domain.ErrNotFound)
	}

	if err := r.replaceScopeItems(ctx, q, audit.ID, audit.ScopeItems); err != nil {
		return nil, err
	}

	return audit, nil
}

func (r *Repo) replaceScopeItems(ctx context.Context, q postgres.Querier, auditID uuid.UUID, items []domain.AuditScopeItem) error {
	if _, err := q.Exec(ctx, deleteScopeItemsSQL, auditID); err != nil {
		return postgres.MapError(err, "audit_scope_item", auditID)
	}

	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		if _, err := q.Exec(ctx, insertScopeItemSQL, item.ID, auditID, item.Code, item.Description); err != nil {
			return postgres.MapError(err, "audit_scope_item", item.ID)
		}
	}
	return nil
}

func (r *Repo) listScopeItems(ctx context.Context, q postgres.Querier, auditID uuid.UUID) ([]domain.AuditScopeItem, error) {
	rows, err := q.Query(ctx, listScopeItemsSQL, auditID)
	if err != nil {
		return nil, fmt.Errorf("list scope items: %w", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AuditScopeItem, error) {
		var item domain.AuditScopeItem
		err := row.Scan(&item.ID, &item.AuditID, &item.Code, &item.Description)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan scope items: %w", err)
	}

	return items, nil
}
