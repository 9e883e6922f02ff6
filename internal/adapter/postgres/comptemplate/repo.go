// Package comptemplate implements read access to compliance checklist
// templates. Templates are seeded through migrations or admin tooling, so the
// repository is read-only.
package comptemplate

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres"
	"github.com/careops/compliance-backend/internal/domain"
)

// Repo provides compliance template reads backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new compliance template repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getTemplateSQL = `
SELECT id, company_id, name, scope_type, frequency, created_at
FROM compliance_templates
WHERE company_id = $1 AND id = $2`

const listItemsSQL = `
SELECT id, template_id, title, response_type, is_critical,
       notes_required_on_fail, sort_order
FROM compliance_template_items
WHERE template_id = $1
ORDER BY sort_order, title`

const getItemSQL = `
SELECT id, template_id, title, response_type, is_critical,
       notes_required_on_fail, sort_order
FROM compliance_template_items
WHERE template_id = $1 AND id = $2`

// GetByID returns a template by primary key with company filter.
func (r *Repo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceTemplate, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var t domain.ComplianceTemplate
	err := q.QueryRow(ctx, getTemplateSQL, companyID, id).Scan(
		&t.ID, &t.CompanyID, &t.Name, &t.ScopeType, &t.Frequency, &t.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "compliance template", id)
	}

	return &t, nil
}

// ListItems returns the template's checklist items in display order.
func (r *Repo) ListItems(ctx context.Context, templateID uuid.UUID) ([]domain.ComplianceTemplateItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listItemsSQL, templateID)
	if err != nil {
		return nil, fmt.Errorf("list template items: %w", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("scan template items: %w", err)
	}

	return items, nil
}

// GetItem returns one checklist item belonging to the template.
func (r *Repo) GetItem(ctx context.Context, templateID, itemID uuid.UUID) (*domain.ComplianceTemplateItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, getItemSQL, templateID, itemID)
	if err != nil {
		return nil, fmt.Errorf("get template item: %w", err)
	}
	defer rows.Close()

	item, err := pgx.CollectOneRow(rows, scanItem)
	if err != nil {
		return nil, postgres.MapError(err, "template item", itemID)
	}

	return &item, nil
}

func scanItem(row pgx.CollectableRow) (domain.ComplianceTemplateItem, error) {
	var it domain.ComplianceTemplateItem
	err := row.Scan(
		&it.ID, &it.TemplateID, &it.Title, &it.ResponseType,
		&it.IsCritical, &it.NotesRequiredOnFail, &it.SortOrder)
	return it, err
}
