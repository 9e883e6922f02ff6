// Package docreview implements document review template, review, and
// suggested finding persistence using PostgreSQL. Review answers are stored
// as a jsonb column rather than a child table: they are written once with the
// review and only ever read back whole.
package docreview

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres"
	"github.com/careops/compliance-backend/internal/domain"
)

// TemplateRepo provides read access to document review templates.
type TemplateRepo struct {
	pool *pgxpool.Pool
}

// NewTemplateRepo creates a new document review template repository.
func NewTemplateRepo(pool *pgxpool.Pool) *TemplateRepo {
	return &TemplateRepo{pool: pool}
}

const getTemplateSQL = `
SELECT id, company_id, document_type, created_at
FROM doc_review_templates
WHERE company_id = $1 AND id = $2`

const listTemplateItemsSQL = `
SELECT id, template_id, title, is_critical, sort_order
FROM doc_review_template_items
WHERE template_id = $1
ORDER BY sort_order, title`

// GetByID returns a template by primary key with company filter.
func (r *TemplateRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.DocReviewTemplate, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var t domain.DocReviewTemplate
	err := q.QueryRow(ctx, getTemplateSQL, companyID, id).Scan(
		&t.ID, &t.CompanyID, &t.DocumentType, &t.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "review template", id)
	}

	return &t, nil
}

// ListItems returns the template's quality questions in display order.
func (r *TemplateRepo) ListItems(ctx context.Context, templateID uuid.UUID) ([]domain.DocReviewTemplateItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listTemplateItemsSQL, templateID)
	if err != nil {
		return nil, fmt.Errorf("list review template items: %w", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DocReviewTemplateItem, error) {
		var it domain.DocReviewTemplateItem
		err := row.Scan(&it.ID, &it.TemplateID, &it.Title, &it.IsCritical, &it.SortOrder)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan review template items: %w", err)
	}

	return items, nil
}
