// Package audittemplate implements read access to audit templates and their
// indicators. Templates are reference data: this repository never writes.
package audittemplate

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres"
	"github.com/careops/compliance-backend/internal/domain"
)

// Repo provides audit template reads backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit template repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getTemplateSQL = `
SELECT id, company_id, name, created_at
FROM audit_templates
WHERE company_id = $1 AND id = $2`

const listIndicatorsSQL = `
SELECT
    id, template_id, reference, text, risk_level, is_critical_control,
    guidance, evidence_requirement, sort_order
FROM audit_template_indicators
WHERE template_id = $1
ORDER BY sort_order, reference`

const getIndicatorSQL = `
SELECT
    id, template_id, reference, text, risk_level, is_critical_control,
    guidance, evidence_requirement, sort_order
FROM audit_template_indicators
WHERE template_id = $1 AND id = $2`

// GetByID returns a template by primary key with company filter.
func (r *Repo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.AuditTemplate, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var t domain.AuditTemplate
	err := q.QueryRow(ctx, getTemplateSQL, companyID, id).Scan(
		&t.ID, &t.CompanyID, &t.Name, &t.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "audit_template", id)
	}

	return &t, nil
}

// ListIndicators returns a template's indicators in checklist order.
func (r *Repo) ListIndicators(ctx context.Context, templateID uuid.UUID) ([]domain.AuditTemplateIndicator, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listIndicatorsSQL, templateID)
	if err != nil {
		return nil, fmt.Errorf("list indicators: %w", err)
	}
	defer rows.Close()

	indicators, err := pgx.CollectRows(rows, scanIndicator)
	if err != nil {
		return nil, fmt.Errorf("scan indicators: %w", err)
	}

	return indicators, nil
}

// GetIndicator returns one indicator, checked against its template.
func (r *Repo) GetIndicator(ctx context.Context, templateID, indicatorID uuid.UUID) (*domain.AuditTemplateIndicator, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getIndicatorSQL, templateID, indicatorID)
	var ind domain.AuditTemplateIndicator
	err := row.Scan(
		&ind.ID, &ind.TemplateID, &ind.Reference, &ind.Text, &ind.RiskLevel,
		&ind.IsCriticalControl, &ind.Guidance, &ind.EvidenceRequirement, &ind.SortOrder)
	if err != nil {
		return nil, postgres.MapError(err, "audit_template_indicator", indicatorID)
	}

	return &ind, nil
}

func scanIndicator(row pgx.CollectableRow) (domain.AuditTemplateIndicator, error) {
	var ind domain.AuditTemplateIndicator
	err := row.Scan(
		&ind.ID, &ind.TemplateID, &ind.Reference, &ind.Text, &ind.RiskLevel,
		&ind.IsCriticalControl, &ind.Guidance, &ind.EvidenceRequirement, &ind.SortOrder)
	return ind, err
}
