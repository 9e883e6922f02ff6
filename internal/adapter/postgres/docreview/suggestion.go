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

// SuggestionRepo provides suggested finding persistence.
type SuggestionRepo struct {
	pool *pgxpool.Pool
}

// NewSuggestionRepo creates a new suggested finding repository.
func NewSuggestionRepo(pool *pgxpool.Pool) *SuggestionRepo {
	return &SuggestionRepo{pool: pool}
}

const suggestionColumns = `
    id, company_id, review_id, audit_id, indicator_id, status,
    suggested_type, severity, rationale, confirmed_type, justification,
    dismiss_reason, response_id, finding_id, processed_by, processed_at,
    created_at`

const insertSuggestionSQL = `
INSERT INTO suggested_findings (
    id, company_id, review_id, audit_id, indicator_id, status,
    suggested_type, severity, rationale, confirmed_type, justification,
    dismiss_reason, response_id, finding_id, processed_by, processed_at,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

const getSuggestionSQL = `
SELECT` + suggestionColumns + `
FROM suggested_findings
WHERE company_id = $1 AND id = $2`

const updateSuggestionSQL = `
UPDATE suggested_findings SET
    status = $3, confirmed_type = $4, justification = $5, dismiss_reason = $6,
    response_id = $7, finding_id = $8, processed_by = $9, processed_at = $10
WHERE company_id = $1 AND id = $2`

const listSuggestionsByAuditSQL = `
SELECT` + suggestionColumns + `
FROM suggested_findings
WHERE company_id = $1 AND audit_id = $2
ORDER BY created_at DESC`

// Create inserts a suggested finding.
func (r *SuggestionRepo) Create(ctx context.Context, sf *domain.SuggestedFinding) (*domain.SuggestedFinding, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertSuggestionSQL,
		sf.ID, sf.CompanyID, sf.ReviewID, sf.AuditID, sf.IndicatorID,
		sf.Status, sf.SuggestedType, sf.Severity, sf.Rationale,
		sf.ConfirmedType, sf.Justification, sf.DismissReason, sf.ResponseID,
		sf.FindingID, sf.ProcessedBy, sf.ProcessedAt, sf.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "suggested finding", sf.ID)
	}

	return sf, nil
}

// GetByID returns a suggested finding by primary key with company filter.
func (r *SuggestionRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.SuggestedFinding, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sf, err := scanSuggestion(q.QueryRow(ctx, getSuggestionSQL, companyID, id))
	if err != nil {
		return nil, postgres.MapError(err, "suggested finding", id)
	}

	return sf, nil
}

// Update rewrites a suggestion's processing columns.
func (r *SuggestionRepo) Update(ctx context.Context, sf *domain.SuggestedFinding) (*domain.SuggestedFinding, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateSuggestionSQL,
		sf.CompanyID, sf.ID,
		sf.Status, sf.ConfirmedType, sf.Justification, sf.DismissReason,
		sf.ResponseID, sf.FindingID, sf.ProcessedBy, sf.ProcessedAt)
	if err != nil {
		return nil, postgres.MapError(err, "suggested finding", sf.ID)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("suggested finding %s: %w", sf.ID, domain.ErrNotFound)
	}

	return sf, nil
}

// ListByAudit returns the audit's suggested findings, newest first.
func (r *SuggestionRepo) ListByAudit(ctx context.Context, companyID, auditID uuid.UUID) ([]domain.SuggestedFinding, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listSuggestionsByAuditSQL, companyID, auditID)
	if err != nil {
		return nil, fmt.Errorf("list suggested findings: %w", err)
	}
	defer rows.Close()

	suggestions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SuggestedFinding, error) {
		var sf domain.SuggestedFinding
		err := row.Scan(
			&sf.ID, &sf.CompanyID, &sf.ReviewID, &sf.AuditID, &sf.IndicatorID,
			&sf.Status, &sf.SuggestedType, &sf.Severity, &sf.Rationale,
			&sf.ConfirmedType, &sf.Justification, &sf.DismissReason,
			&sf.ResponseID, &sf.FindingID, &sf.ProcessedBy, &sf.ProcessedAt,
			&sf.CreatedAt)
		return sf, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan suggested findings: %w", err)
	}

	return suggestions, nil
}

func scanSuggestion(row pgx.Row) (*domain.SuggestedFinding, error) {
	var sf domain.SuggestedFinding
	err := row.Scan(
		&sf.ID, &sf.CompanyID, &sf.ReviewID, &sf.AuditID, &sf.IndicatorID,
		&sf.Status, &sf.SuggestedType, &sf.Severity, &sf.Rationale,
		&sf.ConfirmedType, &sf.Justification, &sf.DismissReason,
		&sf.ResponseID, &sf.FindingID, &sf.ProcessedBy, &sf.ProcessedAt,
		&sf.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sf, nil
}
