package docreview

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres"
	"github.com/careops/compliance-backend/internal/domain"
)

// ReviewRepo provides document review persistence. Reviews are immutable
// once recorded, so there is no update statement.
type ReviewRepo struct {
	pool *pgxpool.Pool
}

// NewReviewRepo creates a new document review repository.
func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

const insertReviewSQL = `
INSERT INTO document_reviews (
    id, company_id, evidence_item_id, template_id, responses,
    dqs_percent, critical_failures, decision, reviewer_id, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const getReviewSQL = `
SELECT id, company_id, evidence_item_id, template_id, responses,
       dqs_percent, critical_failures, decision, reviewer_id, created_at
FROM document_reviews
WHERE company_id = $1 AND id = $2`

// Create inserts a document review. Answers go into the responses jsonb
// column via pgx's JSON codec.
func (r *ReviewRepo) Create(ctx context.Context, review *domain.DocumentReview) (*domain.DocumentReview, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertReviewSQL,
		review.ID, review.CompanyID, review.EvidenceItemID, review.TemplateID,
		review.Responses, review.DQSPercent, review.CriticalFailures,
		review.Decision, review.ReviewerID, review.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "document review", review.ID)
	}

	return review, nil
}

// GetByID returns a review by primary key with company filter.
func (r *ReviewRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.DocumentReview, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var review domain.DocumentReview
	err := q.QueryRow(ctx, getReviewSQL, companyID, id).Scan(
		&review.ID, &review.CompanyID, &review.EvidenceItemID,
		&review.TemplateID, &review.Responses, &review.DQSPercent,
		&review.CriticalFailures, &review.Decision, &review.ReviewerID,
		&review.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "document review", id)
	}

	return &review, nil
}
