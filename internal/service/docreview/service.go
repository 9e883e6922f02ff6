// Package docreview implements document quality reviews and the suggested
// findings they derive: a checklist assessment of one evidence item produces
// a document quality score, and poor scores propose audit findings that a
// human reviewer confirms or dismisses.
package docreview

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/internal/service/audit"
)

// templateRepo provides read access to document review checklists.
type templateRepo interface {
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.DocReviewTemplate, error)
	ListItems(ctx context.Context, templateID uuid.UUID) ([]domain.DocReviewTemplateItem, error)
}

// evidenceRepo resolves the reviewed item and the request it belongs to.
type evidenceRepo interface {
	GetItem(ctx context.Context, itemID uuid.UUID) (*domain.EvidenceItem, error)
	GetRequestByItem(ctx context.Context, itemID uuid.UUID) (*domain.EvidenceRequest, error)
}

// reviewRepo defines the document review repository interface.
type reviewRepo interface {
	Create(ctx context.Context, review *domain.DocumentReview) (*domain.DocumentReview, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.DocumentReview, error)
}

// suggestionRepo defines the suggested finding repository interface.
type suggestionRepo interface {
	Create(ctx context.Context, sf *domain.SuggestedFinding) (*domain.SuggestedFinding, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.SuggestedFinding, error)
	Update(ctx context.Context, sf *domain.SuggestedFinding) (*domain.SuggestedFinding, error)
	ListByAudit(ctx context.Context, companyID, auditID uuid.UUID) ([]domain.SuggestedFinding, error)
}

// auditResponses is the slice of the audit service a confirmation needs:
// the confirmed response is written through the audit path so that scoring
// and finding idempotency apply unchanged.
type auditResponses interface {
	GetAudit(ctx context.Context, auditID uuid.UUID) (*audit.AuditDetail, error)
	UpsertResponse(ctx context.Context, input audit.UpsertResponseInput) (*audit.UpsertResult, error)
	AddLateResponse(ctx context.Context, input audit.UpsertResponseInput) (*audit.UpsertResult, error)
}

// txManager defines the transaction manager interface needed by this service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements document review and suggested finding operations.
type Service struct {
	log         *slog.Logger
	templates   templateRepo
	evidence    evidenceRepo
	reviews     reviewRepo
	suggestions suggestionRepo
	audits      auditResponses
	tx          txManager
}

// NewService creates a new document review service instance.
func NewService(
	logger *slog.Logger,
	templates templateRepo,
	evidence evidenceRepo,
	reviews reviewRepo,
	suggestions suggestionRepo,
	audits auditResponses,
	tx txManager,
) *Service {
	return &Service{
		log:         logger.With("service", "docreview"),
		templates:   templates,
		evidence:    evidence,
		reviews:     reviews,
		suggestions: suggestions,
		audits:      audits,
		tx:          tx,
	}
}
