package docreview

import (
	"context"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/internal/service/audit"
)

type templateRepoMock struct {
	GetByIDFunc   func(ctx context.Context, companyID, id uuid.UUID) (*domain.DocReviewTemplate, error)
	ListItemsFunc func(ctx context.Context, templateID uuid.UUID) ([]domain.DocReviewTemplateItem, error)
}

func (m *templateRepoMock) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.DocReviewTemplate, error) {
	return m.GetByIDFunc(ctx, companyID, id)
}

func (m *templateRepoMock) ListItems(ctx context.Context, templateID uuid.UUID) ([]domain.DocReviewTemplateItem, error) {
	return m.ListItemsFunc(ctx, templateID)
}

type evidenceRepoMock struct {
	GetItemFunc          func(ctx context.Context, itemID uuid.UUID) (*domain.EvidenceItem, error)
	GetRequestByItemFunc func(ctx context.Context, itemID uuid.UUID) (*domain.EvidenceRequest, error)
}

func (m *evidenceRepoMock) GetItem(ctx context.Context, itemID uuid.UUID) (*domain.EvidenceItem, error) {
	return m.GetItemFunc(ctx, itemID)
}

func (m *evidenceRepoMock) GetRequestByItem(ctx context.Context, itemID uuid.UUID) (*domain.EvidenceRequest, error) {
	return m.GetRequestByItemFunc(ctx, itemID)
}

type reviewRepoMock struct {
	CreateFunc  func(ctx context.Context, review *domain.DocumentReview) (*domain.DocumentReview, error)
	GetByIDFunc func(ctx context.Context, companyID, id uuid.UUID) (*domain.DocumentReview, error)
}

func (m *reviewRepoMock) Create(ctx context.Context, review *domain.DocumentReview) (*domain.DocumentReview, error) {
	return m.CreateFunc(ctx, review)
}

func (m *reviewRepoMock) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.DocumentReview, error) {
	return m.GetByIDFunc(ctx, companyID, id)
}

type suggestionRepoMock struct {
	CreateFunc      func(ctx context.Context, sf *domain.SuggestedFinding) (*domain.SuggestedFinding, error)
	GetByIDFunc     func(ctx context.Context, companyID, id uuid.UUID) (*domain.SuggestedFinding, error)
	UpdateFunc      func(ctx context.Context, sf *domain.SuggestedFinding) (*domain.SuggestedFinding, error)
	ListByAuditFunc func(ctx context.Context, companyID, auditID uuid.UUID) ([]domain.SuggestedFinding, error)
}

func (m *suggestionRepoMock) Create(ctx context.Context, sf *domain.SuggestedFinding) (*domain.SuggestedFinding, error) {
	return m.CreateFunc(ctx, sf)
}

func (m *suggestionRepoMock) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.SuggestedFinding, error) {
	return m.GetByIDFunc(ctx, companyID, id)
}

func (m *suggestionRepoMock) Update(ctx context.Context, sf *domain.SuggestedFinding) (*domain.SuggestedFinding, error) {
	return m.UpdateFunc(ctx, sf)
}

func (m *suggestionRepoMock) ListByAudit(ctx context.Context, companyID, auditID uuid.UUID) ([]domain.SuggestedFinding, error) {
	return m.ListByAuditFunc(ctx, companyID, auditID)
}

type auditResponsesMock struct {
	GetAuditFunc        func(ctx context.Context, auditID uuid.UUID) (*audit.AuditDetail, error)
	UpsertResponseFunc  func(ctx context.Context, input audit.UpsertResponseInput) (*audit.UpsertResult, error)
	AddLateResponseFunc func(ctx context.Context, input audit.UpsertResponseInput) (*audit.UpsertResult, error)
}

func (m *auditResponsesMock) GetAudit(ctx context.Context, auditID uuid.UUID) (*audit.AuditDetail, error) {
	return m.GetAuditFunc(ctx, auditID)
}

func (m *auditResponsesMock) UpsertResponse(ctx context.Context, input audit.UpsertResponseInput) (*audit.UpsertResult, error) {
	return m.UpsertResponseFunc(ctx, input)
}

func (m *auditResponsesMock) AddLateResponse(ctx context.Context, input audit.UpsertResponseInput) (*audit.UpsertResult, error) {
	return m.AddLateResponseFunc(ctx, input)
}

// txManagerMock runs the callback directly, without a database.
type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
