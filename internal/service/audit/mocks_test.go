package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

// Hand-written mocks with one Func field per method, in the style the rest of
// the services test with.

type auditRepoMock struct {
	CreateFunc  func(ctx context.Context, audit *domain.Audit) (*domain.Audit, error)
	GetByIDFunc func(ctx context.Context, companyID, id uuid.UUID) (*domain.Audit, error)
	UpdateFunc  func(ctx context.Context, audit *domain.Audit) (*domain.Audit, error)
}

func (m *auditRepoMock) Create(ctx context.Context, audit *domain.Audit) (*domain.Audit, error) {
	return m.CreateFunc(ctx, audit)
}

func (m *auditRepoMock) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Audit, error) {
	return m.GetByIDFunc(ctx, companyID, id)
}

func (m *auditRepoMock) Update(ctx context.Context, audit *domain.Audit) (*domain.Audit, error) {
	return m.UpdateFunc(ctx, audit)
}

type templateRepoMock struct {
	GetByIDFunc        func(ctx context.Context, companyID, id uuid.UUID) (*domain.AuditTemplate, error)
	ListIndicatorsFunc func(ctx context.Context, templateID uuid.UUID) ([]domain.AuditTemplateIndicator, error)
	GetIndicatorFunc   func(ctx context.Context, templateID, indicatorID uuid.UUID) (*domain.AuditTemplateIndicator, error)
}

func (m *templateRepoMock) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.AuditTemplate, error) {
	return m.GetByIDFunc(ctx, companyID, id)
}

func (m *templateRepoMock) ListIndicators(ctx context.Context, templateID uuid.UUID) ([]domain.AuditTemplateIndicator, error) {
	return m.ListIndicatorsFunc(ctx, templateID)
}

func (m *templateRepoMock) GetIndicator(ctx context.Context, templateID, indicatorID uuid.UUID) (*domain.AuditTemplateIndicator, error) {
	return m.GetIndicatorFunc(ctx, templateID, indicatorID)
}

type responseRepoMock struct {
	UpsertFunc         func(ctx context.Context, resp *domain.AuditIndicatorResponse) (*domain.AuditIndicatorResponse, error)
	GetByIndicatorFunc func(ctx context.Context, auditID, indicatorID uuid.UUID) (*domain.AuditIndicatorResponse, error)
	ListByAuditFunc    func(ctx context.Context, auditID uuid.UUID) ([]domain.AuditIndicatorResponse, error)
}

func (m *responseRepoMock) Upsert(ctx context.Context, resp *domain.AuditIndicatorResponse) (*domain.AuditIndicatorResponse, error) {
	return m.UpsertFunc(ctx, resp)
}

func (m *responseRepoMock) GetByIndicator(ctx context.Context, auditID, indicatorID uuid.UUID) (*domain.AuditIndicatorResponse, error) {
	return m.GetByIndicatorFunc(ctx, auditID, indicatorID)
}

func (m *responseRepoMock) ListByAudit(ctx context.Context, auditID uuid.UUID) ([]domain.AuditIndicatorResponse, error) {
	return m.ListByAuditFunc(ctx, auditID)
}

type findingRepoMock struct {
	CreateFunc              func(ctx context.Context, f *domain.Finding) (*domain.Finding, error)
	GetByIDFunc             func(ctx context.Context, companyID, id uuid.UUID) (*domain.Finding, error)
	GetByIndicatorFunc      func(ctx context.Context, auditID, indicatorID uuid.UUID) (*domain.Finding, error)
	UpdateFunc              func(ctx context.Context, f *domain.Finding) (*domain.Finding, error)
	ListFunc                func(ctx context.Context, companyID uuid.UUID, filter domain.FindingFilter) ([]domain.Finding, error)
	HasOpenWithSeverityFunc func(ctx context.Context, auditID uuid.UUID, severity domain.FindingSeverity) (bool, error)
}

func (m *findingRepoMock) Create(ctx context.Context, f *domain.Finding) (*domain.Finding, error) {
	return m.CreateFunc(ctx, f)
}

func (m *findingRepoMock) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Finding, error) {
	return m.GetByIDFunc(ctx, companyID, id)
}

func (m *findingRepoMock) GetByIndicator(ctx context.Context, auditID, indicatorID uuid.UUID) (*domain.Finding, error) {
	return m.GetByIndicatorFunc(ctx, auditID, indicatorID)
}

func (m *findingRepoMock) Update(ctx context.Context, f *domain.Finding) (*domain.Finding, error) {
	return m.UpdateFunc(ctx, f)
}

func (m *findingRepoMock) List(ctx context.Context, companyID uuid.UUID, filter domain.FindingFilter) ([]domain.Finding, error) {
	return m.ListFunc(ctx, companyID, filter)
}

func (m *findingRepoMock) HasOpenWithSeverity(ctx context.Context, auditID uuid.UUID, severity domain.FindingSeverity) (bool, error) {
	return m.HasOpenWithSeverityFunc(ctx, auditID, severity)
}

// txManagerMock runs the callback directly, without a database.
type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
