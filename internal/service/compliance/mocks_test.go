package compliance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

type templateRepoMock struct {
	GetByIDFunc   func(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceTemplate, error)
	ListItemsFunc func(ctx context.Context, templateID uuid.UUID) ([]domain.ComplianceTemplateItem, error)
	GetItemFunc   func(ctx context.Context, templateID, itemID uuid.UUID) (*domain.ComplianceTemplateItem, error)
}

func (m *templateRepoMock) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceTemplate, error) {
	return m.GetByIDFunc(ctx, companyID, id)
}

func (m *templateRepoMock) ListItems(ctx context.Context, templateID uuid.UUID) ([]domain.ComplianceTemplateItem, error) {
	return m.ListItemsFunc(ctx, templateID)
}

func (m *templateRepoMock) GetItem(ctx context.Context, templateID, itemID uuid.UUID) (*domain.ComplianceTemplateItem, error) {
	return m.GetItemFunc(ctx, templateID, itemID)
}

type scopeRepoMock struct {
	ExistsFunc func(ctx context.Context, companyID uuid.UUID, scopeType domain.ScopeType, entityID uuid.UUID) (bool, error)
}

func (m *scopeRepoMock) Exists(ctx context.Context, companyID uuid.UUID, scopeType domain.ScopeType, entityID uuid.UUID) (bool, error) {
	return m.ExistsFunc(ctx, companyID, scopeType, entityID)
}

type runRepoMock struct {
	CreateFunc       func(ctx context.Context, run *domain.ComplianceRun) (*domain.ComplianceRun, error)
	GetByIDFunc      func(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceRun, error)
	GetByPeriodFunc  func(ctx context.Context, templateID, scopeEntityID uuid.UUID, periodStart time.Time) (*domain.ComplianceRun, error)
	UpdateFunc       func(ctx context.Context, run *domain.ComplianceRun) (*domain.ComplianceRun, error)
	ListByWindowFunc func(ctx context.Context, companyID uuid.UUID, window domain.RunWindow) ([]domain.ComplianceRun, error)
}

func (m *runRepoMock) Create(ctx context.Context, run *domain.ComplianceRun) (*domain.ComplianceRun, error) {
	return m.CreateFunc(ctx, run)
}

func (m *runRepoMock) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceRun, error) {
	return m.GetByIDFunc(ctx, companyID, id)
}

func (m *runRepoMock) GetByPeriod(ctx context.Context, templateID, scopeEntityID uuid.UUID, periodStart time.Time) (*domain.ComplianceRun, error) {
	return m.GetByPeriodFunc(ctx, templateID, scopeEntityID, periodStart)
}

func (m *runRepoMock) Update(ctx context.Context, run *domain.ComplianceRun) (*domain.ComplianceRun, error) {
	return m.UpdateFunc(ctx, run)
}

func (m *runRepoMock) ListByWindow(ctx context.Context, companyID uuid.UUID, window domain.RunWindow) ([]domain.ComplianceRun, error) {
	return m.ListByWindowFunc(ctx, companyID, window)
}

type responseRepoMock struct {
	UpsertFunc    func(ctx context.Context, resp *domain.ComplianceResponse) (*domain.ComplianceResponse, error)
	GetByItemFunc func(ctx context.Context, runID, itemID uuid.UUID) (*domain.ComplianceResponse, error)
	ListByRunFunc func(ctx context.Context, runID uuid.UUID) ([]domain.ComplianceResponse, error)
}

func (m *responseRepoMock) Upsert(ctx context.Context, resp *domain.ComplianceResponse) (*domain.ComplianceResponse, error) {
	return m.UpsertFunc(ctx, resp)
}

func (m *responseRepoMock) GetByItem(ctx context.Context, runID, itemID uuid.UUID) (*domain.ComplianceResponse, error) {
	return m.GetByItemFunc(ctx, runID, itemID)
}

func (m *responseRepoMock) ListByRun(ctx context.Context, runID uuid.UUID) ([]domain.ComplianceResponse, error) {
	return m.ListByRunFunc(ctx, runID)
}

type actionRepoMock struct {
	CreateFunc  func(ctx context.Context, action *domain.ComplianceAction) (*domain.ComplianceAction, error)
	GetByIDFunc func(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceAction, error)
	UpdateFunc  func(ctx context.Context, action *domain.ComplianceAction) (*domain.ComplianceAction, error)
	ListFunc    func(ctx context.Context, companyID uuid.UUID, filter domain.ActionFilter) ([]domain.ComplianceAction, error)
}

func (m *actionRepoMock) Create(ctx context.Context, action *domain.ComplianceAction) (*domain.ComplianceAction, error) {
	return m.CreateFunc(ctx, action)
}

func (m *actionRepoMock) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceAction, error) {
	return m.GetByIDFunc(ctx, companyID, id)
}

func (m *actionRepoMock) Update(ctx context.Context, action *domain.ComplianceAction) (*domain.ComplianceAction, error) {
	return m.UpdateFunc(ctx, action)
}

func (m *actionRepoMock) List(ctx context.Context, companyID uuid.UUID, filter domain.ActionFilter) ([]domain.ComplianceAction, error) {
	return m.ListFunc(ctx, companyID, filter)
}

// txManagerMock runs the callback directly, without a database.
type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
