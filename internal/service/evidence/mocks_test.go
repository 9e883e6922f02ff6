package evidence

import (
	"context"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

type requestRepoMock struct {
	CreateFunc     func(ctx context.Context, req *domain.EvidenceRequest) (*domain.EvidenceRequest, error)
	GetByIDFunc    func(ctx context.Context, companyID, id uuid.UUID) (*domain.EvidenceRequest, error)
	GetByTokenFunc func(ctx context.Context, token string) (*domain.EvidenceRequest, error)
	UpdateFunc     func(ctx context.Context, req *domain.EvidenceRequest) (*domain.EvidenceRequest, error)
	ListFunc       func(ctx context.Context, companyID uuid.UUID, filter domain.EvidenceFilter) ([]domain.EvidenceRequest, error)
}

func (m *requestRepoMock) Create(ctx context.Context, req *domain.EvidenceRequest) (*domain.EvidenceRequest, error) {
	return m.CreateFunc(ctx, req)
}

func (m *requestRepoMock) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.EvidenceRequest, error) {
	return m.GetByIDFunc(ctx, companyID, id)
}

func (m *requestRepoMock) GetByToken(ctx context.Context, token string) (*domain.EvidenceRequest, error) {
	return m.GetByTokenFunc(ctx, token)
}

func (m *requestRepoMock) Update(ctx context.Context, req *domain.EvidenceRequest) (*domain.EvidenceRequest, error) {
	return m.UpdateFunc(ctx, req)
}

func (m *requestRepoMock) List(ctx context.Context, companyID uuid.UUID, filter domain.EvidenceFilter) ([]domain.EvidenceRequest, error) {
	return m.ListFunc(ctx, companyID, filter)
}

type itemRepoMock struct {
	CreateFunc        func(ctx context.Context, item *domain.EvidenceItem) (*domain.EvidenceItem, error)
	ListByRequestFunc func(ctx context.Context, requestID uuid.UUID) ([]domain.EvidenceItem, error)
}

func (m *itemRepoMock) Create(ctx context.Context, item *domain.EvidenceItem) (*domain.EvidenceItem, error) {
	return m.CreateFunc(ctx, item)
}

func (m *itemRepoMock) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]domain.EvidenceItem, error) {
	return m.ListByRequestFunc(ctx, requestID)
}

// trailRecorderMock collects appended entries so tests can assert the trail.
type trailRecorderMock struct {
	entries []domain.EvidenceTrailEntry
}

func (m *trailRecorderMock) Append(ctx context.Context, entry *domain.EvidenceTrailEntry) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *trailRecorderMock) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]domain.EvidenceTrailEntry, error) {
	return m.entries, nil
}

type findingRepoMock struct {
	GetByIDFunc func(ctx context.Context, companyID, id uuid.UUID) (*domain.Finding, error)
	UpdateFunc  func(ctx context.Context, finding *domain.Finding) (*domain.Finding, error)
}

func (m *findingRepoMock) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Finding, error) {
	return m.GetByIDFunc(ctx, companyID, id)
}

func (m *findingRepoMock) Update(ctx context.Context, finding *domain.Finding) (*domain.Finding, error) {
	return m.UpdateFunc(ctx, finding)
}

// txManagerMock runs the callback directly, without a database.
type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
