package rollup

import (
	"context"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

type runReaderMock struct {
	ListByWindowFunc func(ctx context.Context, companyID uuid.UUID, window domain.RunWindow) ([]domain.ComplianceRun, error)
}

func (m *runReaderMock) ListByWindow(ctx context.Context, companyID uuid.UUID, window domain.RunWindow) ([]domain.ComplianceRun, error) {
	return m.ListByWindowFunc(ctx, companyID, window)
}

type responseReaderMock struct {
	ListByRunFunc func(ctx context.Context, runID uuid.UUID) ([]domain.ComplianceResponse, error)
}

func (m *responseReaderMock) ListByRun(ctx context.Context, runID uuid.UUID) ([]domain.ComplianceResponse, error) {
	return m.ListByRunFunc(ctx, runID)
}

type templateReaderMock struct {
	GetByIDFunc   func(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceTemplate, error)
	ListItemsFunc func(ctx context.Context, templateID uuid.UUID) ([]domain.ComplianceTemplateItem, error)
}

func (m *templateReaderMock) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceTemplate, error) {
	return m.GetByIDFunc(ctx, companyID, id)
}

func (m *templateReaderMock) ListItems(ctx context.Context, templateID uuid.UUID) ([]domain.ComplianceTemplateItem, error) {
	return m.ListItemsFunc(ctx, templateID)
}

type actionReaderMock struct {
	ListFunc func(ctx context.Context, companyID uuid.UUID, filter domain.ActionFilter) ([]domain.ComplianceAction, error)
}

func (m *actionReaderMock) List(ctx context.Context, companyID uuid.UUID, filter domain.ActionFilter) ([]domain.ComplianceAction, error) {
	return m.ListFunc(ctx, companyID, filter)
}

type reportRepoMock struct {
	CreateFunc  func(ctx context.Context, report *domain.WeeklyReport) (*domain.WeeklyReport, error)
	GetByIDFunc func(ctx context.Context, companyID, id uuid.UUID) (*domain.WeeklyReport, error)
}

func (m *reportRepoMock) Create(ctx context.Context, report *domain.WeeklyReport) (*domain.WeeklyReport, error) {
	return m.CreateFunc(ctx, report)
}

func (m *reportRepoMock) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.WeeklyReport, error) {
	return m.GetByIDFunc(ctx, companyID, id)
}

type reportWriterMock struct {
	WriteReportFunc func(ctx context.Context, input domain.ReportInput) (string, error)
}

func (m *reportWriterMock) WriteReport(ctx context.Context, input domain.ReportInput) (string, error) {
	return m.WriteReportFunc(ctx, input)
}
