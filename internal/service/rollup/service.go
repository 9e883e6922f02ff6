// Package rollup reduces a participant's compliance runs and actions over a
// reporting window to a fixed metrics object, and hands that object to an
// external report-writing collaborator. The aggregator never writes
// narrative text of its own.
package rollup

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

// runReader lists the compliance runs the aggregation walks.
type runReader interface {
	ListByWindow(ctx context.Context, companyID uuid.UUID, window domain.RunWindow) ([]domain.ComplianceRun, error)
}

// responseReader lists a run's item responses.
type responseReader interface {
	ListByRun(ctx context.Context, runID uuid.UUID) ([]domain.ComplianceResponse, error)
}

// templateReader resolves run templates and their items, for frequency and
// criticality.
type templateReader interface {
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceTemplate, error)
	ListItems(ctx context.Context, templateID uuid.UUID) ([]domain.ComplianceTemplateItem, error)
}

// actionReader lists corrective actions created in the window.
type actionReader interface {
	List(ctx context.Context, companyID uuid.UUID, filter domain.ActionFilter) ([]domain.ComplianceAction, error)
}

// reportRepo defines the weekly report repository interface.
type reportRepo interface {
	Create(ctx context.Context, report *domain.WeeklyReport) (*domain.WeeklyReport, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.WeeklyReport, error)
}

// reportWriter is the text-generation collaborator. It receives the full
// structured input and returns narrative text, which is stored verbatim.
type reportWriter interface {
	WriteReport(ctx context.Context, input domain.ReportInput) (string, error)
}

// Service implements the weekly rollup aggregation and report generation.
type Service struct {
	log       *slog.Logger
	runs      runReader
	responses responseReader
	templates templateReader
	actions   actionReader
	reports   reportRepo
	writer    reportWriter
}

// NewService creates a new rollup service instance.
func NewService(
	logger *slog.Logger,
	runs runReader,
	responses responseReader,
	templates templateReader,
	actions actionReader,
	reports reportRepo,
	writer reportWriter,
) *Service {
	return &Service{
		log:       logger.With("service", "rollup"),
		runs:      runs,
		responses: responses,
		templates: templates,
		actions:   actions,
		reports:   reports,
		writer:    writer,
	}
}
