// Package audit implements the audit lifecycle state machine: scope and
// template selection, indicator response collection, score aggregation, and
// finding derivation for non-conformances.
package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

// auditRepo defines the audit repository interface needed by the audit service.
type auditRepo interface {
	Create(ctx context.Context, audit *domain.Audit) (*domain.Audit, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Audit, error)
	Update(ctx context.Context, audit *domain.Audit) (*domain.Audit, error)
}

// templateRepo provides read access to audit templates and their indicators.
type templateRepo interface {
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.AuditTemplate, error)
	ListIndicators(ctx context.Context, templateID uuid.UUID) ([]domain.AuditTemplateIndicator, error)
	GetIndicator(ctx context.Context, templateID, indicatorID uuid.UUID) (*domain.AuditTemplateIndicator, error)
}

// responseRepo defines the indicator response repository interface.
type responseRepo interface {
	Upsert(ctx context.Context, resp *domain.AuditIndicatorResponse) (*domain.AuditIndicatorResponse, error)
	GetByIndicator(ctx context.Context, auditID, indicatorID uuid.UUID) (*domain.AuditIndicatorResponse, error)
	ListByAudit(ctx context.Context, auditID uuid.UUID) ([]domain.AuditIndicatorResponse, error)
}

// findingRepo defines the finding repository interface.
type findingRepo interface {
	Create(ctx context.Context, f *domain.Finding) (*domain.Finding, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Finding, error)
	GetByIndicator(ctx context.Context, auditID, indicatorID uuid.UUID) (*domain.Finding, error)
	Update(ctx context.Context, f *domain.Finding) (*domain.Finding, error)
	List(ctx context.Context, companyID uuid.UUID, filter domain.FindingFilter) ([]domain.Finding, error)
	HasOpenWithSeverity(ctx context.Context, auditID uuid.UUID, severity domain.FindingSeverity) (bool, error)
}

// txManager defines the transaction manager interface needed by the audit service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements audit lifecycle, response, and finding operations.
type Service struct {
	log       *slog.Logger
	audits    auditRepo
	templates templateRepo
	responses responseRepo
	findings  findingRepo
	tx        txManager
}

// NewService creates a new audit service instance.
func NewService(
	logger *slog.Logger,
	audits auditRepo,
	templates templateRepo,
	responses responseRepo,
	findings findingRepo,
	tx txManager,
) *Service {
	return &Service{
		log:       logger.With("service", "audit"),
		audits:    audits,
		templates: templates,
		responses: responses,
		findings:  findings,
		tx:        tx,
	}
}
