// Package compliance implements the compliance run state machine: scheduled
// checklist instances, item response validation, traffic-light outcomes, and
// corrective action derivation on submission.
package compliance

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

// templateRepo provides read access to compliance templates and their items.
type templateRepo interface {
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceTemplate, error)
	ListItems(ctx context.Context, templateID uuid.UUID) ([]domain.ComplianceTemplateItem, error)
	GetItem(ctx context.Context, templateID, itemID uuid.UUID) (*domain.ComplianceTemplateItem, error)
}

// scopeRepo verifies that the scope entity (site or participant) exists for
// the tenant before a run is created against it.
type scopeRepo interface {
	Exists(ctx context.Context, companyID uuid.UUID, scopeType domain.ScopeType, entityID uuid.UUID) (bool, error)
}

// runRepo defines the compliance run repository interface.
type runRepo interface {
	Create(ctx context.Context, run *domain.ComplianceRun) (*domain.ComplianceRun, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceRun, error)
	GetByPeriod(ctx context.Context, templateID, scopeEntityID uuid.UUID, periodStart time.Time) (*domain.ComplianceRun, error)
	Update(ctx context.Context, run *domain.ComplianceRun) (*domain.ComplianceRun, error)
	ListByWindow(ctx context.Context, companyID uuid.UUID, window domain.RunWindow) ([]domain.ComplianceRun, error)
}

// responseRepo defines the run response repository interface.
type responseRepo interface {
	Upsert(ctx context.Context, resp *domain.ComplianceResponse) (*domain.ComplianceResponse, error)
	GetByItem(ctx context.Context, runID, itemID uuid.UUID) (*domain.ComplianceResponse, error)
	ListByRun(ctx context.Context, runID uuid.UUID) ([]domain.ComplianceResponse, error)
}

// actionRepo defines the corrective action repository interface.
type actionRepo interface {
	Create(ctx context.Context, action *domain.ComplianceAction) (*domain.ComplianceAction, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceAction, error)
	Update(ctx context.Context, action *domain.ComplianceAction) (*domain.ComplianceAction, error)
	List(ctx context.Context, companyID uuid.UUID, filter domain.ActionFilter) ([]domain.ComplianceAction, error)
}

// txManager defines the transaction manager interface needed by this service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements compliance run, response, and action operations.
type Service struct {
	log       *slog.Logger
	templates templateRepo
	scopes    scopeRepo
	runs      runRepo
	responses responseRepo
	actions   actionRepo
	tx        txManager
}

// NewService creates a new compliance service instance.
func NewService(
	logger *slog.Logger,
	templates templateRepo,
	scopes scopeRepo,
	runs runRepo,
	responses responseRepo,
	actions actionRepo,
	tx txManager,
) *Service {
	return &Service{
		log:       logger.With("service", "compliance"),
		templates: templates,
		scopes:    scopes,
		runs:      runs,
		responses: responses,
		actions:   actions,
		tx:        tx,
	}
}
