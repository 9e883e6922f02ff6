// Package evidence implements the evidence request workflow: token-based
// external submission, internal submission, review decisions, and the
// append-only trail recording every transition.
package evidence

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

// requestRepo defines the evidence request repository interface.
type requestRepo interface {
	Create(ctx context.Context, req *domain.EvidenceRequest) (*domain.EvidenceRequest, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.EvidenceRequest, error)
	GetByToken(ctx context.Context, token string) (*domain.EvidenceRequest, error)
	Update(ctx context.Context, req *domain.EvidenceRequest) (*domain.EvidenceRequest, error)
	List(ctx context.Context, companyID uuid.UUID, filter domain.EvidenceFilter) ([]domain.EvidenceRequest, error)
}

// itemRepo defines the evidence item repository interface.
type itemRepo interface {
	Create(ctx context.Context, item *domain.EvidenceItem) (*domain.EvidenceItem, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]domain.EvidenceItem, error)
}

// trailRepo appends and reads the request's transition trail. The trail is
// append-only: there is no update or delete.
type trailRepo interface {
	Append(ctx context.Context, entry *domain.EvidenceTrailEntry) error
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]domain.EvidenceTrailEntry, error)
}

// findingRepo provides the finding access needed for auto-closure on accept.
type findingRepo interface {
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Finding, error)
	Update(ctx context.Context, finding *domain.Finding) (*domain.Finding, error)
}

// txManager defines the transaction manager interface needed by this service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config tunes token generation and the public portal.
type Config struct {
	// TokenBytes is how many random bytes back the public token.
	TokenBytes int
	// BcryptCost is used when hashing portal passwords.
	BcryptCost int
	// DefaultDueDays sets the due date when the caller gives none.
	DefaultDueDays int
}

// Service implements evidence request operations.
type Service struct {
	log      *slog.Logger
	cfg      Config
	requests requestRepo
	items    itemRepo
	trail    trailRepo
	findings findingRepo
	tx       txManager
}

// NewService creates a new evidence service instance.
func NewService(
	logger *slog.Logger,
	cfg Config,
	requests requestRepo,
	items itemRepo,
	trail trailRepo,
	findings findingRepo,
	tx txManager,
) *Service {
	if cfg.TokenBytes <= 0 {
		cfg.TokenBytes = 32
	}
	return &Service{
		log:      logger.With("service", "evidence"),
		cfg:      cfg,
		requests: requests,
		items:    items,
		trail:    trail,
		findings: findings,
		tx:       tx,
	}
}
