// Package scopeentity verifies that a run's target — a site or a participant —
// actually belongs to the tenant before anything is recorded against it.
package scopeentity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres"
	"github.com/careops/compliance-backend/internal/domain"
)

// Repo provides scope entity existence checks backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new scope entity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const siteExistsSQL = `
SELECT EXISTS (SELECT 1 FROM sites WHERE company_id = $1 AND id = $2)`

const participantExistsSQL = `
SELECT EXISTS (SELECT 1 FROM participants WHERE company_id = $1 AND id = $2)`

// Exists reports whether the scope entity of the given type exists for the
// company. An invalid scope type is a validation error, not a miss.
func (r *Repo) Exists(ctx context.Context, companyID uuid.UUID, scopeType domain.ScopeType, entityID uuid.UUID) (bool, error) {
	var query string
	switch scopeType {
	case domain.ScopeTypeSite:
		query = siteExistsSQL
	case domain.ScopeTypeParticipant:
		query = participantExistsSQL
	default:
		return false, fmt.Errorf("scope type %q: %w", scopeType, domain.ErrValidation)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := q.QueryRow(ctx, query, companyID, entityID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check scope entity: %w", err)
	}

	return exists, nil
}
