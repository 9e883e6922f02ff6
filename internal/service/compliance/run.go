package compliance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// CreateRun opens a new compliance run for one scope entity and one period.
// At most one run may exist per (template, scope entity, period); a losing
// racer receives a conflict error carrying the winner's id.
func (s *Service) CreateRun(ctx context.Context, input CreateRunInput) (*domain.ComplianceRun, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := s.templates.GetByID(ctx, id.CompanyID, input.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	exists, err := s.scopes.Exists(ctx, id.CompanyID, tmpl.ScopeType, input.ScopeEntityID)
	if err != nil {
		return nil, fmt.Errorf("resolve scope entity: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("scope entity %s: %w", input.ScopeEntityID, domain.ErrNotFound)
	}

	periodStart, periodEnd, err := resolvePeriod(tmpl.Frequency, input)
	if err != nil {
		return nil, err
	}

	run := &domain.ComplianceRun{
		ID:            uuid.New(),
		CompanyID:     id.CompanyID,
		TemplateID:    tmpl.ID,
		ScopeType:     tmpl.ScopeType,
		ScopeEntityID: input.ScopeEntityID,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		Status:        domain.RunStatusOpen,
		CreatedBy:     id.UserID,
		CreatedAt:     time.Now().UTC(),
	}

	created, err := s.runs.Create(ctx, run)
	if err != nil {
		// The unique index on (template, scope entity, period start) is the
		// arbiter under concurrency; report the winner back to the loser.
		if errors.Is(err, domain.ErrAlreadyExists) {
			if existing, lookupErr := s.runs.GetByPeriod(ctx, tmpl.ID, input.ScopeEntityID, periodStart); lookupErr == nil {
				return nil, domain.NewConflictError("compliance_run",
					"a run already exists for this period", existing.ID)
			}
			return nil, domain.NewConflictError("compliance_run",
				"a run already exists for this period", uuid.Nil)
		}
		return nil, fmt.Errorf("create run: %w", err)
	}

	s.log.InfoContext(ctx, "compliance run created",
		slog.String("run_id", created.ID.String()),
		slog.String("frequency", tmpl.Frequency.String()),
		slog.Time("period_start", created.PeriodStart))

	return created, nil
}

// GetRun returns a run with its responses.
func (s *Service) GetRun(ctx context.Context, runID uuid.UUID) (*domain.ComplianceRun, []domain.ComplianceResponse, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, nil, domain.ErrUnauthorized
	}

	run, err := s.runs.GetByID(ctx, id.CompanyID, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("get run: %w", err)
	}

	responses, err := s.responses.ListByRun(ctx, run.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list responses: %w", err)
	}

	return run, responses, nil
}

// resolvePeriod computes the run's period window from the template frequency.
func resolvePeriod(freq domain.Frequency, input CreateRunInput) (time.Time, time.Time, error) {
	switch freq {
	case domain.FrequencyDaily:
		day := time.Now().UTC()
		if input.Date != nil {
			day = input.Date.UTC()
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 0, 1), nil

	case domain.FrequencyWeekly:
		if input.PeriodStart == nil || input.PeriodEnd == nil {
			return time.Time{}, time.Time{}, domain.NewValidationError("period",
				"weekly templates require an explicit period_start and period_end")
		}
		return input.PeriodStart.UTC(), input.PeriodEnd.UTC(), nil

	default:
		return time.Time{}, time.Time{}, domain.NewValidationError("frequency", "unknown template frequency")
	}
}
