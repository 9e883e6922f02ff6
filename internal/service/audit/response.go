package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/internal/service/audit/scoring"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// UpsertResult is an upserted response plus the finding it derived, if any.
type UpsertResult struct {
	Response *domain.AuditIndicatorResponse

	// Finding is non-nil only when this upsert created a new finding.
	// Re-saving a non-conformance for a pair that already has one is a no-op.
	Finding *domain.Finding
}

// UpsertResponse records a rating for one indicator of an IN_PROGRESS audit.
// Last writer wins per (audit, indicator). The first non-conformance rating
// for a pair creates exactly one finding, inside the same transaction as the
// response write.
func (s *Service) UpsertResponse(ctx context.Context, input UpsertResponseInput) (*UpsertResult, error) {
	return s.upsertResponse(ctx, input, false)
}

// AddLateResponse records a rating while the audit is IN_REVIEW. Allowed only
// for indicators that have no existing response; already-answered indicators
// are immutable after submission.
func (s *Service) AddLateResponse(ctx context.Context, input UpsertResponseInput) (*UpsertResult, error) {
	return s.upsertResponse(ctx, input, true)
}

func (s *Service) upsertResponse(ctx context.Context, input UpsertResponseInput, late bool) (*UpsertResult, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	result := &UpsertResult{}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		audit, err := s.audits.GetByID(txCtx, id.CompanyID, input.AuditID)
		if err != nil {
			return fmt.Errorf("get audit: %w", err)
		}

		switch {
		case late && audit.Status != domain.AuditStatusInReview:
			return domain.NewStateError("audit", audit.Status.String(), "add late response")
		case !late && audit.Status != domain.AuditStatusInProgress:
			return domain.NewStateError("audit", audit.Status.String(), "upsert response")
		}

		if audit.TemplateID == nil {
			return domain.NewValidationError("template_id", "audit has no template")
		}
		indicator, err := s.templates.GetIndicator(txCtx, *audit.TemplateID, input.IndicatorID)
		if err != nil {
			return fmt.Errorf("get indicator: %w", err)
		}

		existing, err := s.responses.GetByIndicator(txCtx, audit.ID, indicator.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get existing response: %w", err)
		}
		if late && existing != nil {
			return domain.NewConflictError("response",
				"indicator already answered; reviewed answers are immutable", existing.ID)
		}

		now := time.Now().UTC()
		resp := &domain.AuditIndicatorResponse{
			ID:           uuid.New(),
			AuditID:      audit.ID,
			IndicatorID:  indicator.ID,
			Rating:       input.Rating,
			Comment:      input.Comment,
			ScorePoints:  scoring.PointsForRating(input.Rating.String()),
			ScoreVersion: scoring.Version,
			RespondedBy:  id.UserID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if existing != nil {
			resp.ID = existing.ID
			resp.CreatedAt = existing.CreatedAt
		}

		result.Response, err = s.responses.Upsert(txCtx, resp)
		if err != nil {
			return fmt.Errorf("upsert response: %w", err)
		}

		prior, err := s.findings.GetByIndicator(txCtx, audit.ID, indicator.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get existing finding: %w", err)
		}

		derived := deriveFinding(audit, indicator, input.Rating, prior, now)
		if derived != nil {
			result.Finding, err = s.findings.Create(txCtx, derived)
			if err != nil {
				return fmt.Errorf("create finding: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Finding != nil {
		s.log.InfoContext(ctx, "finding derived from response",
			slog.String("audit_id", input.AuditID.String()),
			slog.String("finding_id", result.Finding.ID.String()),
			slog.String("severity", result.Finding.Severity.String()))
	}

	return result, nil
}

// deriveFinding decides whether a rating produces a new finding for the
// (audit, indicator) pair. Returns nil for conformance ratings and for pairs
// that already carry a finding, making the derivation idempotent.
func deriveFinding(
	audit *domain.Audit,
	indicator *domain.AuditTemplateIndicator,
	rating domain.Rating,
	existing *domain.Finding,
	now time.Time,
) *domain.Finding {
	severity, ok := domain.SeverityForRating(rating)
	if !ok || existing != nil {
		return nil
	}

	return &domain.Finding{
		ID:          uuid.New(),
		CompanyID:   audit.CompanyID,
		AuditID:     audit.ID,
		IndicatorID: indicator.ID,
		Severity:    severity,
		Status:      domain.FindingStatusOpen,
		Summary:     fmt.Sprintf("Non-conformance against %s: %s", indicator.Reference, indicator.Text),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
