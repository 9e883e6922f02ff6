package docreview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/internal/service/audit"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// ConfirmSuggestion turns a PENDING suggestion into an indicator response —
// written through the audit path so scoring and finding idempotency apply —
// and, for non-conformance types only, a finding. The confirmed type may
// override the suggested one.
func (s *Service) ConfirmSuggestion(ctx context.Context, input ConfirmSuggestionInput) (*domain.SuggestedFinding, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !id.Role.CanReview() {
		return nil, fmt.Errorf("role %s cannot process suggestions: %w", id.Role, domain.ErrForbidden)
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var confirmed *domain.SuggestedFinding
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		sf, err := s.suggestions.GetByID(txCtx, id.CompanyID, input.SuggestionID)
		if err != nil {
			return fmt.Errorf("get suggestion: %w", err)
		}

		if !sf.IsPending() {
			return domain.NewConflictError("suggested_finding",
				fmt.Sprintf("suggestion is already %s", sf.Status), sf.ID)
		}

		result, err := s.writeResponse(txCtx, sf, input)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		finalType := input.FinalType
		sf.Status = domain.SuggestionStatusConfirmed
		sf.ConfirmedType = &finalType
		sf.Justification = &input.Justification
		sf.ResponseID = &result.Response.ID
		if result.Finding != nil {
			sf.FindingID = &result.Finding.ID
		}
		sf.ProcessedBy = &id.UserID
		sf.ProcessedAt = &now

		confirmed, err = s.suggestions.Update(txCtx, sf)
		if err != nil {
			return fmt.Errorf("update suggestion: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "suggestion confirmed",
		slog.String("suggestion_id", input.SuggestionID.String()),
		slog.String("final_type", input.FinalType.String()),
		slog.Bool("finding_created", confirmed.FindingID != nil))

	return confirmed, nil
}

// writeResponse routes the confirmation to the right audit path for the
// audit's current state: the normal upsert while IN_PROGRESS, the
// unanswered-only late path while IN_REVIEW.
func (s *Service) writeResponse(
	ctx context.Context,
	sf *domain.SuggestedFinding,
	input ConfirmSuggestionInput,
) (*audit.UpsertResult, error) {
	detail, err := s.audits.GetAudit(ctx, sf.AuditID)
	if err != nil {
		return nil, fmt.Errorf("get audit: %w", err)
	}

	respInput := audit.UpsertResponseInput{
		AuditID:     sf.AuditID,
		IndicatorID: sf.IndicatorID,
		Rating:      domain.RatingForSuggestionType(input.FinalType),
		Comment:     &input.Justification,
	}

	switch detail.Audit.Status {
	case domain.AuditStatusInProgress:
		return s.audits.UpsertResponse(ctx, respInput)
	case domain.AuditStatusInReview:
		return s.audits.AddLateResponse(ctx, respInput)
	default:
		return nil, domain.NewStateError("audit", detail.Audit.Status.String(), "confirm suggestion")
	}
}

// DismissSuggestion discards a PENDING suggestion with an optional reason.
func (s *Service) DismissSuggestion(ctx context.Context, input DismissSuggestionInput) (*domain.SuggestedFinding, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !id.Role.CanReview() {
		return nil, fmt.Errorf("role %s cannot process suggestions: %w", id.Role, domain.ErrForbidden)
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var dismissed *domain.SuggestedFinding
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		sf, err := s.suggestions.GetByID(txCtx, id.CompanyID, input.SuggestionID)
		if err != nil {
			return fmt.Errorf("get suggestion: %w", err)
		}

		if !sf.IsPending() {
			return domain.NewConflictError("suggested_finding",
				fmt.Sprintf("suggestion is already %s", sf.Status), sf.ID)
		}

		now := time.Now().UTC()
		sf.Status = domain.SuggestionStatusDismissed
		sf.DismissReason = input.Reason
		sf.ProcessedBy = &id.UserID
		sf.ProcessedAt = &now

		dismissed, err = s.suggestions.Update(txCtx, sf)
		if err != nil {
			return fmt.Errorf("update suggestion: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dismissed, nil
}
