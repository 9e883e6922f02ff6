package docreview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// SubmitResult is the stored review plus the suggestion it materialized,
// when one was.
type SubmitResult struct {
	Review *domain.DocumentReview

	// Suggestion is non-nil only when the assessment proposed a finding AND
	// the reviewed item's request is linked to an audit indicator. Otherwise
	// the score is recorded but nothing actionable is derived.
	Suggestion *domain.SuggestedFinding
}

// SubmitReview scores one evidence item against a document checklist and
// persists the review. A failing assessment materializes a PENDING suggested
// finding if the item's evidence request points at an audit indicator.
func (s *Service) SubmitReview(ctx context.Context, input SubmitReviewInput) (*SubmitResult, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !id.Role.CanReview() {
		return nil, fmt.Errorf("role %s cannot review documents: %w", id.Role, domain.ErrForbidden)
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := s.templates.GetByID(ctx, id.CompanyID, input.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	items, err := s.templates.ListItems(ctx, tmpl.ID)
	if err != nil {
		return nil, fmt.Errorf("list template items: %w", err)
	}

	item, err := s.evidence.GetItem(ctx, input.EvidenceItemID)
	if err != nil {
		return nil, fmt.Errorf("get evidence item: %w", err)
	}

	assessment := Assess(items, input.Responses)

	now := time.Now().UTC()
	review := &domain.DocumentReview{
		ID:               uuid.New(),
		CompanyID:        id.CompanyID,
		EvidenceItemID:   item.ID,
		TemplateID:       tmpl.ID,
		Responses:        input.Responses,
		DQSPercent:       assessment.DQSPercent,
		CriticalFailures: assessment.CriticalFailures,
		Decision:         input.Decision,
		ReviewerID:       id.UserID,
		CreatedAt:        now,
	}

	result := &SubmitResult{}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		result.Review, err = s.reviews.Create(txCtx, review)
		if err != nil {
			return fmt.Errorf("create review: %w", err)
		}

		suggestion, ok := Suggest(assessment)
		if !ok {
			return nil
		}

		req, err := s.evidence.GetRequestByItem(txCtx, item.ID)
		if err != nil {
			return fmt.Errorf("get evidence request: %w", err)
		}
		if req.AuditID == nil || req.IndicatorID == nil {
			// Computed but not actionable: there is no indicator to hang
			// a finding on.
			return nil
		}

		sf := &domain.SuggestedFinding{
			ID:            uuid.New(),
			CompanyID:     id.CompanyID,
			ReviewID:      review.ID,
			AuditID:       *req.AuditID,
			IndicatorID:   *req.IndicatorID,
			Status:        domain.SuggestionStatusPending,
			SuggestedType: suggestion.Type,
			Severity:      suggestion.Severity,
			Rationale:     suggestion.Rationale,
			CreatedAt:     now,
		}
		result.Suggestion, err = s.suggestions.Create(txCtx, sf)
		if err != nil {
			return fmt.Errorf("create suggestion: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "document review submitted",
		slog.String("review_id", result.Review.ID.String()),
		slog.Int("dqs_percent", assessment.DQSPercent),
		slog.Bool("suggestion_created", result.Suggestion != nil))

	return result, nil
}

// ListSuggestions returns an audit's suggested findings.
func (s *Service) ListSuggestions(ctx context.Context, auditID uuid.UUID) ([]domain.SuggestedFinding, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	suggestions, err := s.suggestions.ListByAudit(ctx, id.CompanyID, auditID)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}

	return suggestions, nil
}
