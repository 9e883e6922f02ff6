package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// UpdateFinding changes a finding's owner, due date, or moves it under review.
// Closing goes through CloseFinding so the closure note is always recorded.
func (s *Service) UpdateFinding(ctx context.Context, input UpdateFindingInput) (*domain.Finding, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Finding
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		finding, err := s.findings.GetByID(txCtx, id.CompanyID, input.FindingID)
		if err != nil {
			return fmt.Errorf("get finding: %w", err)
		}

		if finding.Status == domain.FindingStatusClosed {
			return domain.NewStateError("finding", finding.Status.String(), "update")
		}

		if input.Status != nil {
			finding.Status = *input.Status
		}
		if input.OwnerID != nil {
			finding.OwnerID = input.OwnerID
		}
		if input.DueDate != nil {
			finding.DueDate = input.DueDate
		}
		finding.UpdatedAt = time.Now().UTC()

		updated, err = s.findings.Update(txCtx, finding)
		if err != nil {
			return fmt.Errorf("update finding: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// CloseFinding closes a finding with a mandatory closure note.
// Only reviewers may close findings.
func (s *Service) CloseFinding(ctx context.Context, input CloseFindingInput) (*domain.Finding, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !id.Role.CanReview() {
		return nil, domain.ErrForbidden
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Finding
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		finding, err := s.findings.GetByID(txCtx, id.CompanyID, input.FindingID)
		if err != nil {
			return fmt.Errorf("get finding: %w", err)
		}

		if finding.Status == domain.FindingStatusClosed {
			return domain.NewStateError("finding", finding.Status.String(), "close")
		}

		now := time.Now().UTC()
		finding.Status = domain.FindingStatusClosed
		finding.ClosureNote = &input.ClosureNote
		finding.ClosedBy = &id.UserID
		finding.ClosedAt = &now
		finding.UpdatedAt = now

		updated, err = s.findings.Update(txCtx, finding)
		if err != nil {
			return fmt.Errorf("update finding: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "finding closed", slog.String("finding_id", input.FindingID.String()))

	return updated, nil
}

// ListFindings returns the company's findings matching the filter.
func (s *Service) ListFindings(ctx context.Context, filter domain.FindingFilter) ([]domain.Finding, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	findings, err := s.findings.List(ctx, id.CompanyID, filter)
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}

	return findings, nil
}
