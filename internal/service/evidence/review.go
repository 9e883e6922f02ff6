package evidence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// StartReview moves a SUBMITTED request to UNDER_REVIEW.
func (s *Service) StartReview(ctx context.Context, requestID uuid.UUID) (*domain.EvidenceRequest, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !id.Role.CanReview() {
		return nil, fmt.Errorf("role %s cannot review evidence: %w", id.Role, domain.ErrForbidden)
	}

	var updated *domain.EvidenceRequest
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.GetByID(txCtx, id.CompanyID, requestID)
		if err != nil {
			return fmt.Errorf("get request: %w", err)
		}

		if req.Status != domain.EvidenceStatusSubmitted {
			return domain.NewStateError("evidence_request", req.Status.String(), "start review")
		}

		now := time.Now().UTC()
		from := req.Status
		req.Status = domain.EvidenceStatusUnderReview
		req.UpdatedAt = now

		updated, err = s.requests.Update(txCtx, req)
		if err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		return s.appendTrail(txCtx, req.ID, id.UserID.String(), &from, domain.EvidenceStatusUnderReview, nil, now)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Decide accepts or rejects a request under review. Accepting a request that
// is linked to a finding closes that finding in the same transaction, with
// the decision note as the closure note. A rejected request can receive a
// fresh submission and re-enter SUBMITTED.
func (s *Service) Decide(ctx context.Context, input DecideInput) (*domain.EvidenceRequest, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !id.Role.CanReview() {
		return nil, fmt.Errorf("role %s cannot review evidence: %w", id.Role, domain.ErrForbidden)
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.EvidenceRequest
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.GetByID(txCtx, id.CompanyID, input.RequestID)
		if err != nil {
			return fmt.Errorf("get request: %w", err)
		}

		if req.Status != domain.EvidenceStatusUnderReview {
			return domain.NewStateError("evidence_request", req.Status.String(), "decide")
		}

		now := time.Now().UTC()
		from := req.Status
		to := domain.EvidenceStatusRejected
		if input.Accept {
			to = domain.EvidenceStatusAccepted
		}
		req.Status = to
		req.UpdatedAt = now

		updated, err = s.requests.Update(txCtx, req)
		if err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		if input.Accept && req.FindingID != nil {
			if err := s.closeLinkedFinding(txCtx, id, req, input.Note, now); err != nil {
				return err
			}
		}

		return s.appendTrail(txCtx, req.ID, id.UserID.String(), &from, to, input.Note, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "evidence decision recorded",
		slog.String("request_id", input.RequestID.String()),
		slog.String("status", updated.Status.String()))

	return updated, nil
}

// closeLinkedFinding closes the finding the accepted request proves out.
// An already-closed finding is left alone.
func (s *Service) closeLinkedFinding(
	ctx context.Context,
	id ctxutil.Identity,
	req *domain.EvidenceRequest,
	note *string,
	now time.Time,
) error {
	finding, err := s.findings.GetByID(ctx, id.CompanyID, *req.FindingID)
	if err != nil {
		return fmt.Errorf("get linked finding: %w", err)
	}

	if !finding.IsOpen() {
		return nil
	}

	closureNote := fmt.Sprintf("Evidence accepted: %s", req.Title)
	if note != nil {
		closureNote = *note
	}

	finding.Status = domain.FindingStatusClosed
	finding.ClosureNote = &closureNote
	finding.ClosedBy = &id.UserID
	finding.ClosedAt = &now
	finding.UpdatedAt = now

	if _, err := s.findings.Update(ctx, finding); err != nil {
		return fmt.Errorf("close linked finding: %w", err)
	}
	return nil
}
