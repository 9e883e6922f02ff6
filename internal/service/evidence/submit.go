package evidence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// SubmitPublic attaches evidence through the public token, with no
// authenticated caller. The token — plus the portal password when the request
// carries one — is the whole authorization. A REQUESTED or REJECTED request
// accepts the submission and enters SUBMITTED.
func (s *Service) SubmitPublic(ctx context.Context, input SubmitPublicInput) (*domain.EvidenceItem, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var item *domain.EvidenceItem
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.GetByToken(txCtx, input.Token)
		if err != nil {
			return fmt.Errorf("get request by token: %w", err)
		}

		if req.PortalPasswordHash != nil {
			if input.PortalPassword == nil {
				return fmt.Errorf("portal password required: %w", domain.ErrUnauthorized)
			}
			if err := bcrypt.CompareHashAndPassword(
				[]byte(*req.PortalPasswordHash), []byte(*input.PortalPassword)); err != nil {
				return fmt.Errorf("portal password mismatch: %w", domain.ErrUnauthorized)
			}
		}

		if !req.CanAcceptSubmission() {
			return domain.NewStateError("evidence_request", req.Status.String(), "submit")
		}

		now := time.Now().UTC()
		item = &domain.EvidenceItem{
			ID:             uuid.New(),
			RequestID:      req.ID,
			Kind:           input.Kind,
			FileRef:        input.FileRef,
			LinkURL:        input.LinkURL,
			SubmitterName:  &input.SubmitterName,
			SubmitterEmail: &input.SubmitterEmail,
			SubmittedAt:    now,
		}
		item, err = s.items.Create(txCtx, item)
		if err != nil {
			return fmt.Errorf("create item: %w", err)
		}

		from := req.Status
		req.Status = domain.EvidenceStatusSubmitted
		req.UpdatedAt = now
		if _, err := s.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		actor := fmt.Sprintf("external:%s", input.SubmitterEmail)
		return s.appendTrail(txCtx, req.ID, actor, &from, domain.EvidenceStatusSubmitted, nil, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "public evidence submitted",
		slog.String("item_id", item.ID.String()))

	return item, nil
}

// SubmitInternal attaches evidence on behalf of an authenticated user.
func (s *Service) SubmitInternal(ctx context.Context, input SubmitInternalInput) (*domain.EvidenceItem, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var item *domain.EvidenceItem
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.GetByID(txCtx, id.CompanyID, input.RequestID)
		if err != nil {
			return fmt.Errorf("get request: %w", err)
		}

		if !req.CanAcceptSubmission() {
			return domain.NewStateError("evidence_request", req.Status.String(), "submit")
		}

		now := time.Now().UTC()
		uploaderID := id.UserID
		item = &domain.EvidenceItem{
			ID:          uuid.New(),
			RequestID:   req.ID,
			Kind:        input.Kind,
			FileRef:     input.FileRef,
			LinkURL:     input.LinkURL,
			UploaderID:  &uploaderID,
			SubmittedAt: now,
		}
		item, err = s.items.Create(txCtx, item)
		if err != nil {
			return fmt.Errorf("create item: %w", err)
		}

		from := req.Status
		req.Status = domain.EvidenceStatusSubmitted
		req.UpdatedAt = now
		if _, err := s.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		return s.appendTrail(txCtx, req.ID, id.UserID.String(), &from, domain.EvidenceStatusSubmitted, nil, now)
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}
