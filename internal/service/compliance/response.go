package compliance

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// UpsertResponse records an answer to one checklist item while the run is
// OPEN. Last writer wins per (run, item). Responses are immutable once the
// run is SUBMITTED.
func (s *Service) UpsertResponse(ctx context.Context, input UpsertResponseInput) (*domain.ComplianceResponse, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var upserted *domain.ComplianceResponse
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		run, err := s.runs.GetByID(txCtx, id.CompanyID, input.RunID)
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}

		if !run.IsOpen() {
			return domain.NewStateError("compliance_run", run.Status.String(), "upsert response")
		}

		item, err := s.templates.GetItem(txCtx, run.TemplateID, input.ItemID)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}

		if err := validateResponseValue(item, input); err != nil {
			return err
		}

		now := time.Now().UTC()
		resp := &domain.ComplianceResponse{
			ID:            uuid.New(),
			RunID:         run.ID,
			ItemID:        item.ID,
			Value:         strings.TrimSpace(input.Value),
			Notes:         input.Notes,
			AttachmentRef: input.AttachmentRef,
			UpdatedBy:     id.UserID,
			UpdatedAt:     now,
		}

		upserted, err = s.responses.Upsert(txCtx, resp)
		if err != nil {
			return fmt.Errorf("upsert response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return upserted, nil
}

// validateResponseValue enforces the item's response type:
// YES_NO_NA accepts only YES/NO/NA, NUMBER must parse as numeric, and
// PHOTO_REQUIRED needs a non-empty attachment reference regardless of the
// textual answer.
func validateResponseValue(item *domain.ComplianceTemplateItem, input UpsertResponseInput) error {
	value := strings.TrimSpace(input.Value)

	switch item.ResponseType {
	case domain.ItemResponseTypeYesNoNA:
		switch value {
		case domain.AnswerYes, domain.AnswerNo, domain.AnswerNA:
		default:
			return domain.NewValidationError("value", "must be YES, NO, or NA")
		}

	case domain.ItemResponseTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return domain.NewValidationError("value", "must be numeric")
		}

	case domain.ItemResponseTypePhotoRequired:
		if input.AttachmentRef == nil || strings.TrimSpace(*input.AttachmentRef) == "" {
			return domain.NewValidationError("attachment_ref", "a photo attachment is required for this item")
		}

	case domain.ItemResponseTypeText:
		// Free text, already checked non-empty.
	}

	return nil
}
