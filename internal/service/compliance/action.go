package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// UpdateAction changes an action's status, assignee, or due date.
// Closing goes through CloseAction so the closure note is always recorded.
func (s *Service) UpdateAction(ctx context.Context, input UpdateActionInput) (*domain.ComplianceAction, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.ComplianceAction
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		action, err := s.actions.GetByID(txCtx, id.CompanyID, input.ActionID)
		if err != nil {
			return fmt.Errorf("get action: %w", err)
		}

		if action.Status == domain.ActionStatusClosed {
			return domain.NewStateError("compliance_action", action.Status.String(), "update")
		}

		if input.Status != nil {
			action.Status = *input.Status
		}
		if input.AssigneeID != nil {
			action.AssigneeID = input.AssigneeID
		}
		if input.DueDate != nil {
			action.DueDate = input.DueDate
		}
		action.UpdatedAt = time.Now().UTC()

		updated, err = s.actions.Update(txCtx, action)
		if err != nil {
			return fmt.Errorf("update action: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// CloseAction closes a corrective action with a mandatory closure note and
// an optional supporting attachment reference.
func (s *Service) CloseAction(ctx context.Context, input CloseActionInput) (*domain.ComplianceAction, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.ComplianceAction
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		action, err := s.actions.GetByID(txCtx, id.CompanyID, input.ActionID)
		if err != nil {
			return fmt.Errorf("get action: %w", err)
		}

		if action.Status == domain.ActionStatusClosed {
			return domain.NewStateError("compliance_action", action.Status.String(), "close")
		}

		now := time.Now().UTC()
		action.Status = domain.ActionStatusClosed
		action.ClosureNote = &input.ClosureNote
		action.ClosureAttachmentRef = input.AttachmentRef
		action.ClosedBy = &id.UserID
		action.ClosedAt = &now
		action.UpdatedAt = now

		updated, err = s.actions.Update(txCtx, action)
		if err != nil {
			return fmt.Errorf("update action: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "action closed", slog.String("action_id", input.ActionID.String()))

	return updated, nil
}

// ListActions returns the company's corrective actions matching the filter.
func (s *Service) ListActions(ctx context.Context, filter domain.ActionFilter) ([]domain.ComplianceAction, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	actions, err := s.actions.List(ctx, id.CompanyID, filter)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}

	return actions, nil
}
