package compliance

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

// CreateRunInput holds parameters for creating a compliance run.
// For DAILY templates the period is the midnight-to-midnight window of Date
// (today when nil). For WEEKLY templates PeriodStart and PeriodEnd are
// required and Date is ignored.
type CreateRunInput struct {
	TemplateID    uuid.UUID
	ScopeEntityID uuid.UUID
	Date          *time.Time
	PeriodStart   *time.Time
	PeriodEnd     *time.Time
}

// Validate validates the create run input.
func (i CreateRunInput) Validate() error {
	var errs []domain.FieldError

	if i.TemplateID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "template_id", Message: "required"})
	}
	if i.ScopeEntityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "scope_entity_id", Message: "required"})
	}
	if i.PeriodStart != nil && i.PeriodEnd != nil && !i.PeriodStart.Before(*i.PeriodEnd) {
		errs = append(errs, domain.FieldError{Field: "period", Message: "period_start must be before period_end"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpsertResponseInput holds parameters for answering one checklist item.
type UpsertResponseInput struct {
	RunID         uuid.UUID
	ItemID        uuid.UUID
	Value         string
	Notes         *string
	AttachmentRef *string
}

// Validate performs the shape checks that don't need the item definition.
// Type-specific validation happens in the service against the item.
func (i UpsertResponseInput) Validate() error {
	var errs []domain.FieldError

	if i.RunID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "run_id", Message: "required"})
	}
	if i.ItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}
	if strings.TrimSpace(i.Value) == "" {
		errs = append(errs, domain.FieldError{Field: "value", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateActionInput holds parameters for updating a corrective action.
// nil fields are left unchanged.
type UpdateActionInput struct {
	ActionID   uuid.UUID
	Status     *domain.ActionStatus
	AssigneeID *uuid.UUID
	DueDate    *time.Time
}

// Validate validates the update action input.
func (i UpdateActionInput) Validate() error {
	var errs []domain.FieldError

	if i.ActionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "action_id", Message: "required"})
	}
	if i.Status != nil {
		if !i.Status.IsValid() {
			errs = append(errs, domain.FieldError{Field: "status", Message: "invalid status"})
		} else if *i.Status == domain.ActionStatusClosed {
			errs = append(errs, domain.FieldError{Field: "status", Message: "use the close operation to close an action"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CloseActionInput holds parameters for closing a corrective action.
type CloseActionInput struct {
	ActionID      uuid.UUID
	ClosureNote   string
	AttachmentRef *string
}

// Validate validates the close action input.
func (i CloseActionInput) Validate() error {
	var errs []domain.FieldError

	if i.ActionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "action_id", Message: "required"})
	}
	if strings.TrimSpace(i.ClosureNote) == "" {
		errs = append(errs, domain.FieldError{Field: "closure_note", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
