package audit

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

// minCommentLen is the minimum comment length required when rating an
// indicator as a non-conformance, and for confirmation justifications.
const minCommentLen = 10

// CreateAuditInput holds parameters for creating an audit in DRAFT.
type CreateAuditInput struct {
	Title               string
	AuditType           domain.AuditType
	TemplateID          *uuid.UUID
	Domains             []string
	ScopeItems          []ScopeItemInput
	ExternalAuditorName *string
	ExternalAuditorOrg  *string
}

// ScopeItemInput is one billable line item to place in scope.
type ScopeItemInput struct {
	Code        string
	Description string
}

// Validate validates the create audit input.
func (i CreateAuditInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > 255 {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
	}

	if !i.AuditType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "audit_type", Message: "must be INTERNAL or EXTERNAL"})
	}

	// External auditor metadata is required together for external audits.
	if i.AuditType == domain.AuditTypeExternal {
		if i.ExternalAuditorName == nil || strings.TrimSpace(*i.ExternalAuditorName) == "" {
			errs = append(errs, domain.FieldError{Field: "external_auditor_name", Message: "required for external audits"})
		}
		if i.ExternalAuditorOrg == nil || strings.TrimSpace(*i.ExternalAuditorOrg) == "" {
			errs = append(errs, domain.FieldError{Field: "external_auditor_org", Message: "required for external audits"})
		}
	}

	for _, item := range i.ScopeItems {
		if strings.TrimSpace(item.Code) == "" {
			errs = append(errs, domain.FieldError{Field: "scope_items", Message: "item code required"})
			break
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// SetScopeInput holds parameters for updating an unlocked audit's scope.
// nil fields are left unchanged.
type SetScopeInput struct {
	AuditID    uuid.UUID
	TemplateID *uuid.UUID
	Domains    []string
	ScopeItems []ScopeItemInput
}

// UpsertResponseInput holds parameters for rating one indicator.
type UpsertResponseInput struct {
	AuditID     uuid.UUID
	IndicatorID uuid.UUID
	Rating      domain.Rating
	Comment     *string
}

// Validate validates the upsert response input. Non-conformance ratings
// require a comment of at least minCommentLen characters.
func (i UpsertResponseInput) Validate() error {
	var errs []domain.FieldError

	if i.AuditID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "audit_id", Message: "required"})
	}
	if i.IndicatorID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "indicator_id", Message: "required"})
	}

	if !i.Rating.IsValid() {
		errs = append(errs, domain.FieldError{Field: "rating", Message: "invalid rating"})
	} else if i.Rating.IsNonConformance() {
		if i.Comment == nil || len(strings.TrimSpace(*i.Comment)) < minCommentLen {
			errs = append(errs, domain.FieldError{
				Field:   "comment",
				Message: "non-conformance ratings require a comment of at least 10 characters",
			})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CloseAuditInput holds parameters for closing an audit.
type CloseAuditInput struct {
	AuditID uuid.UUID
	Reason  *string
}

// UpdateFindingInput holds parameters for updating a finding's owner,
// due date, or moving it under review.
type UpdateFindingInput struct {
	FindingID uuid.UUID
	Status    *domain.FindingStatus
	OwnerID   *uuid.UUID
	DueDate   *time.Time
}

// Validate validates the update finding input.
func (i UpdateFindingInput) Validate() error {
	var errs []domain.FieldError

	if i.FindingID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "finding_id", Message: "required"})
	}
	if i.Status != nil {
		if !i.Status.IsValid() {
			errs = append(errs, domain.FieldError{Field: "status", Message: "invalid status"})
		} else if *i.Status == domain.FindingStatusClosed {
			errs = append(errs, domain.FieldError{Field: "status", Message: "use the close operation to close a finding"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CloseFindingInput holds parameters for closing a finding.
type CloseFindingInput struct {
	FindingID   uuid.UUID
	ClosureNote string
}

// Validate validates the close finding input.
func (i CloseFindingInput) Validate() error {
	var errs []domain.FieldError

	if i.FindingID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "finding_id", Message: "required"})
	}
	if strings.TrimSpace(i.ClosureNote) == "" {
		errs = append(errs, domain.FieldError{Field: "closure_note", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
