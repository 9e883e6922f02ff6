package docreview

import (
	"strings"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

const minJustificationLen = 10

// SubmitReviewInput holds one completed checklist assessment of one
// evidence item.
type SubmitReviewInput struct {
	EvidenceItemID uuid.UUID
	TemplateID     uuid.UUID
	Responses      []domain.ReviewResponse
	Decision       domain.ReviewDecision
}

// Validate validates the submit review input.
func (i SubmitReviewInput) Validate() error {
	var errs []domain.FieldError

	if i.EvidenceItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "evidence_item_id", Message: "required"})
	}
	if i.TemplateID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "template_id", Message: "required"})
	}
	if len(i.Responses) == 0 {
		errs = append(errs, domain.FieldError{Field: "responses", Message: "at least one answer is required"})
	}
	for _, resp := range i.Responses {
		if !resp.Answer.IsValid() {
			errs = append(errs, domain.FieldError{Field: "responses", Message: "answers must be YES, NO, PARTLY, or NA"})
			break
		}
	}
	if !i.Decision.IsValid() {
		errs = append(errs, domain.FieldError{Field: "decision", Message: "must be ACCEPT or REJECT"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ConfirmSuggestionInput holds parameters for confirming a suggested finding.
// FinalType may differ from the suggested type (reviewer override).
type ConfirmSuggestionInput struct {
	SuggestionID  uuid.UUID
	FinalType     domain.SuggestionType
	Justification string
}

// Validate validates the confirm input.
func (i ConfirmSuggestionInput) Validate() error {
	var errs []domain.FieldError

	if i.SuggestionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "suggestion_id", Message: "required"})
	}
	if !i.FinalType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "final_type", Message: "must be OBSERVATION, MINOR_NC, or MAJOR_NC"})
	}
	if len(strings.TrimSpace(i.Justification)) < minJustificationLen {
		errs = append(errs, domain.FieldError{
			Field:   "justification",
			Message: "a justification of at least 10 characters is required",
		})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DismissSuggestionInput holds parameters for dismissing a suggested finding.
type DismissSuggestionInput struct {
	SuggestionID uuid.UUID
	Reason       *string
}

// Validate validates the dismiss input.
func (i DismissSuggestionInput) Validate() error {
	if i.SuggestionID == uuid.Nil {
		return domain.NewValidationError("suggestion_id", "required")
	}
	return nil
}
