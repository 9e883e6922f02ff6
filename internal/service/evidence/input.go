package evidence

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

// CreateRequestInput holds parameters for creating an evidence request.
type CreateRequestInput struct {
	FindingID   *uuid.UUID
	AuditID     *uuid.UUID
	IndicatorID *uuid.UUID
	Title       string
	Description *string
	DueDate     *time.Time

	// PortalPassword, when set, additionally gates public submission.
	// Stored as a bcrypt hash, never plaintext.
	PortalPassword *string
}

// Validate validates the create request input.
func (i CreateRequestInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(i.Title) > 255 {
		errs = append(errs, domain.FieldError{Field: "title", Message: "must not exceed 255 characters"})
	}
	if i.IndicatorID != nil && i.AuditID == nil {
		errs = append(errs, domain.FieldError{Field: "indicator_id", Message: "requires an audit_id"})
	}
	if i.PortalPassword != nil && len(*i.PortalPassword) < 8 {
		errs = append(errs, domain.FieldError{Field: "portal_password", Message: "must be at least 8 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// itemInput is the common shape check for submitted evidence items.
type itemInput struct {
	Kind    domain.EvidenceKind
	FileRef *string
	LinkURL *string
}

func (i itemInput) validate() []domain.FieldError {
	var errs []domain.FieldError

	switch i.Kind {
	case domain.EvidenceKindFile:
		if i.FileRef == nil || strings.TrimSpace(*i.FileRef) == "" {
			errs = append(errs, domain.FieldError{Field: "file_ref", Message: "required for FILE evidence"})
		}
	case domain.EvidenceKindLink:
		if i.LinkURL == nil || strings.TrimSpace(*i.LinkURL) == "" {
			errs = append(errs, domain.FieldError{Field: "link_url", Message: "required for LINK evidence"})
		}
	default:
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be FILE or LINK"})
	}

	return errs
}

// SubmitPublicInput holds parameters for unauthenticated submission through
// the public token.
type SubmitPublicInput struct {
	Token          string
	PortalPassword *string
	Kind           domain.EvidenceKind
	FileRef        *string
	LinkURL        *string
	SubmitterName  string
	SubmitterEmail string
}

// Validate validates the public submission input.
func (i SubmitPublicInput) Validate() error {
	errs := itemInput{Kind: i.Kind, FileRef: i.FileRef, LinkURL: i.LinkURL}.validate()

	if strings.TrimSpace(i.Token) == "" {
		errs = append(errs, domain.FieldError{Field: "token", Message: "required"})
	}
	if strings.TrimSpace(i.SubmitterName) == "" {
		errs = append(errs, domain.FieldError{Field: "submitter_name", Message: "required"})
	}
	if _, err := mail.ParseAddress(i.SubmitterEmail); err != nil {
		errs = append(errs, domain.FieldError{Field: "submitter_email", Message: "must be a valid email address"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// SubmitInternalInput holds parameters for submission by an authenticated user.
type SubmitInternalInput struct {
	RequestID uuid.UUID
	Kind      domain.EvidenceKind
	FileRef   *string
	LinkURL   *string
}

// Validate validates the internal submission input.
func (i SubmitInternalInput) Validate() error {
	errs := itemInput{Kind: i.Kind, FileRef: i.FileRef, LinkURL: i.LinkURL}.validate()

	if i.RequestID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "request_id", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DecideInput holds parameters for the accept/reject decision.
type DecideInput struct {
	RequestID uuid.UUID
	Accept    bool
	Note      *string
}

// Validate validates the decide input.
func (i DecideInput) Validate() error {
	var errs []domain.FieldError

	if i.RequestID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "request_id", Message: "required"})
	}
	if !i.Accept && (i.Note == nil || strings.TrimSpace(*i.Note) == "") {
		errs = append(errs, domain.FieldError{Field: "note", Message: "a note is required when rejecting"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
