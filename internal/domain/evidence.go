package domain

import (
	"time"

	"github.com/google/uuid"
)

// EvidenceRequest asks someone — possibly outside the company — for supporting
// documentation. The public token is the entire authorization model for
// external, unauthenticated submission.
type EvidenceRequest struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	FindingID   *uuid.UUID
	AuditID     *uuid.UUID
	IndicatorID *uuid.UUID
	Title       string
	Description *string
	Status      EvidenceStatus
	DueDate     *time.Time

	// PublicToken is an unguessable URL token for the external submission page.
	// PortalPasswordHash, when set, additionally gates the bulk/audit-portal
	// submission variant (bcrypt hash, never the plain password).
	PublicToken        string
	PortalPasswordHash *string

	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanAcceptSubmission reports whether a new evidence item may be attached.
// A rejected request accepts a fresh submission and re-enters SUBMITTED.
func (r *EvidenceRequest) CanAcceptSubmission() bool {
	return r.Status == EvidenceStatusRequested || r.Status == EvidenceStatusRejected
}

// EvidenceItem is one piece of submitted evidence: an uploaded file reference
// or an external link, never binary bytes.
type EvidenceItem struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	Kind      EvidenceKind
	FileRef   *string
	LinkURL   *string

	// UploaderID is set for internal submissions; SubmitterName/Email are set
	// when the item arrived anonymously through the public token.
	UploaderID     *uuid.UUID
	SubmitterName  *string
	SubmitterEmail *string

	SubmittedAt time.Time
}

// EvidenceTrailEntry is one append-only record of a request transition.
// The trail is the only mechanism proving who approved what.
type EvidenceTrailEntry struct {
	ID         uuid.UUID
	RequestID  uuid.UUID
	Actor      string
	FromStatus *EvidenceStatus
	ToStatus   EvidenceStatus
	Note       *string
	CreatedAt  time.Time
}
