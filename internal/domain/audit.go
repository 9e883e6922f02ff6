package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit is one formal audit run against a template of indicators.
// Created in DRAFT, driven through the lifecycle by the audit service,
// never deleted.
type Audit struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Title       string
	AuditType   AuditType
	Status      AuditStatus
	TemplateID  *uuid.UUID
	ScopeLocked bool
	ScopeItems  []AuditScopeItem
	Domains     []string

	// ExternalAuditor is required (both fields) when AuditType is EXTERNAL.
	ExternalAuditorName *string
	ExternalAuditorOrg  *string

	CloseReason *string
	ClosedBy    *uuid.UUID
	ClosedAt    *time.Time
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AuditScopeItem is one billable line item in the audit's scope.
type AuditScopeItem struct {
	ID          uuid.UUID
	AuditID     uuid.UUID
	Code        string
	Description string
}

// AuditTemplate groups indicators into a reusable audit checklist.
type AuditTemplate struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Name      string
	CreatedAt time.Time
}

// AuditTemplateIndicator is one question in an audit template.
// Immutable once referenced by a response.
type AuditTemplateIndicator struct {
	ID                  uuid.UUID
	TemplateID          uuid.UUID
	Reference           string
	Text                string
	RiskLevel           RiskLevel
	IsCriticalControl   bool
	Guidance            *string
	EvidenceRequirement *string
	SortOrder           int
}

// AuditIndicatorResponse is the rating given to one indicator in one audit.
// Unique per (audit, indicator); upserted, never hard-deleted.
type AuditIndicatorResponse struct {
	ID          uuid.UUID
	AuditID     uuid.UUID
	IndicatorID uuid.UUID
	Rating      Rating
	Comment     *string

	// ScorePoints and ScoreVersion are derived at write time so historical
	// responses stay interpretable if the scoring table changes later.
	ScorePoints  int
	ScoreVersion string

	RespondedBy uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Finding is a formally tracked non-conformance, derived from the first
// non-conformance rating for an (audit, indicator) pair. At most one per pair.
type Finding struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	AuditID     uuid.UUID
	IndicatorID uuid.UUID
	Severity    FindingSeverity
	Status      FindingStatus
	Summary     string
	OwnerID     *uuid.UUID
	DueDate     *time.Time
	ClosureNote *string
	ClosedBy    *uuid.UUID
	ClosedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOpen reports whether the finding still needs work.
func (f *Finding) IsOpen() bool {
	return f.Status != FindingStatusClosed
}

// SeverityForRating maps a non-conformance rating to a finding severity.
// Returns false for conformance ratings, which never produce findings.
func SeverityForRating(r Rating) (FindingSeverity, bool) {
	switch r {
	case RatingMinorNC:
		return FindingSeverityMinorNC, true
	case RatingMajorNC:
		return FindingSeverityMajorNC, true
	}
	return "", false
}
