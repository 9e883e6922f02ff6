package domain

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceTemplate is a scheduled daily/weekly checklist definition,
// scoped to either sites or participants.
type ComplianceTemplate struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Name      string
	ScopeType ScopeType
	Frequency Frequency
	CreatedAt time.Time
}

// ComplianceTemplateItem is one checklist question within a template.
type ComplianceTemplateItem struct {
	ID                  uuid.UUID
	TemplateID          uuid.UUID
	Title               string
	ResponseType        ItemResponseType
	IsCritical          bool
	NotesRequiredOnFail bool
	SortOrder           int
}

// ComplianceRun is one instance of a template applied to one scope entity
// (a site or a participant) for one period. Unique per
// (template, scope entity, period start).
type ComplianceRun struct {
	ID            uuid.UUID
	CompanyID     uuid.UUID
	TemplateID    uuid.UUID
	ScopeType     ScopeType
	ScopeEntityID uuid.UUID
	PeriodStart   time.Time
	PeriodEnd     time.Time
	Status        RunStatus
	Outcome       *RAGStatus
	SubmittedBy   *uuid.UUID
	SubmittedAt   *time.Time
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
}

// IsOpen reports whether item responses may still be edited.
func (r *ComplianceRun) IsOpen() bool {
	return r.Status == RunStatusOpen
}

// ComplianceResponse is the answer to one item in one run. Upserted while the
// run is OPEN, immutable once the run is SUBMITTED.
type ComplianceResponse struct {
	ID            uuid.UUID
	RunID         uuid.UUID
	ItemID        uuid.UUID
	Value         string
	Notes         *string
	AttachmentRef *string
	UpdatedBy     uuid.UUID
	UpdatedAt     time.Time
}

// ComplianceAction is a corrective-action record derived from a failing item
// during run submission.
type ComplianceAction struct {
	ID                   uuid.UUID
	CompanyID            uuid.UUID
	RunID                uuid.UUID
	ItemID               *uuid.UUID
	Title                string
	Severity             ActionSeverity
	Status               ActionStatus
	AssigneeID           *uuid.UUID
	DueDate              *time.Time
	ClosureNote          *string
	ClosureAttachmentRef *string
	ClosedBy             *uuid.UUID
	ClosedAt             *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsOpen reports whether the action still needs work.
func (a *ComplianceAction) IsOpen() bool {
	return a.Status != ActionStatusClosed
}

// Yes/no answer values accepted by YES_NO_NA items.
const (
	AnswerYes = "YES"
	AnswerNo  = "NO"
	AnswerNA  = "NA"
)
