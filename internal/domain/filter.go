package domain

import (
	"time"

	"github.com/google/uuid"
)

// FindingFilter defines optional parameters for listing findings.
// nil means no filter on that dimension.
type FindingFilter struct {
	AuditID  *uuid.UUID
	Status   *FindingStatus
	Severity *FindingSeverity
	OwnerID  *uuid.UUID
	Limit    int
	Offset   int
}

// ActionFilter defines optional parameters for listing compliance actions.
type ActionFilter struct {
	RunID        *uuid.UUID
	RunIDs       []uuid.UUID
	Status       *ActionStatus
	Severity     *ActionSeverity
	AssigneeID   *uuid.UUID
	CreatedFrom  *time.Time
	CreatedUntil *time.Time
	Limit        int
	Offset       int
}

// EvidenceFilter defines optional parameters for listing evidence requests.
type EvidenceFilter struct {
	FindingID *uuid.UUID
	AuditID   *uuid.UUID
	Status    *EvidenceStatus
	Limit     int
	Offset    int
}

// RunWindow selects compliance runs for one scope entity over a time window.
type RunWindow struct {
	ScopeEntityID uuid.UUID
	PeriodStart   time.Time
	PeriodEnd     time.Time
}
