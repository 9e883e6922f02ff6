package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocReviewTemplate is the checklist used to assess documents of one type.
type DocReviewTemplate struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	DocumentType string
	CreatedAt    time.Time
}

// DocReviewTemplateItem is one quality question in a document checklist.
type DocReviewTemplateItem struct {
	ID         uuid.UUID
	TemplateID uuid.UUID
	Title      string
	IsCritical bool
	SortOrder  int
}

// ReviewResponse is one checklist answer given during a document review.
type ReviewResponse struct {
	ItemID uuid.UUID    `json:"item_id"`
	Answer ReviewAnswer `json:"answer"`
}

// DocumentReview records one quality assessment of one evidence item:
// the answers given, the computed document quality score, and the binary
// accept/reject decision.
type DocumentReview struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	EvidenceItemID uuid.UUID
	TemplateID     uuid.UUID
	Responses      []ReviewResponse

	DQSPercent       int
	CriticalFailures int
	Decision         ReviewDecision

	ReviewerID uuid.UUID
	CreatedAt  time.Time
}

// SuggestedFinding is a non-binding, system-proposed finding derived from a
// document review, awaiting human confirmation or dismissal.
type SuggestedFinding struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	ReviewID    uuid.UUID
	AuditID     uuid.UUID
	IndicatorID uuid.UUID

	Status        SuggestionStatus
	SuggestedType SuggestionType
	Severity      ActionSeverity
	Rationale     string

	// Set on confirmation. ConfirmedType may differ from SuggestedType
	// (reviewer override). ResponseID and FindingID link to the records the
	// confirmation produced.
	ConfirmedType *SuggestionType
	Justification *string
	DismissReason *string
	ResponseID    *uuid.UUID
	FindingID     *uuid.UUID
	ProcessedBy   *uuid.UUID
	ProcessedAt   *time.Time

	CreatedAt time.Time
}

// IsPending reports whether the suggestion can still be confirmed or dismissed.
func (s *SuggestedFinding) IsPending() bool {
	return s.Status == SuggestionStatusPending
}

// RatingForSuggestionType maps a confirmed suggestion type to the indicator
// rating it writes. OBSERVATION maps to CONFORMITY: it updates the response
// but is barred from creating a finding and does not drag the score down.
func RatingForSuggestionType(t SuggestionType) Rating {
	switch t {
	case SuggestionTypeMinorNC:
		return RatingMinorNC
	case SuggestionTypeMajorNC:
		return RatingMajorNC
	default:
		return RatingConformity
	}
}
