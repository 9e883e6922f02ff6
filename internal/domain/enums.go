package domain

// AuditType distinguishes internally run audits from external certification audits.
type AuditType string

const (
	AuditTypeInternal AuditType = "INTERNAL"
	AuditTypeExternal AuditType = "EXTERNAL"
)

func (t AuditType) String() string { return string(t) }

func (t AuditType) IsValid() bool {
	switch t {
	case AuditTypeInternal, AuditTypeExternal:
		return true
	}
	return false
}

// AuditStatus represents the lifecycle state of an audit.
type AuditStatus string

const (
	AuditStatusDraft      AuditStatus = "DRAFT"
	AuditStatusInProgress AuditStatus = "IN_PROGRESS"
	AuditStatusInReview   AuditStatus = "IN_REVIEW"
	AuditStatusClosed     AuditStatus = "CLOSED"
)

func (s AuditStatus) String() string { return string(s) }

func (s AuditStatus) IsValid() bool {
	switch s {
	case AuditStatusDraft, AuditStatusInProgress, AuditStatusInReview, AuditStatusClosed:
		return true
	}
	return false
}

// Rating is the 4-point conformance scale for one audit indicator.
type Rating string

const (
	RatingConformityBestPractice Rating = "CONFORMITY_BEST_PRACTICE"
	RatingConformity             Rating = "CONFORMITY"
	RatingMinorNC                Rating = "MINOR_NC"
	RatingMajorNC                Rating = "MAJOR_NC"
)

func (r Rating) String() string { return string(r) }

func (r Rating) IsValid() bool {
	switch r {
	case RatingConformityBestPractice, RatingConformity, RatingMinorNC, RatingMajorNC:
		return true
	}
	return false
}

// IsNonConformance reports whether the rating represents a non-conformance.
func (r Rating) IsNonConformance() bool {
	return r == RatingMinorNC || r == RatingMajorNC
}

// RiskLevel classifies an indicator's inherent risk.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

func (l RiskLevel) String() string { return string(l) }

func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	}
	return false
}

// FindingSeverity is the severity of a tracked non-conformance.
type FindingSeverity string

const (
	FindingSeverityMinorNC FindingSeverity = "MINOR_NC"
	FindingSeverityMajorNC FindingSeverity = "MAJOR_NC"
)

func (s FindingSeverity) String() string { return string(s) }

func (s FindingSeverity) IsValid() bool {
	switch s {
	case FindingSeverityMinorNC, FindingSeverityMajorNC:
		return true
	}
	return false
}

// FindingStatus represents the lifecycle state of a finding.
type FindingStatus string

const (
	FindingStatusOpen        FindingStatus = "OPEN"
	FindingStatusUnderReview FindingStatus = "UNDER_REVIEW"
	FindingStatusClosed      FindingStatus = "CLOSED"
)

func (s FindingStatus) String() string { return string(s) }

func (s FindingStatus) IsValid() bool {
	switch s {
	case FindingStatusOpen, FindingStatusUnderReview, FindingStatusClosed:
		return true
	}
	return false
}

// EvidenceStatus represents the lifecycle state of an evidence request.
type EvidenceStatus string

const (
	EvidenceStatusRequested   EvidenceStatus = "REQUESTED"
	EvidenceStatusSubmitted   EvidenceStatus = "SUBMITTED"
	EvidenceStatusUnderReview EvidenceStatus = "UNDER_REVIEW"
	EvidenceStatusAccepted    EvidenceStatus = "ACCEPTED"
	EvidenceStatusRejected    EvidenceStatus = "REJECTED"
)

func (s EvidenceStatus) String() string { return string(s) }

func (s EvidenceStatus) IsValid() bool {
	switch s {
	case EvidenceStatusRequested, EvidenceStatusSubmitted, EvidenceStatusUnderReview,
		EvidenceStatusAccepted, EvidenceStatusRejected:
		return true
	}
	return false
}

// EvidenceKind distinguishes uploaded files from external links.
type EvidenceKind string

const (
	EvidenceKindFile EvidenceKind = "FILE"
	EvidenceKindLink EvidenceKind = "LINK"
)

func (k EvidenceKind) String() string { return string(k) }

func (k EvidenceKind) IsValid() bool {
	switch k {
	case EvidenceKindFile, EvidenceKindLink:
		return true
	}
	return false
}

// ScopeType identifies what a compliance template applies to.
type ScopeType string

const (
	ScopeTypeSite        ScopeType = "SITE"
	ScopeTypeParticipant ScopeType = "PARTICIPANT"
)

func (t ScopeType) String() string { return string(t) }

func (t ScopeType) IsValid() bool {
	switch t {
	case ScopeTypeSite, ScopeTypeParticipant:
		return true
	}
	return false
}

// Frequency is how often a compliance template is scheduled.
type Frequency string

const (
	FrequencyDaily  Frequency = "DAILY"
	FrequencyWeekly Frequency = "WEEKLY"
)

func (f Frequency) String() string { return string(f) }

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly:
		return true
	}
	return false
}

// ItemResponseType constrains what values a checklist item accepts.
type ItemResponseType string

const (
	ItemResponseTypeYesNoNA       ItemResponseType = "YES_NO_NA"
	ItemResponseTypeNumber        ItemResponseType = "NUMBER"
	ItemResponseTypeText          ItemResponseType = "TEXT"
	ItemResponseTypePhotoRequired ItemResponseType = "PHOTO_REQUIRED"
)

func (t ItemResponseType) String() string { return string(t) }

func (t ItemResponseType) IsValid() bool {
	switch t {
	case ItemResponseTypeYesNoNA, ItemResponseTypeNumber, ItemResponseTypeText, ItemResponseTypePhotoRequired:
		return true
	}
	return false
}

// RunStatus represents the lifecycle state of a compliance run.
type RunStatus string

const (
	RunStatusOpen      RunStatus = "OPEN"
	RunStatusSubmitted RunStatus = "SUBMITTED"
)

func (s RunStatus) String() string { return string(s) }

func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusOpen, RunStatusSubmitted:
		return true
	}
	return false
}

// ActionSeverity is the severity of a derived corrective action.
type ActionSeverity string

const (
	ActionSeverityHigh   ActionSeverity = "HIGH"
	ActionSeverityMedium ActionSeverity = "MEDIUM"
)

func (s ActionSeverity) String() string { return string(s) }

func (s ActionSeverity) IsValid() bool {
	switch s {
	case ActionSeverityHigh, ActionSeverityMedium:
		return true
	}
	return false
}

// ActionStatus represents the lifecycle state of a corrective action.
type ActionStatus string

const (
	ActionStatusOpen       ActionStatus = "OPEN"
	ActionStatusInProgress ActionStatus = "IN_PROGRESS"
	ActionStatusClosed     ActionStatus = "CLOSED"
)

func (s ActionStatus) String() string { return string(s) }

func (s ActionStatus) IsValid() bool {
	switch s {
	case ActionStatusOpen, ActionStatusInProgress, ActionStatusClosed:
		return true
	}
	return false
}

// SuggestionStatus represents the lifecycle state of a suggested finding.
type SuggestionStatus string

const (
	SuggestionStatusPending   SuggestionStatus = "PENDING"
	SuggestionStatusConfirmed SuggestionStatus = "CONFIRMED"
	SuggestionStatusDismissed SuggestionStatus = "DISMISSED"
)

func (s SuggestionStatus) String() string { return string(s) }

func (s SuggestionStatus) IsValid() bool {
	switch s {
	case SuggestionStatusPending, SuggestionStatusConfirmed, SuggestionStatusDismissed:
		return true
	}
	return false
}

// SuggestionType is the proposed (or confirmed) classification of a suggested finding.
type SuggestionType string

const (
	SuggestionTypeObservation SuggestionType = "OBSERVATION"
	SuggestionTypeMinorNC     SuggestionType = "MINOR_NC"
	SuggestionTypeMajorNC     SuggestionType = "MAJOR_NC"
)

func (t SuggestionType) String() string { return string(t) }

func (t SuggestionType) IsValid() bool {
	switch t {
	case SuggestionTypeObservation, SuggestionTypeMinorNC, SuggestionTypeMajorNC:
		return true
	}
	return false
}

// ReviewAnswer is one answer in a document quality review checklist.
type ReviewAnswer string

const (
	ReviewAnswerYes    ReviewAnswer = "YES"
	ReviewAnswerNo     ReviewAnswer = "NO"
	ReviewAnswerPartly ReviewAnswer = "PARTLY"
	ReviewAnswerNA     ReviewAnswer = "NA"
)

func (a ReviewAnswer) String() string { return string(a) }

func (a ReviewAnswer) IsValid() bool {
	switch a {
	case ReviewAnswerYes, ReviewAnswerNo, ReviewAnswerPartly, ReviewAnswerNA:
		return true
	}
	return false
}

// ReviewDecision is the binary outcome of a document review.
type ReviewDecision string

const (
	ReviewDecisionAccept ReviewDecision = "ACCEPT"
	ReviewDecisionReject ReviewDecision = "REJECT"
)

func (d ReviewDecision) String() string { return string(d) }

func (d ReviewDecision) IsValid() bool {
	switch d {
	case ReviewDecisionAccept, ReviewDecisionReject:
		return true
	}
	return false
}

// RAGStatus is the red/amber/green traffic-light outcome used by runs and rollups.
type RAGStatus string

const (
	RAGStatusGreen RAGStatus = "GREEN"
	RAGStatusAmber RAGStatus = "AMBER"
	RAGStatusRed   RAGStatus = "RED"
)

func (s RAGStatus) String() string { return string(s) }

func (s RAGStatus) IsValid() bool {
	switch s {
	case RAGStatusGreen, RAGStatusAmber, RAGStatusRed:
		return true
	}
	return false
}

// ReportStatus represents the generation state of a weekly report.
type ReportStatus string

const (
	ReportStatusGenerated ReportStatus = "GENERATED"
	ReportStatusFailed    ReportStatus = "FAILED"
)

func (s ReportStatus) String() string { return string(s) }

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusGenerated, ReportStatusFailed:
		return true
	}
	return false
}

// Role represents the authorization level of a caller.
type Role string

const (
	RoleCompanyAdmin Role = "company_admin"
	RoleReviewer     Role = "reviewer"
	RoleStaff        Role = "staff"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleCompanyAdmin, RoleReviewer, RoleStaff:
		return true
	}
	return false
}

// CanReview reports whether the role may close findings and audits
// and decide on submitted evidence.
func (r Role) CanReview() bool {
	return r == RoleCompanyAdmin || r == RoleReviewer
}
