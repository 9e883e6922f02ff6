package domain

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyMetrics is the fixed metrics object reduced from one participant's
// compliance runs and actions over a reporting window. It is the sole
// structured payload handed to the report-writing collaborator; the engine
// never fabricates narrative text itself.
type WeeklyMetrics struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`

	DailyRunsCompleted  int `json:"daily_runs_completed"`
	WeeklyRunsCompleted int `json:"weekly_runs_completed"`
	CriticalFailures    int `json:"critical_failures"`
	IncidentYesCount    int `json:"incident_yes_count"`
	MedicationMissDays  int `json:"medication_miss_days"`

	PRNUsed                 bool `json:"prn_used"`
	RestrictivePracticeUsed bool `json:"restrictive_practice_used"`

	OpenHighActions   int `json:"open_high_actions"`
	OpenMediumActions int `json:"open_medium_actions"`

	Overall RAGStatus `json:"overall"`
}

// ItemDetail is one verbatim item-level response included in the report input.
type ItemDetail struct {
	ItemTitle string  `json:"item_title"`
	Value     string  `json:"value"`
	Notes     *string `json:"notes,omitempty"`
	RunDate   string  `json:"run_date"`
}

// ActionDetail is one corrective-action summary included in the report input.
type ActionDetail struct {
	Title    string         `json:"title"`
	Severity ActionSeverity `json:"severity"`
	Status   ActionStatus   `json:"status"`
}

// ReportInput is the full structured input for one weekly report generation.
type ReportInput struct {
	Metrics   WeeklyMetrics  `json:"metrics"`
	Responses []ItemDetail   `json:"responses"`
	Actions   []ActionDetail `json:"actions"`
}

// WeeklyReport stores the collaborator's narrative verbatim together with a
// content hash of the engine's own input, so generation can be audited and
// retried later without recomputing inputs.
type WeeklyReport struct {
	ID            uuid.UUID
	CompanyID     uuid.UUID
	ParticipantID uuid.UUID
	PeriodStart   time.Time
	PeriodEnd     time.Time

	Metrics   WeeklyMetrics
	Narrative *string
	InputHash string
	Status    ReportStatus
	FailNote  *string

	CreatedBy uuid.UUID
	CreatedAt time.Time
}
