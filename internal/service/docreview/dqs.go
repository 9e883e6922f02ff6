package docreview

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

// dqsSuggestThreshold is the score below which a minor non-conformance is
// suggested, absent any critical failure.
const dqsSuggestThreshold = 50

// Assessment is the computed quality of one document against its checklist.
type Assessment struct {
	YesCount         int
	PartlyCount      int
	CriticalFailures int
	Applicable       int
	DQSPercent       int
}

// Assess scores a set of checklist answers. NA answers are excluded from the
// applicable base; PARTLY counts as half a YES. A NO on a critical item is a
// critical failure regardless of the overall score.
func Assess(items []domain.DocReviewTemplateItem, responses []domain.ReviewResponse) Assessment {
	critical := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		critical[item.ID] = item.IsCritical
	}

	var a Assessment
	for _, resp := range responses {
		switch resp.Answer {
		case domain.ReviewAnswerNA:
			continue
		case domain.ReviewAnswerYes:
			a.YesCount++
		case domain.ReviewAnswerPartly:
			a.PartlyCount++
		case domain.ReviewAnswerNo:
			if critical[resp.ItemID] {
				a.CriticalFailures++
			}
		}
		a.Applicable++
	}

	if a.Applicable > 0 {
		score := (float64(a.YesCount) + 0.5*float64(a.PartlyCount)) / float64(a.Applicable) * 100
		a.DQSPercent = int(math.Round(score))
	}
	return a
}

// Suggestion is a proposed finding derived from an assessment.
type Suggestion struct {
	Type      domain.SuggestionType
	Severity  domain.ActionSeverity
	Rationale string
}

// Suggest applies the derivation rule in strict priority order: any critical
// failure outranks the score; a score below the threshold suggests a minor
// non-conformance; otherwise nothing is suggested.
func Suggest(a Assessment) (Suggestion, bool) {
	if a.CriticalFailures > 0 {
		return Suggestion{
			Type:     domain.SuggestionTypeMajorNC,
			Severity: domain.ActionSeverityHigh,
			Rationale: fmt.Sprintf("%d critical checklist item(s) failed (document quality score %d%%)",
				a.CriticalFailures, a.DQSPercent),
		}, true
	}

	if a.DQSPercent < dqsSuggestThreshold {
		return Suggestion{
			Type:     domain.SuggestionTypeMinorNC,
			Severity: domain.ActionSeverityMedium,
			Rationale: fmt.Sprintf("document quality score %d%% is below the %d%% threshold",
				a.DQSPercent, dqsSuggestThreshold),
		}, true
	}

	return Suggestion{}, false
}
