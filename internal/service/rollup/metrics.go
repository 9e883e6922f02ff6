package rollup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// Keyword groups used to classify item titles during aggregation. Matching
// is a lowercase substring check on the item title.
var (
	incidentKeywords            = []string{"incident", "concern"}
	medicationKeywords          = []string{"medication", "medicine"}
	prnKeywords                 = []string{"prn"}
	restrictivePracticeKeywords = []string{"restrictive practice"}
)

// BuildWeekly walks one participant's submitted runs and their actions and
// reduces them to the fixed metrics object plus the verbatim detail rows
// that accompany it into report generation.
func (s *Service) BuildWeekly(ctx context.Context, participantID uuid.UUID, periodStart, periodEnd time.Time) (*domain.ReportInput, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if !periodStart.Before(periodEnd) {
		return nil, domain.NewValidationError("period", "period_start must be before period_end")
	}

	runs, err := s.runs.ListByWindow(ctx, id.CompanyID, domain.RunWindow{
		ScopeEntityID: participantID,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	metrics := domain.WeeklyMetrics{
		ParticipantID: participantID,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
	}
	var details []domain.ItemDetail

	itemsByTemplate := map[uuid.UUID]map[uuid.UUID]domain.ComplianceTemplateItem{}
	freqByTemplate := map[uuid.UUID]domain.Frequency{}
	medicationMissDays := map[string]bool{}
	runIDs := make([]uuid.UUID, 0, len(runs))

	for i := range runs {
		run := &runs[i]
		runIDs = append(runIDs, run.ID)
		if run.Status != domain.RunStatusSubmitted {
			continue
		}

		freq, items, err := s.templateInfo(ctx, id.CompanyID, run.TemplateID, freqByTemplate, itemsByTemplate)
		if err != nil {
			return nil, err
		}

		switch freq {
		case domain.FrequencyDaily:
			metrics.DailyRunsCompleted++
		case domain.FrequencyWeekly:
			metrics.WeeklyRunsCompleted++
		}

		responses, err := s.responses.ListByRun(ctx, run.ID)
		if err != nil {
			return nil, fmt.Errorf("list responses: %w", err)
		}

		runDate := run.PeriodStart.Format("2006-01-02")
		for _, resp := range responses {
			item, ok := items[resp.ItemID]
			if !ok {
				continue
			}

			details = append(details, domain.ItemDetail{
				ItemTitle: item.Title,
				Value:     resp.Value,
				Notes:     resp.Notes,
				RunDate:   runDate,
			})

			if resp.Value == domain.AnswerNo {
				if item.IsCritical {
					metrics.CriticalFailures++
				}
				if matchesAny(item.Title, medicationKeywords) {
					medicationMissDays[runDate] = true
				}
			}

			if resp.Value == domain.AnswerYes {
				if matchesAny(item.Title, incidentKeywords) {
					metrics.IncidentYesCount++
				}
				if matchesAny(item.Title, prnKeywords) {
					metrics.PRNUsed = true
				}
				if matchesAny(item.Title, restrictivePracticeKeywords) {
					metrics.RestrictivePracticeUsed = true
				}
			}
		}
	}
	metrics.MedicationMissDays = len(medicationMissDays)

	// Actions hang off runs, so scoping to the participant's runs keeps
	// other participants' actions out of the rollup.
	var actions []domain.ComplianceAction
	if len(runIDs) > 0 {
		actions, err = s.actions.List(ctx, id.CompanyID, domain.ActionFilter{RunIDs: runIDs})
		if err != nil {
			return nil, fmt.Errorf("list actions: %w", err)
		}
	}

	actionDetails := make([]domain.ActionDetail, 0, len(actions))
	for i := range actions {
		action := &actions[i]
		if action.IsOpen() {
			switch action.Severity {
			case domain.ActionSeverityHigh:
				metrics.OpenHighActions++
			case domain.ActionSeverityMedium:
				metrics.OpenMediumActions++
			}
		}
		actionDetails = append(actionDetails, domain.ActionDetail{
			Title:    action.Title,
			Severity: action.Severity,
			Status:   action.Status,
		})
	}

	metrics.Overall = overallStatus(metrics)

	return &domain.ReportInput{
		Metrics:   metrics,
		Responses: details,
		Actions:   actionDetails,
	}, nil
}

// templateInfo resolves and caches a template's frequency and item index.
func (s *Service) templateInfo(
	ctx context.Context,
	companyID, templateID uuid.UUID,
	freqCache map[uuid.UUID]domain.Frequency,
	itemCache map[uuid.UUID]map[uuid.UUID]domain.ComplianceTemplateItem,
) (domain.Frequency, map[uuid.UUID]domain.ComplianceTemplateItem, error) {
	if freq, ok := freqCache[templateID]; ok {
		return freq, itemCache[templateID], nil
	}

	tmpl, err := s.templates.GetByID(ctx, companyID, templateID)
	if err != nil {
		return "", nil, fmt.Errorf("get template: %w", err)
	}
	items, err := s.templates.ListItems(ctx, templateID)
	if err != nil {
		return "", nil, fmt.Errorf("list template items: %w", err)
	}

	index := make(map[uuid.UUID]domain.ComplianceTemplateItem, len(items))
	for _, item := range items {
		index[item.ID] = item
	}

	freqCache[templateID] = tmpl.Frequency
	itemCache[templateID] = index
	return tmpl.Frequency, index, nil
}

// overallStatus applies the rollup traffic light: any open HIGH action or
// critical failure is RED, any open MEDIUM action is AMBER, otherwise GREEN.
func overallStatus(m domain.WeeklyMetrics) domain.RAGStatus {
	switch {
	case m.OpenHighActions > 0 || m.CriticalFailures > 0:
		return domain.RAGStatusRed
	case m.OpenMediumActions > 0:
		return domain.RAGStatusAmber
	default:
		return domain.RAGStatusGreen
	}
}

func matchesAny(title string, keywords []string) bool {
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
