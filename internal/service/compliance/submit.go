package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// incidentKeywords flag items whose YES answers describe a reportable event
// and therefore need supporting notes.
var incidentKeywords = []string{"incident", "concern", "restrictive practice"}

// SubmitResult is the submitted run together with the actions it derived.
type SubmitResult struct {
	Run     *domain.ComplianceRun
	Actions []domain.ComplianceAction
}

// SubmitRun transitions an OPEN run to SUBMITTED. Every critical item must be
// answered; the run's traffic-light outcome is computed and one corrective
// action is created per failing item, all inside one transaction so a failure
// leaves no half-submitted run.
func (s *Service) SubmitRun(ctx context.Context, runID uuid.UUID) (*SubmitResult, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	result := &SubmitResult{}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		run, err := s.runs.GetByID(txCtx, id.CompanyID, runID)
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}

		if !run.IsOpen() {
			return domain.NewStateError("compliance_run", run.Status.String(), "submit")
		}

		items, err := s.templates.ListItems(txCtx, run.TemplateID)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		responses, err := s.responses.ListByRun(txCtx, run.ID)
		if err != nil {
			return fmt.Errorf("list responses: %w", err)
		}

		byItem := make(map[uuid.UUID]*domain.ComplianceResponse, len(responses))
		for i := range responses {
			byItem[responses[i].ItemID] = &responses[i]
		}

		if missing := countMissingCritical(items, byItem); missing > 0 {
			return domain.NewValidationError("responses",
				fmt.Sprintf("%d critical items are unanswered", missing))
		}

		now := time.Now().UTC()
		outcome := deriveOutcome(items, byItem)
		actions := deriveActions(run, items, byItem, now)

		run.Status = domain.RunStatusSubmitted
		run.Outcome = &outcome
		run.SubmittedBy = &id.UserID
		run.SubmittedAt = &now

		result.Run, err = s.runs.Update(txCtx, run)
		if err != nil {
			return fmt.Errorf("update run: %w", err)
		}

		for i := range actions {
			created, err := s.actions.Create(txCtx, &actions[i])
			if err != nil {
				return fmt.Errorf("create action: %w", err)
			}
			result.Actions = append(result.Actions, *created)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "compliance run submitted",
		slog.String("run_id", runID.String()),
		slog.String("outcome", result.Run.Outcome.String()),
		slog.Int("actions_created", len(result.Actions)))

	return result, nil
}

// countMissingCritical returns how many critical items have no response.
func countMissingCritical(items []domain.ComplianceTemplateItem, byItem map[uuid.UUID]*domain.ComplianceResponse) int {
	missing := 0
	for _, item := range items {
		if !item.IsCritical {
			continue
		}
		resp, ok := byItem[item.ID]
		if !ok || strings.TrimSpace(resp.Value) == "" {
			missing++
		}
	}
	return missing
}

// deriveOutcome computes the traffic light: RED if any critical item is NO,
// AMBER if any non-critical item is NO, otherwise GREEN.
func deriveOutcome(items []domain.ComplianceTemplateItem, byItem map[uuid.UUID]*domain.ComplianceResponse) domain.RAGStatus {
	outcome := domain.RAGStatusGreen
	for _, item := range items {
		resp, ok := byItem[item.ID]
		if !ok || resp.Value != domain.AnswerNo {
			continue
		}
		if item.IsCritical {
			return domain.RAGStatusRed
		}
		outcome = domain.RAGStatusAmber
	}
	return outcome
}

// deriveActions produces one corrective action per failing item, plus a
// "missing details" action for incident-keyword items answered YES without
// their required notes. Severity follows criticality: HIGH for critical
// items, MEDIUM otherwise.
func deriveActions(
	run *domain.ComplianceRun,
	items []domain.ComplianceTemplateItem,
	byItem map[uuid.UUID]*domain.ComplianceResponse,
	now time.Time,
) []domain.ComplianceAction {
	var actions []domain.ComplianceAction

	newAction := func(item domain.ComplianceTemplateItem, title string) domain.ComplianceAction {
		severity := domain.ActionSeverityMedium
		if item.IsCritical {
			severity = domain.ActionSeverityHigh
		}
		itemID := item.ID
		return domain.ComplianceAction{
			ID:        uuid.New(),
			CompanyID: run.CompanyID,
			RunID:     run.ID,
			ItemID:    &itemID,
			Title:     title,
			Severity:  severity,
			Status:    domain.ActionStatusOpen,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	for _, item := range items {
		resp, ok := byItem[item.ID]
		if !ok {
			continue
		}

		if resp.Value == domain.AnswerNo {
			actions = append(actions, newAction(item, fmt.Sprintf("Corrective action: %s", item.Title)))
			continue
		}

		if resp.Value == domain.AnswerYes && item.NotesRequiredOnFail &&
			matchesIncidentKeyword(item.Title) && !hasNotes(resp) {
			actions = append(actions, newAction(item, fmt.Sprintf("Missing details: %s", item.Title)))
		}
	}

	return actions
}

func matchesIncidentKeyword(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range incidentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func hasNotes(resp *domain.ComplianceResponse) bool {
	return resp.Notes != nil && strings.TrimSpace(*resp.Notes) != ""
}
