package rollup

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

func newTestService(runs runReader, responses responseReader, templates templateReader, actions actionReader, reports reportRepo, writer reportWriter) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, runs, responses, templates, actions, reports, writer)
}

func testCtx() (context.Context, ctxutil.Identity) {
	id := ctxutil.Identity{CompanyID: uuid.New(), UserID: uuid.New(), Role: domain.RoleCompanyAdmin}
	return ctxutil.WithIdentity(context.Background(), id), id
}

func ptr[T any](v T) *T { return &v }

// weekFixture builds a week of daily runs against one template whose items
// cover all the keyword groups the aggregation recognizes.
type weekFixture struct {
	svc           *Service
	ctx           context.Context
	participantID uuid.UUID
	periodStart   time.Time
	periodEnd     time.Time

	template  *domain.ComplianceTemplate
	items     []domain.ComplianceTemplateItem
	runs      []domain.ComplianceRun
	responses map[uuid.UUID][]domain.ComplianceResponse
	actions   []domain.ComplianceAction
}

const (
	itemMedication = iota
	itemIncident
	itemPRN
	itemRestrictive
	itemGeneral
)

func newWeekFixture(t *testing.T) *weekFixture {
	t.Helper()

	ctx, _ := testCtx()
	f := &weekFixture{
		ctx:           ctx,
		participantID: uuid.New(),
		periodStart:   time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
		periodEnd:     time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC),
		responses:     map[uuid.UUID][]domain.ComplianceResponse{},
		template: &domain.ComplianceTemplate{
			ID:        uuid.New(),
			Name:      "Participant daily checks",
			ScopeType: domain.ScopeTypeParticipant,
			Frequency: domain.FrequencyDaily,
		},
	}
	f.items = []domain.ComplianceTemplateItem{
		{ID: uuid.New(), TemplateID: f.template.ID, Title: "Medication administered as prescribed", IsCritical: true},
		{ID: uuid.New(), TemplateID: f.template.ID, Title: "Any incidents or concerns today?"},
		{ID: uuid.New(), TemplateID: f.template.ID, Title: "PRN medication used"},
		{ID: uuid.New(), TemplateID: f.template.ID, Title: "Restrictive practice used"},
		{ID: uuid.New(), TemplateID: f.template.ID, Title: "Daily activities completed"},
	}

	runs := &runReaderMock{
		ListByWindowFunc: func(ctx context.Context, companyID uuid.UUID, window domain.RunWindow) ([]domain.ComplianceRun, error) {
			assert.Equal(t, f.participantID, window.ScopeEntityID)
			return f.runs, nil
		},
	}
	responses := &responseReaderMock{
		ListByRunFunc: func(ctx context.Context, runID uuid.UUID) ([]domain.ComplianceResponse, error) {
			return f.responses[runID], nil
		},
	}
	templates := &templateReaderMock{
		GetByIDFunc: func(ctx context.Context, companyID, id uuid.UUID) (*domain.ComplianceTemplate, error) {
			return f.template, nil
		},
		ListItemsFunc: func(ctx context.Context, templateID uuid.UUID) ([]domain.ComplianceTemplateItem, error) {
			return f.items, nil
		},
	}
	actions := &actionReaderMock{
		ListFunc: func(ctx context.Context, companyID uuid.UUID, filter domain.ActionFilter) ([]domain.ComplianceAction, error) {
			scoped := map[uuid.UUID]bool{}
			for _, runID := range filter.RunIDs {
				scoped[runID] = true
			}
			var out []domain.ComplianceAction
			for _, a := range f.actions {
				if scoped[a.RunID] {
					out = append(out, a)
				}
			}
			return out, nil
		},
	}

	f.svc = newTestService(runs, responses, templates, actions, nil, nil)
	return f
}

// addRun appends one submitted daily run on the given day with the given
// answers, indexed by the item constants above.
func (f *weekFixture) addRun(day int, values map[int]string, notes map[int]string) {
	start := f.periodStart.AddDate(0, 0, day)
	run := domain.ComplianceRun{
		ID:            uuid.New(),
		TemplateID:    f.template.ID,
		ScopeType:     domain.ScopeTypeParticipant,
		ScopeEntityID: f.participantID,
		PeriodStart:   start,
		PeriodEnd:     start.AddDate(0, 0, 1),
		Status:        domain.RunStatusSubmitted,
	}
	f.runs = append(f.runs, run)

	for idx, value := range values {
		resp := domain.ComplianceResponse{
			ID:     uuid.New(),
			RunID:  run.ID,
			ItemID: f.items[idx].ID,
			Value:  value,
		}
		if note, ok := notes[idx]; ok {
			resp.Notes = &note
		}
		f.responses[run.ID] = append(f.responses[run.ID], resp)
	}
}

func TestService_BuildWeekly_QuietWeekIsGreen(t *testing.T) {
	t.Parallel()

	f := newWeekFixture(t)
	for day := 0; day < 7; day++ {
		f.addRun(day, map[int]string{
			itemMedication: domain.AnswerYes,
			itemIncident:   domain.AnswerNo,
			itemGeneral:    domain.AnswerYes,
		}, nil)
	}

	input, err := f.svc.BuildWeekly(f.ctx, f.participantID, f.periodStart, f.periodEnd)

	require.NoError(t, err)
	m := input.Metrics
	assert.Equal(t, 7, m.DailyRunsCompleted)
	assert.Equal(t, 0, m.WeeklyRunsCompleted)
	assert.Equal(t, 0, m.CriticalFailures)
	assert.Equal(t, 0, m.IncidentYesCount)
	assert.Equal(t, 0, m.MedicationMissDays)
	assert.False(t, m.PRNUsed)
	assert.False(t, m.RestrictivePracticeUsed)
	assert.Equal(t, domain.RAGStatusGreen, m.Overall)
	// Three answers per day, verbatim.
	assert.Len(t, input.Responses, 21)
}

func TestService_BuildWeekly_EventfulWeek(t *testing.T) {
	t.Parallel()

	f := newWeekFixture(t)
	// Two medication misses on distinct days, one incident with notes, PRN and
	// restrictive practice each used once.
	f.addRun(0, map[int]string{itemMedication: domain.AnswerNo}, nil)
	f.addRun(1, map[int]string{itemMedication: domain.AnswerNo}, nil)
	f.addRun(2, map[int]string{
		itemMedication: domain.AnswerYes,
		itemIncident:   domain.AnswerYes,
		itemPRN:        domain.AnswerYes,
	}, map[int]string{itemIncident: "Minor fall during transfer, no injury."})
	f.addRun(3, map[int]string{itemRestrictive: domain.AnswerYes}, nil)

	input, err := f.svc.BuildWeekly(f.ctx, f.participantID, f.periodStart, f.periodEnd)

	require.NoError(t, err)
	m := input.Metrics
	assert.Equal(t, 4, m.DailyRunsCompleted)
	assert.Equal(t, 2, m.CriticalFailures)
	assert.Equal(t, 2, m.MedicationMissDays)
	assert.Equal(t, 1, m.IncidentYesCount)
	assert.True(t, m.PRNUsed)
	assert.True(t, m.RestrictivePracticeUsed)
	// Critical failures force RED regardless of actions.
	assert.Equal(t, domain.RAGStatusRed, m.Overall)
}

func TestService_BuildWeekly_OpenRunsExcluded(t *testing.T) {
	t.Parallel()

	f := newWeekFixture(t)
	f.addRun(0, map[int]string{itemMedication: domain.AnswerYes}, nil)
	f.runs[0].Status = domain.RunStatusOpen

	input, err := f.svc.BuildWeekly(f.ctx, f.participantID, f.periodStart, f.periodEnd)

	require.NoError(t, err)
	assert.Equal(t, 0, input.Metrics.DailyRunsCompleted)
	assert.Empty(t, input.Responses)
}

func TestService_BuildWeekly_ActionSeverities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		actions []domain.ComplianceAction
		want    domain.RAGStatus
	}{
		{
			name: "open high action is red",
			actions: []domain.ComplianceAction{
				{Title: "Corrective action", Severity: domain.ActionSeverityHigh, Status: domain.ActionStatusOpen},
			},
			want: domain.RAGStatusRed,
		},
		{
			name: "open medium action is amber",
			actions: []domain.ComplianceAction{
				{Title: "Corrective action", Severity: domain.ActionSeverityMedium, Status: domain.ActionStatusInProgress},
			},
			want: domain.RAGStatusAmber,
		},
		{
			name: "closed high action does not count",
			actions: []domain.ComplianceAction{
				{Title: "Corrective action", Severity: domain.ActionSeverityHigh, Status: domain.ActionStatusClosed},
			},
			want: domain.RAGStatusGreen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newWeekFixture(t)
			f.addRun(0, map[int]string{itemGeneral: domain.AnswerYes}, nil)
			for i := range tt.actions {
				tt.actions[i].RunID = f.runs[0].ID
			}
			f.actions = tt.actions

			input, err := f.svc.BuildWeekly(f.ctx, f.participantID, f.periodStart, f.periodEnd)

			require.NoError(t, err)
			assert.Equal(t, tt.want, input.Metrics.Overall)
			// Action summaries are always included, open or closed.
			assert.Len(t, input.Actions, len(tt.actions))
		})
	}
}

func TestService_BuildWeekly_ActionsScopedToParticipantRuns(t *testing.T) {
	t.Parallel()

	f := newWeekFixture(t)
	f.addRun(0, map[int]string{itemGeneral: domain.AnswerYes}, nil)
	f.actions = []domain.ComplianceAction{
		{RunID: f.runs[0].ID, Title: "Follow up activity plan", Severity: domain.ActionSeverityMedium, Status: domain.ActionStatusOpen},
		{RunID: uuid.New(), Title: "Unrelated escalation", Severity: domain.ActionSeverityHigh, Status: domain.ActionStatusOpen},
	}

	input, err := f.svc.BuildWeekly(f.ctx, f.participantID, f.periodStart, f.periodEnd)

	require.NoError(t, err)
	m := input.Metrics
	assert.Equal(t, 0, m.OpenHighActions)
	assert.Equal(t, 1, m.OpenMediumActions)
	assert.Equal(t, domain.RAGStatusAmber, m.Overall)
	assert.Len(t, input.Actions, 1)
}

func TestService_BuildWeekly_NoRunsMeansNoActions(t *testing.T) {
	t.Parallel()

	f := newWeekFixture(t)
	// An open HIGH action on some other participant's run must not turn an
	// empty week RED.
	f.actions = []domain.ComplianceAction{
		{RunID: uuid.New(), Title: "Unrelated escalation", Severity: domain.ActionSeverityHigh, Status: domain.ActionStatusOpen},
	}

	input, err := f.svc.BuildWeekly(f.ctx, f.participantID, f.periodStart, f.periodEnd)

	require.NoError(t, err)
	assert.Equal(t, 0, input.Metrics.OpenHighActions)
	assert.Equal(t, domain.RAGStatusGreen, input.Metrics.Overall)
	assert.Empty(t, input.Actions)
}

func TestService_BuildWeekly_InvalidPeriod(t *testing.T) {
	t.Parallel()

	f := newWeekFixture(t)

	_, err := f.svc.BuildWeekly(f.ctx, f.participantID, f.periodEnd, f.periodStart)

	require.ErrorIs(t, err, domain.ErrValidation)
}
