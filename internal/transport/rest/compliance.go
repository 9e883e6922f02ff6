package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/internal/service/compliance"
)

// complianceService defines the compliance run operations served over REST.
type complianceService interface {
	CreateRun(ctx context.Context, input compliance.CreateRunInput) (*domain.ComplianceRun, error)
	GetRun(ctx context.Context, runID uuid.UUID) (*domain.ComplianceRun, []domain.ComplianceResponse, error)
	UpsertResponse(ctx context.Context, input compliance.UpsertResponseInput) (*domain.ComplianceResponse, error)
	SubmitRun(ctx context.Context, runID uuid.UUID) (*compliance.SubmitResult, error)
	ListActions(ctx context.Context, filter domain.ActionFilter) ([]domain.ComplianceAction, error)
	UpdateAction(ctx context.Context, input compliance.UpdateActionInput) (*domain.ComplianceAction, error)
	CloseAction(ctx context.Context, input compliance.CloseActionInput) (*domain.ComplianceAction, error)
}

// ComplianceHandler serves compliance run, response, and action endpoints.
type ComplianceHandler struct {
	svc complianceService
	log *slog.Logger
}

// NewComplianceHandler creates a ComplianceHandler.
func NewComplianceHandler(svc complianceService, logger *slog.Logger) *ComplianceHandler {
	return &ComplianceHandler{svc: svc, log: logger.With("handler", "compliance")}
}

type createRunRequest struct {
	TemplateID    uuid.UUID  `json:"templateId"`
	ScopeEntityID uuid.UUID  `json:"scopeEntityId"`
	Date          *time.Time `json:"date,omitempty"`
	PeriodStart   *time.Time `json:"periodStart,omitempty"`
	PeriodEnd     *time.Time `json:"periodEnd,omitempty"`
}

type runItemResponseRequest struct {
	ItemID        uuid.UUID `json:"itemId"`
	Value         string    `json:"value"`
	Notes         *string   `json:"notes,omitempty"`
	AttachmentRef *string   `json:"attachmentRef,omitempty"`
}

type updateActionRequest struct {
	Status     *string    `json:"status,omitempty"`
	AssigneeID *uuid.UUID `json:"assigneeId,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
}

type closeActionRequest struct {
	ClosureNote   string  `json:"closureNote"`
	AttachmentRef *string `json:"attachmentRef,omitempty"`
}

type runResponse struct {
	ID            uuid.UUID  `json:"id"`
	TemplateID    uuid.UUID  `json:"templateId"`
	ScopeType     string     `json:"scopeType"`
	ScopeEntityID uuid.UUID  `json:"scopeEntityId"`
	PeriodStart   time.Time  `json:"periodStart"`
	PeriodEnd     time.Time  `json:"periodEnd"`
	Status        string     `json:"status"`
	Outcome       *string    `json:"outcome,omitempty"`
	SubmittedAt   *time.Time `json:"submittedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type runDetailResponse struct {
	Run       runResponse       `json:"run"`
	Responses []itemAnswerValue `json:"responses"`
}

type itemAnswerValue struct {
	ItemID        uuid.UUID `json:"itemId"`
	Value         string    `json:"value"`
	Notes         *string   `json:"notes,omitempty"`
	AttachmentRef *string   `json:"attachmentRef,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type submitRunResponse struct {
	Run     runResponse      `json:"run"`
	Actions []actionResponse `json:"actions"`
}

type actionResponse struct {
	ID          uuid.UUID  `json:"id"`
	RunID       uuid.UUID  `json:"runId"`
	ItemID      *uuid.UUID `json:"itemId,omitempty"`
	Title       string     `json:"title"`
	Severity    string     `json:"severity"`
	Status      string     `json:"status"`
	AssigneeID  *uuid.UUID `json:"assigneeId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ClosureNote *string    `json:"closureNote,omitempty"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// CreateRun handles POST /api/v1/runs.
func (h *ComplianceHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if !decodeBody(w, r, &req) {
		return
	}

	run, err := h.svc.CreateRun(r.Context(), compliance.CreateRunInput{
		TemplateID:    req.TemplateID,
		ScopeEntityID: req.ScopeEntityID,
		Date:          req.Date,
		PeriodStart:   req.PeriodStart,
		PeriodEnd:     req.PeriodEnd,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRunResponse(run))
}

// GetRun handles GET /api/v1/runs/{id}.
func (h *ComplianceHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	run, responses, err := h.svc.GetRun(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := runDetailResponse{
		Run:       toRunResponse(run),
		Responses: make([]itemAnswerValue, 0, len(responses)),
	}
	for _, ir := range responses {
		resp.Responses = append(resp.Responses, itemAnswerValue{
			ItemID:        ir.ItemID,
			Value:         ir.Value,
			Notes:         ir.Notes,
			AttachmentRef: ir.AttachmentRef,
			UpdatedAt:     ir.UpdatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpsertResponse handles PUT /api/v1/runs/{id}/responses.
func (h *ComplianceHandler) UpsertResponse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req runItemResponseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.svc.UpsertResponse(r.Context(), compliance.UpsertResponseInput{
		RunID:         id,
		ItemID:        req.ItemID,
		Value:         req.Value,
		Notes:         req.Notes,
		AttachmentRef: req.AttachmentRef,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, itemAnswerValue{
		ItemID:        resp.ItemID,
		Value:         resp.Value,
		Notes:         resp.Notes,
		AttachmentRef: resp.AttachmentRef,
		UpdatedAt:     resp.UpdatedAt,
	})
}

// SubmitRun handles POST /api/v1/runs/{id}/submit.
func (h *ComplianceHandler) SubmitRun(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.svc.SubmitRun(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := submitRunResponse{
		Run:     toRunResponse(result.Run),
		Actions: make([]actionResponse, 0, len(result.Actions)),
	}
	for _, a := range result.Actions {
		resp.Actions = append(resp.Actions, toActionResponse(&a))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListActions handles GET /api/v1/actions.
func (h *ComplianceHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	filter, err := actionFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	actions, err := h.svc.ListActions(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]actionResponse, 0, len(actions))
	for _, a := range actions {
		resp = append(resp, toActionResponse(&a))
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateAction handles PATCH /api/v1/actions/{id}.
func (h *ComplianceHandler) UpdateAction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req updateActionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := compliance.UpdateActionInput{
		ActionID:   id,
		AssigneeID: req.AssigneeID,
		DueDate:    req.DueDate,
	}
	if req.Status != nil {
		status := domain.ActionStatus(*req.Status)
		input.Status = &status
	}

	a, err := h.svc.UpdateAction(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toActionResponse(a))
}

// CloseAction handles POST /api/v1/actions/{id}/close.
func (h *ComplianceHandler) CloseAction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req closeActionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := h.svc.CloseAction(r.Context(), compliance.CloseActionInput{
		ActionID:      id,
		ClosureNote:   req.ClosureNote,
		AttachmentRef: req.AttachmentRef,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toActionResponse(a))
}

func toRunResponse(run *domain.ComplianceRun) runResponse {
	resp := runResponse{
		ID:            run.ID,
		TemplateID:    run.TemplateID,
		ScopeType:     run.ScopeType.String(),
		ScopeEntityID: run.ScopeEntityID,
		PeriodStart:   run.PeriodStart,
		PeriodEnd:     run.PeriodEnd,
		Status:        run.Status.String(),
		SubmittedAt:   run.SubmittedAt,
		CreatedAt:     run.CreatedAt,
	}
	if run.Outcome != nil {
		outcome := run.Outcome.String()
		resp.Outcome = &outcome
	}
	return resp
}

func toActionResponse(a *domain.ComplianceAction) actionResponse {
	return actionResponse{
		ID:          a.ID,
		RunID:       a.RunID,
		ItemID:      a.ItemID,
		Title:       a.Title,
		Severity:    a.Severity.String(),
		Status:      a.Status.String(),
		AssigneeID:  a.AssigneeID,
		DueDate:     a.DueDate,
		ClosureNote: a.ClosureNote,
		ClosedAt:    a.ClosedAt,
		CreatedAt:   a.CreatedAt,
	}
}

func actionFilterFromQuery(r *http.Request) (domain.ActionFilter, error) {
	var filter domain.ActionFilter
	q := r.URL.Query()

	if v := q.Get("runId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("runId", "invalid uuid")
		}
		filter.RunID = &id
	}
	if v := q.Get("status"); v != "" {
		status := domain.ActionStatus(v)
		filter.Status = &status
	}
	if v := q.Get("severity"); v != "" {
		severity := domain.ActionSeverity(v)
		filter.Severity = &severity
	}
	if v := q.Get("assigneeId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("assigneeId", "invalid uuid")
		}
		filter.AssigneeID = &id
	}
	filter.Limit = queryInt(r, "limit", 50)
	filter.Offset = queryInt(r, "offset", 0)

	return filter, nil
}
