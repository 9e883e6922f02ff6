package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/internal/service/audit"
)

// auditService defines the audit operations served over REST.
type auditService interface {
	CreateAudit(ctx context.Context, input audit.CreateAuditInput) (*domain.Audit, error)
	GetAudit(ctx context.Context, auditID uuid.UUID) (*audit.AuditDetail, error)
	SetScope(ctx context.Context, input audit.SetScopeInput) (*domain.Audit, error)
	StartAudit(ctx context.Context, auditID uuid.UUID) (*domain.Audit, error)
	SubmitAudit(ctx context.Context, auditID uuid.UUID) (*domain.Audit, error)
	CloseAudit(ctx context.Context, input audit.CloseAuditInput) (*domain.Audit, error)
	UpsertResponse(ctx context.Context, input audit.UpsertResponseInput) (*audit.UpsertResult, error)
	AddLateResponse(ctx context.Context, input audit.UpsertResponseInput) (*audit.UpsertResult, error)
	ListFindings(ctx context.Context, filter domain.FindingFilter) ([]domain.Finding, error)
	UpdateFinding(ctx context.Context, input audit.UpdateFindingInput) (*domain.Finding, error)
	CloseFinding(ctx context.Context, input audit.CloseFindingInput) (*domain.Finding, error)
}

// AuditHandler serves audit lifecycle, response, and finding endpoints.
type AuditHandler struct {
	svc auditService
	log *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(svc auditService, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, log: logger.With("handler", "audit")}
}

type scopeItemRequest struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type createAuditRequest struct {
	Title               string             `json:"title"`
	AuditType           string             `json:"auditType"`
	TemplateID          *uuid.UUID         `json:"templateId,omitempty"`
	Domains             []string           `json:"domains,omitempty"`
	ScopeItems          []scopeItemRequest `json:"scopeItems,omitempty"`
	ExternalAuditorName *string            `json:"externalAuditorName,omitempty"`
	ExternalAuditorOrg  *string            `json:"externalAuditorOrg,omitempty"`
}

type setScopeRequest struct {
	TemplateID *uuid.UUID         `json:"templateId,omitempty"`
	Domains    []string           `json:"domains,omitempty"`
	ScopeItems []scopeItemRequest `json:"scopeItems,omitempty"`
}

type closeAuditRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type upsertResponseRequest struct {
	IndicatorID uuid.UUID `json:"indicatorId"`
	Rating      string    `json:"rating"`
	Comment     *string   `json:"comment,omitempty"`
}

type updateFindingRequest struct {
	Status  *string    `json:"status,omitempty"`
	OwnerID *uuid.UUID `json:"ownerId,omitempty"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

type closeFindingRequest struct {
	ClosureNote string `json:"closureNote"`
}

type auditResponse struct {
	ID                  uuid.UUID           `json:"id"`
	Title               string              `json:"title"`
	AuditType           string              `json:"auditType"`
	Status              string              `json:"status"`
	TemplateID          *uuid.UUID          `json:"templateId,omitempty"`
	ScopeLocked         bool                `json:"scopeLocked"`
	ScopeItems          []scopeItemRequest  `json:"scopeItems,omitempty"`
	Domains             []string            `json:"domains,omitempty"`
	ExternalAuditorName *string             `json:"externalAuditorName,omitempty"`
	ExternalAuditorOrg  *string             `json:"externalAuditorOrg,omitempty"`
	CloseReason         *string             `json:"closeReason,omitempty"`
	ClosedAt            *time.Time          `json:"closedAt,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

type auditDetailResponse struct {
	Audit     auditResponse             `json:"audit"`
	Responses []indicatorRatingResponse `json:"responses"`
	Percent   *int                      `json:"percent"`
}

type indicatorRatingResponse struct {
	IndicatorID  uuid.UUID `json:"indicatorId"`
	Rating       string    `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	ScorePoints  int       `json:"scorePoints"`
	ScoreVersion string    `json:"scoreVersion"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type upsertResultResponse struct {
	Response indicatorRatingResponse `json:"response"`
	Finding  *findingResponse        `json:"finding,omitempty"`
}

type findingResponse struct {
	ID          uuid.UUID  `json:"id"`
	AuditID     uuid.UUID  `json:"auditId"`
	IndicatorID uuid.UUID  `json:"indicatorId"`
	Severity    string     `json:"severity"`
	Status      string     `json:"status"`
	Summary     string     `json:"summary"`
	OwnerID     *uuid.UUID `json:"ownerId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ClosureNote *string    `json:"closureNote,omitempty"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Create handles POST /api/v1/audits.
func (h *AuditHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAuditRequest
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := h.svc.CreateAudit(r.Context(), audit.CreateAuditInput{
		Title:               req.Title,
		AuditType:           domain.AuditType(req.AuditType),
		TemplateID:          req.TemplateID,
		Domains:             req.Domains,
		ScopeItems:          toScopeItems(req.ScopeItems),
		ExternalAuditorName: req.ExternalAuditorName,
		ExternalAuditorOrg:  req.ExternalAuditorOrg,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAuditResponse(a))
}

// Get handles GET /api/v1/audits/{id}.
func (h *AuditHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.svc.GetAudit(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := auditDetailResponse{
		Audit:     toAuditResponse(detail.Audit),
		Responses: make([]indicatorRatingResponse, 0, len(detail.Responses)),
		Percent:   detail.Percent,
	}
	for _, ir := range detail.Responses {
		resp.Responses = append(resp.Responses, toRatingResponse(&ir))
	}

	writeJSON(w, http.StatusOK, resp)
}

// SetScope handles PUT /api/v1/audits/{id}/scope.
func (h *AuditHandler) SetScope(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req setScopeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := h.svc.SetScope(r.Context(), audit.SetScopeInput{
		AuditID:    id,
		TemplateID: req.TemplateID,
		Domains:    req.Domains,
		ScopeItems: toScopeItems(req.ScopeItems),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuditResponse(a))
}

// Start handles POST /api/v1/audits/{id}/start.
func (h *AuditHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.StartAudit)
}

// Submit handles POST /api/v1/audits/{id}/submit.
func (h *AuditHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.SubmitAudit)
}

func (h *AuditHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*domain.Audit, error)) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	a, err := fn(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuditResponse(a))
}

// Close handles POST /api/v1/audits/{id}/close.
func (h *AuditHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req closeAuditRequest
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := h.svc.CloseAudit(r.Context(), audit.CloseAuditInput{AuditID: id, Reason: req.Reason})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuditResponse(a))
}

// UpsertResponse handles PUT /api/v1/audits/{id}/responses.
func (h *AuditHandler) UpsertResponse(w http.ResponseWriter, r *http.Request) {
	h.writeRating(w, r, h.svc.UpsertResponse)
}

// AddLateResponse handles POST /api/v1/audits/{id}/responses/late.
func (h *AuditHandler) AddLateResponse(w http.ResponseWriter, r *http.Request) {
	h.writeRating(w, r, h.svc.AddLateResponse)
}

func (h *AuditHandler) writeRating(w http.ResponseWriter, r *http.Request, fn func(context.Context, audit.UpsertResponseInput) (*audit.UpsertResult, error)) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req upsertResponseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := fn(r.Context(), audit.UpsertResponseInput{
		AuditID:     id,
		IndicatorID: req.IndicatorID,
		Rating:      domain.Rating(req.Rating),
		Comment:     req.Comment,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := upsertResultResponse{Response: toRatingResponse(result.Response)}
	if result.Finding != nil {
		f := toFindingResponse(result.Finding)
		resp.Finding = &f
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListFindings handles GET /api/v1/findings.
func (h *AuditHandler) ListFindings(w http.ResponseWriter, r *http.Request) {
	filter, err := findingFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	findings, err := h.svc.ListFindings(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]findingResponse, 0, len(findings))
	for _, f := range findings {
		resp = append(resp, toFindingResponse(&f))
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateFinding handles PATCH /api/v1/findings/{id}.
func (h *AuditHandler) UpdateFinding(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req updateFindingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := audit.UpdateFindingInput{
		FindingID: id,
		OwnerID:   req.OwnerID,
		DueDate:   req.DueDate,
	}
	if req.Status != nil {
		status := domain.FindingStatus(*req.Status)
		input.Status = &status
	}

	f, err := h.svc.UpdateFinding(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFindingResponse(f))
}

// CloseFinding handles POST /api/v1/findings/{id}/close.
func (h *AuditHandler) CloseFinding(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req closeFindingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	f, err := h.svc.CloseFinding(r.Context(), audit.CloseFindingInput{
		FindingID:   id,
		ClosureNote: req.ClosureNote,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFindingResponse(f))
}

func toScopeItems(items []scopeItemRequest) []audit.ScopeItemInput {
	out := make([]audit.ScopeItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, audit.ScopeItemInput{Code: it.Code, Description: it.Description})
	}
	return out
}

func toAuditResponse(a *domain.Audit) auditResponse {
	items := make([]scopeItemRequest, 0, len(a.ScopeItems))
	for _, it := range a.ScopeItems {
		items = append(items, scopeItemRequest{Code: it.Code, Description: it.Description})
	}
	return auditResponse{
		ID:                  a.ID,
		Title:               a.Title,
		AuditType:           a.AuditType.String(),
		Status:              a.Status.String(),
		TemplateID:          a.TemplateID,
		ScopeLocked:         a.ScopeLocked,
		ScopeItems:          items,
		Domains:             a.Domains,
		ExternalAuditorName: a.ExternalAuditorName,
		ExternalAuditorOrg:  a.ExternalAuditorOrg,
		CloseReason:         a.CloseReason,
		ClosedAt:            a.ClosedAt,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func toRatingResponse(ir *domain.AuditIndicatorResponse) indicatorRatingResponse {
	return indicatorRatingResponse{
		IndicatorID:  ir.IndicatorID,
		Rating:       ir.Rating.String(),
		Comment:      ir.Comment,
		ScorePoints:  ir.ScorePoints,
		ScoreVersion: ir.ScoreVersion,
		UpdatedAt:    ir.UpdatedAt,
	}
}

func toFindingResponse(f *domain.Finding) findingResponse {
	return findingResponse{
		ID:          f.ID,
		AuditID:     f.AuditID,
		IndicatorID: f.IndicatorID,
		Severity:    f.Severity.String(),
		Status:      f.Status.String(),
		Summary:     f.Summary,
		OwnerID:     f.OwnerID,
		DueDate:     f.DueDate,
		ClosureNote: f.ClosureNote,
		ClosedAt:    f.ClosedAt,
		CreatedAt:   f.CreatedAt,
	}
}

func findingFilterFromQuery(r *http.Request) (domain.FindingFilter, error) {
	var filter domain.FindingFilter
	q := r.URL.Query()

	if v := q.Get("auditId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("auditId", "invalid uuid")
		}
		filter.AuditID = &id
	}
	if v := q.Get("status"); v != "" {
		status := domain.FindingStatus(v)
		filter.Status = &status
	}
	if v := q.Get("severity"); v != "" {
		severity := domain.FindingSeverity(v)
		filter.Severity = &severity
	}
	if v := q.Get("ownerId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("ownerId", "invalid uuid")
		}
		filter.OwnerID = &id
	}
	filter.Limit = queryInt(r, "limit", 50)
	filter.Offset = queryInt(r, "offset", 0)

	return filter, nil
}
