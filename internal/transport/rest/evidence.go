package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/internal/service/evidence"
)

// evidenceService defines the evidence operations served over REST.
type evidenceService interface {
	CreateRequest(ctx context.Context, input evidence.CreateRequestInput) (*domain.EvidenceRequest, error)
	GetRequest(ctx context.Context, requestID uuid.UUID) (*evidence.RequestDetail, error)
	ListRequests(ctx context.Context, filter domain.EvidenceFilter) ([]domain.EvidenceRequest, error)
	GetByToken(ctx context.Context, token string) (*domain.EvidenceRequest, bool, error)
	SubmitPublic(ctx context.Context, input evidence.SubmitPublicInput) (*domain.EvidenceItem, error)
	SubmitInternal(ctx context.Context, input evidence.SubmitInternalInput) (*domain.EvidenceItem, error)
	StartReview(ctx context.Context, requestID uuid.UUID) (*domain.EvidenceRequest, error)
	Decide(ctx context.Context, input evidence.DecideInput) (*domain.EvidenceRequest, error)
}

// EvidenceHandler serves evidence request endpoints, both the authenticated
// management surface and the public token portal.
type EvidenceHandler struct {
	svc evidenceService
	log *slog.Logger
}

// NewEvidenceHandler creates an EvidenceHandler.
func NewEvidenceHandler(svc evidenceService, logger *slog.Logger) *EvidenceHandler {
	return &EvidenceHandler{svc: svc, log: logger.With("handler", "evidence")}
}

type createEvidenceRequest struct {
	FindingID      *uuid.UUID `json:"findingId,omitempty"`
	AuditID        *uuid.UUID `json:"auditId,omitempty"`
	IndicatorID    *uuid.UUID `json:"indicatorId,omitempty"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	PortalPassword *string    `json:"portalPassword,omitempty"`
}

type submitItemRequest struct {
	Kind    string  `json:"kind"`
	FileRef *string `json:"fileRef,omitempty"`
	LinkURL *string `json:"linkUrl,omitempty"`
}

type publicSubmitRequest struct {
	submitItemRequest
	PortalPassword *string `json:"portalPassword,omitempty"`
	SubmitterName  string  `json:"submitterName"`
	SubmitterEmail string  `json:"submitterEmail"`
}

type decideRequest struct {
	Accept bool    `json:"accept"`
	Note   *string `json:"note,omitempty"`
}

type evidenceRequestResponse struct {
	ID          uuid.UUID  `json:"id"`
	FindingID   *uuid.UUID `json:"findingId,omitempty"`
	AuditID     *uuid.UUID `json:"auditId,omitempty"`
	IndicatorID *uuid.UUID `json:"indicatorId,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	PublicToken string     `json:"publicToken,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// portalRequestResponse is the reduced view shown on the public portal page.
// No tenant identifiers, no token echo, no internal linkage.
type portalRequestResponse struct {
	Title            string     `json:"title"`
	Description      *string    `json:"description,omitempty"`
	Status           string     `json:"status"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
	RequiresPassword bool       `json:"requiresPassword"`
}

type evidenceItemResponse struct {
	ID            uuid.UUID `json:"id"`
	RequestID     uuid.UUID `json:"requestId"`
	Kind          string    `json:"kind"`
	FileRef       *string   `json:"fileRef,omitempty"`
	LinkURL       *string   `json:"linkUrl,omitempty"`
	SubmitterName *string   `json:"submitterName,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

type trailEntryResponse struct {
	Actor      string    `json:"actor"`
	FromStatus *string   `json:"fromStatus,omitempty"`
	ToStatus   string    `json:"toStatus"`
	Note       *string   `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type requestDetailResponse struct {
	Request evidenceRequestResponse `json:"request"`
	Items   []evidenceItemResponse  `json:"items"`
	Trail   []trailEntryResponse    `json:"trail"`
}

// Create handles POST /api/v1/evidence-requests.
func (h *EvidenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEvidenceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.svc.CreateRequest(r.Context(), evidence.CreateRequestInput{
		FindingID:      req.FindingID,
		AuditID:        req.AuditID,
		IndicatorID:    req.IndicatorID,
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		PortalPassword: req.PortalPassword,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEvidenceRequestResponse(created))
}

// Get handles GET /api/v1/evidence-requests/{id}.
func (h *EvidenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.svc.GetRequest(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := requestDetailResponse{
		Request: toEvidenceRequestResponse(detail.Request),
		Items:   make([]evidenceItemResponse, 0, len(detail.Items)),
		Trail:   make([]trailEntryResponse, 0, len(detail.Trail)),
	}
	for _, item := range detail.Items {
		resp.Items = append(resp.Items, toEvidenceItemResponse(&item))
	}
	for _, entry := range detail.Trail {
		resp.Trail = append(resp.Trail, toTrailEntryResponse(&entry))
	}

	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /api/v1/evidence-requests.
func (h *EvidenceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := evidenceFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	requests, err := h.svc.ListRequests(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]evidenceRequestResponse, 0, len(requests))
	for _, req := range requests {
		resp = append(resp, toEvidenceRequestResponse(&req))
	}

	writeJSON(w, http.StatusOK, resp)
}

// SubmitInternal handles POST /api/v1/evidence-requests/{id}/items.
func (h *EvidenceHandler) SubmitInternal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req submitItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.svc.SubmitInternal(r.Context(), evidence.SubmitInternalInput{
		RequestID: id,
		Kind:      domain.EvidenceKind(req.Kind),
		FileRef:   req.FileRef,
		LinkURL:   req.LinkURL,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEvidenceItemResponse(item))
}

// StartReview handles POST /api/v1/evidence-requests/{id}/review.
func (h *EvidenceHandler) StartReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	req, err := h.svc.StartReview(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEvidenceRequestResponse(req))
}

// Decide handles POST /api/v1/evidence-requests/{id}/decision.
func (h *EvidenceHandler) Decide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req decideRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := h.svc.Decide(r.Context(), evidence.DecideInput{
		RequestID: id,
		Accept:    req.Accept,
		Note:      req.Note,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEvidenceRequestResponse(updated))
}

// PortalGet handles GET /portal/evidence/{token}. Unauthenticated: the token
// is the entire authorization, and the response reveals nothing beyond what
// the submitter needs.
func (h *EvidenceHandler) PortalGet(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	req, requiresPassword, err := h.svc.GetByToken(r.Context(), token)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, portalRequestResponse{
		Title:            req.Title,
		Description:      req.Description,
		Status:           req.Status.String(),
		DueDate:          req.DueDate,
		RequiresPassword: requiresPassword,
	})
}

// PortalSubmit handles POST /portal/evidence/{token}.
func (h *EvidenceHandler) PortalSubmit(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	var req publicSubmitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.svc.SubmitPublic(r.Context(), evidence.SubmitPublicInput{
		Token:          token,
		PortalPassword: req.PortalPassword,
		Kind:           domain.EvidenceKind(req.Kind),
		FileRef:        req.FileRef,
		LinkURL:        req.LinkURL,
		SubmitterName:  req.SubmitterName,
		SubmitterEmail: req.SubmitterEmail,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEvidenceItemResponse(item))
}

func toEvidenceRequestResponse(req *domain.EvidenceRequest) evidenceRequestResponse {
	return evidenceRequestResponse{
		ID:          req.ID,
		FindingID:   req.FindingID,
		AuditID:     req.AuditID,
		IndicatorID: req.IndicatorID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status.String(),
		DueDate:     req.DueDate,
		PublicToken: req.PublicToken,
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
	}
}

func toEvidenceItemResponse(item *domain.EvidenceItem) evidenceItemResponse {
	return evidenceItemResponse{
		ID:            item.ID,
		RequestID:     item.RequestID,
		Kind:          item.Kind.String(),
		FileRef:       item.FileRef,
		LinkURL:       item.LinkURL,
		SubmitterName: item.SubmitterName,
		SubmittedAt:   item.SubmittedAt,
	}
}

func toTrailEntryResponse(entry *domain.EvidenceTrailEntry) trailEntryResponse {
	resp := trailEntryResponse{
		Actor:     entry.Actor,
		ToStatus:  entry.ToStatus.String(),
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt,
	}
	if entry.FromStatus != nil {
		from := entry.FromStatus.String()
		resp.FromStatus = &from
	}
	return resp
}

func evidenceFilterFromQuery(r *http.Request) (domain.EvidenceFilter, error) {
	var filter domain.EvidenceFilter
	q := r.URL.Query()

	if v := q.Get("findingId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("findingId", "invalid uuid")
		}
		filter.FindingID = &id
	}
	if v := q.Get("auditId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("auditId", "invalid uuid")
		}
		filter.AuditID = &id
	}
	if v := q.Get("status"); v != "" {
		status := domain.EvidenceStatus(v)
		filter.Status = &status
	}
	filter.Limit = queryInt(r, "limit", 50)
	filter.Offset = queryInt(r, "offset", 0)

	return filter, nil
}
