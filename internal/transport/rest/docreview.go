package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/internal/service/docreview"
)

// docReviewService defines the document review operations served over REST.
type docReviewService interface {
	SubmitReview(ctx context.Context, input docreview.SubmitReviewInput) (*docreview.SubmitResult, error)
	ListSuggestions(ctx context.Context, auditID uuid.UUID) ([]domain.SuggestedFinding, error)
	ConfirmSuggestion(ctx context.Context, input docreview.ConfirmSuggestionInput) (*domain.SuggestedFinding, error)
	DismissSuggestion(ctx context.Context, input docreview.DismissSuggestionInput) (*domain.SuggestedFinding, error)
}

// DocReviewHandler serves document review and suggested finding endpoints.
type DocReviewHandler struct {
	svc docReviewService
	log *slog.Logger
}

// NewDocReviewHandler creates a DocReviewHandler.
func NewDocReviewHandler(svc docReviewService, logger *slog.Logger) *DocReviewHandler {
	return &DocReviewHandler{svc: svc, log: logger.With("handler", "docreview")}
}

type reviewAnswer struct {
	ItemID uuid.UUID `json:"itemId"`
	Answer string    `json:"answer"`
}

type submitReviewRequest struct {
	EvidenceItemID uuid.UUID      `json:"evidenceItemId"`
	TemplateID     uuid.UUID      `json:"templateId"`
	Responses      []reviewAnswer `json:"responses"`
	Decision       string         `json:"decision"`
}

type confirmSuggestionRequest struct {
	FinalType     string `json:"finalType"`
	Justification string `json:"justification"`
}

type dismissSuggestionRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type reviewResponse struct {
	ID               uuid.UUID      `json:"id"`
	EvidenceItemID   uuid.UUID      `json:"evidenceItemId"`
	TemplateID       uuid.UUID      `json:"templateId"`
	Responses        []reviewAnswer `json:"responses"`
	DQSPercent       int            `json:"dqsPercent"`
	CriticalFailures int            `json:"criticalFailures"`
	Decision         string         `json:"decision"`
	CreatedAt        time.Time      `json:"createdAt"`
}

type suggestionResponse struct {
	ID            uuid.UUID  `json:"id"`
	ReviewID      uuid.UUID  `json:"reviewId"`
	AuditID       uuid.UUID  `json:"auditId"`
	IndicatorID   uuid.UUID  `json:"indicatorId"`
	Status        string     `json:"status"`
	SuggestedType string     `json:"suggestedType"`
	Severity      string     `json:"severity"`
	Rationale     string     `json:"rationale"`
	ConfirmedType *string    `json:"confirmedType,omitempty"`
	Justification *string    `json:"justification,omitempty"`
	DismissReason *string    `json:"dismissReason,omitempty"`
	FindingID     *uuid.UUID `json:"findingId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type submitReviewResponse struct {
	Review     reviewResponse      `json:"review"`
	Suggestion *suggestionResponse `json:"suggestion,omitempty"`
}

// SubmitReview handles POST /api/v1/reviews.
func (h *DocReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	responses := make([]domain.ReviewResponse, 0, len(req.Responses))
	for _, resp := range req.Responses {
		responses = append(responses, domain.ReviewResponse{
			ItemID: resp.ItemID,
			Answer: domain.ReviewAnswer(resp.Answer),
		})
	}

	result, err := h.svc.SubmitReview(r.Context(), docreview.SubmitReviewInput{
		EvidenceItemID: req.EvidenceItemID,
		TemplateID:     req.TemplateID,
		Responses:      responses,
		Decision:       domain.ReviewDecision(req.Decision),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := submitReviewResponse{Review: toReviewResponse(result.Review)}
	if result.Suggestion != nil {
		s := toSuggestionResponse(result.Suggestion)
		resp.Suggestion = &s
	}

	writeJSON(w, http.StatusCreated, resp)
}

// ListSuggestions handles GET /api/v1/audits/{id}/suggestions.
func (h *DocReviewHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	auditID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	suggestions, err := h.svc.ListSuggestions(r.Context(), auditID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]suggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		resp = append(resp, toSuggestionResponse(&s))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Confirm handles POST /api/v1/suggestions/{id}/confirm.
func (h *DocReviewHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req confirmSuggestionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	suggestion, err := h.svc.ConfirmSuggestion(r.Context(), docreview.ConfirmSuggestionInput{
		SuggestionID:  id,
		FinalType:     domain.SuggestionType(req.FinalType),
		Justification: req.Justification,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSuggestionResponse(suggestion))
}

// Dismiss handles POST /api/v1/suggestions/{id}/dismiss.
func (h *DocReviewHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dismissSuggestionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	suggestion, err := h.svc.DismissSuggestion(r.Context(), docreview.DismissSuggestionInput{
		SuggestionID: id,
		Reason:       req.Reason,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSuggestionResponse(suggestion))
}

func toReviewResponse(review *domain.DocumentReview) reviewResponse {
	answers := make([]reviewAnswer, 0, len(review.Responses))
	for _, resp := range review.Responses {
		answers = append(answers, reviewAnswer{ItemID: resp.ItemID, Answer: resp.Answer.String()})
	}
	return reviewResponse{
		ID:               review.ID,
		EvidenceItemID:   review.EvidenceItemID,
		TemplateID:       review.TemplateID,
		Responses:        answers,
		DQSPercent:       review.DQSPercent,
		CriticalFailures: review.CriticalFailures,
		Decision:         review.Decision.String(),
		CreatedAt:        review.CreatedAt,
	}
}

func toSuggestionResponse(s *domain.SuggestedFinding) suggestionResponse {
	resp := suggestionResponse{
		ID:            s.ID,
		ReviewID:      s.ReviewID,
		AuditID:       s.AuditID,
		IndicatorID:   s.IndicatorID,
		Status:        s.Status.String(),
		SuggestedType: s.SuggestedType.String(),
		Severity:      s.Severity.String(),
		Rationale:     s.Rationale,
		Justification: s.Justification,
		DismissReason: s.DismissReason,
		FindingID:     s.FindingID,
		CreatedAt:     s.CreatedAt,
	}
	if s.ConfirmedType != nil {
		t := s.ConfirmedType.String()
		resp.ConfirmedType = &t
	}
	return resp
}
