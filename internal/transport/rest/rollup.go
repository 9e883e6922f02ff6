package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
)

// rollupService defines the weekly rollup operations served over REST.
type rollupService interface {
	BuildWeekly(ctx context.Context, participantID uuid.UUID, periodStart, periodEnd time.Time) (*domain.ReportInput, error)
	GenerateReport(ctx context.Context, participantID uuid.UUID, periodStart, periodEnd time.Time) (*domain.WeeklyReport, error)
	GetReport(ctx context.Context, reportID uuid.UUID) (*domain.WeeklyReport, error)
}

// RollupHandler serves weekly metrics and report endpoints.
type RollupHandler struct {
	svc rollupService
	log *slog.Logger
}

// NewRollupHandler creates a RollupHandler.
func NewRollupHandler(svc rollupService, logger *slog.Logger) *RollupHandler {
	return &RollupHandler{svc: svc, log: logger.With("handler", "rollup")}
}

type generateReportRequest struct {
	ParticipantID uuid.UUID `json:"participantId"`
	PeriodStart   time.Time `json:"periodStart"`
	PeriodEnd     time.Time `json:"periodEnd"`
}

type weeklyReportResponse struct {
	ID            uuid.UUID            `json:"id"`
	ParticipantID uuid.UUID            `json:"participantId"`
	PeriodStart   time.Time            `json:"periodStart"`
	PeriodEnd     time.Time            `json:"periodEnd"`
	Metrics       domain.WeeklyMetrics `json:"metrics"`
	Narrative     *string              `json:"narrative,omitempty"`
	InputHash     string               `json:"inputHash"`
	Status        string               `json:"status"`
	FailNote      *string              `json:"failNote,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// Preview handles GET /api/v1/reports/preview. It computes the metrics and
// item details without calling the report writer or persisting anything.
func (h *RollupHandler) Preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	participantID, err := uuid.Parse(q.Get("participantId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "participantId: invalid uuid")
		return
	}
	periodStart, err := time.Parse(time.RFC3339, q.Get("periodStart"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "periodStart: invalid RFC3339 timestamp")
		return
	}
	periodEnd, err := time.Parse(time.RFC3339, q.Get("periodEnd"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "periodEnd: invalid RFC3339 timestamp")
		return
	}

	input, err := h.svc.BuildWeekly(r.Context(), participantID, periodStart, periodEnd)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, input)
}

// Generate handles POST /api/v1/reports.
func (h *RollupHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateReportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	report, err := h.svc.GenerateReport(r.Context(), req.ParticipantID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWeeklyReportResponse(report))
}

// Get handles GET /api/v1/reports/{id}.
func (h *RollupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	report, err := h.svc.GetReport(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toWeeklyReportResponse(report))
}

func toWeeklyReportResponse(report *domain.WeeklyReport) weeklyReportResponse {
	return weeklyReportResponse{
		ID:            report.ID,
		ParticipantID: report.ParticipantID,
		PeriodStart:   report.PeriodStart,
		PeriodEnd:     report.PeriodEnd,
		Metrics:       report.Metrics,
		Narrative:     report.Narrative,
		InputHash:     report.InputHash,
		Status:        report.Status.String(),
		FailNote:      report.FailNote,
		CreatedAt:     report.CreatedAt,
	}
}
