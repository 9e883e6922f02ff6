package rollup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// GenerateReport builds the weekly metrics and asks the text-generation
// collaborator for a narrative. The narrative is stored verbatim alongside a
// content hash of the engine's own input. A collaborator failure is recorded
// as a FAILED report row carrying the same hash — so generation can be
// retried later against identical inputs — and surfaced as an upstream
// error. The engine itself never retries.
func (s *Service) GenerateReport(ctx context.Context, participantID uuid.UUID, periodStart, periodEnd time.Time) (*domain.WeeklyReport, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	input, err := s.BuildWeekly(ctx, participantID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	hash, err := hashInput(input)
	if err != nil {
		return nil, fmt.Errorf("hash report input: %w", err)
	}

	report := &domain.WeeklyReport{
		ID:            uuid.New(),
		CompanyID:     id.CompanyID,
		ParticipantID: participantID,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		Metrics:       input.Metrics,
		InputHash:     hash,
		CreatedBy:     id.UserID,
		CreatedAt:     time.Now().UTC(),
	}

	narrative, genErr := s.writer.WriteReport(ctx, *input)
	if genErr != nil {
		s.log.ErrorContext(ctx, "report generation failed",
			slog.String("participant_id", participantID.String()),
			slog.String("input_hash", hash),
			slog.Any("error", genErr))

		failNote := genErr.Error()
		report.Status = domain.ReportStatusFailed
		report.FailNote = &failNote
		if _, storeErr := s.reports.Create(ctx, report); storeErr != nil {
			return nil, fmt.Errorf("store failed report: %w", storeErr)
		}
		return nil, domain.NewUpstreamError("report-writer", genErr)
	}

	report.Status = domain.ReportStatusGenerated
	report.Narrative = &narrative

	created, err := s.reports.Create(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}

	s.log.InfoContext(ctx, "weekly report generated",
		slog.String("report_id", created.ID.String()),
		slog.String("overall", string(input.Metrics.Overall)))

	return created, nil
}

// GetReport returns a stored weekly report.
func (s *Service) GetReport(ctx context.Context, reportID uuid.UUID) (*domain.WeeklyReport, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	report, err := s.reports.GetByID(ctx, id.CompanyID, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	return report, nil
}

// hashInput produces the auditability hash: SHA-256 over the canonical JSON
// serialization of the full report input.
func hashInput(input *domain.ReportInput) (string, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
