// Package report implements weekly report persistence using PostgreSQL.
// The metrics snapshot is stored as jsonb next to the narrative so a report
// can be audited without recomputing its inputs.
package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres"
	"github.com/careops/compliance-backend/internal/domain"
)

// Repo provides weekly report persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new weekly report repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertReportSQL = `
INSERT INTO weekly_reports (
    id, company_id, participant_id, period_start, period_end,
    metrics, narrative, input_hash, status, fail_note, created_by, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const getReportSQL = `
SELECT id, company_id, participant_id, period_start, period_end,
       metrics, narrative, input_hash, status, fail_note, created_by, created_at
FROM weekly_reports
WHERE company_id = $1 AND id = $2`

// Create inserts a weekly report row, generated or failed.
func (r *Repo) Create(ctx context.Context, report *domain.WeeklyReport) (*domain.WeeklyReport, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertReportSQL,
		report.ID, report.CompanyID, report.ParticipantID, report.PeriodStart,
		report.PeriodEnd, report.Metrics, report.Narrative, report.InputHash,
		report.Status, report.FailNote, report.CreatedBy, report.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "weekly report", report.ID)
	}

	return report, nil
}

// GetByID returns a report by primary key with company filter.
func (r *Repo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.WeeklyReport, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var report domain.WeeklyReport
	err := q.QueryRow(ctx, getReportSQL, companyID, id).Scan(
		&report.ID, &report.CompanyID, &report.ParticipantID,
		&report.PeriodStart, &report.PeriodEnd, &report.Metrics,
		&report.Narrative, &report.InputHash, &report.Status,
		&report.FailNote, &report.CreatedBy, &report.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "weekly report", id)
	}

	return &report, nil
}
