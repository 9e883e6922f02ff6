package comprun_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres/comprun"
	"github.com/careops/compliance-backend/internal/adapter/postgres/testhelper"
	"github.com/careops/compliance-backend/internal/domain"
)

type runFixture struct {
	companyID  uuid.UUID
	templateID uuid.UUID
	siteID     uuid.UUID
}

func seedTemplate(t *testing.T, pool *pgxpool.Pool) runFixture {
	t.Helper()
	ctx := context.Background()

	f := runFixture{
		companyID:  uuid.New(),
		templateID: uuid.New(),
		siteID:     uuid.New(),
	}

	exec := func(sql string, args ...any) {
		t.Helper()
		if _, err := pool.Exec(ctx, sql, args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	exec(`INSERT INTO companies (id, name) VALUES ($1, $2)`, f.companyID, "Test Provider")
	exec(`INSERT INTO sites (id, company_id, name) VALUES ($1, $2, $3)`,
		f.siteID, f.companyID, "Main Site")
	exec(`INSERT INTO compliance_templates (id, company_id, name, scope_type, frequency)
	      VALUES ($1, $2, 'Daily Site Check', 'SITE', 'DAILY')`,
		f.templateID, f.companyID)

	return f
}

func newRun(fix runFixture, day time.Time) *domain.ComplianceRun {
	return &domain.ComplianceRun{
		ID:            uuid.New(),
		CompanyID:     fix.companyID,
		TemplateID:    fix.templateID,
		ScopeType:     domain.ScopeTypeSite,
		ScopeEntityID: fix.siteID,
		PeriodStart:   day,
		PeriodEnd:     day.Add(24 * time.Hour),
		Status:        domain.RunStatusOpen,
		CreatedBy:     uuid.New(),
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestRepo_Create_DuplicatePeriod(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := comprun.New(pool)
	ctx := context.Background()

	fix := seedTemplate(t, pool)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	if _, err := repo.Create(ctx, newRun(fix, day)); err != nil {
		t.Fatalf("Create first run: %v", err)
	}

	// Same template, same site, same period start.
	_, err := repo.Create(ctx, newRun(fix, day))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRepo_GetByPeriod(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := comprun.New(pool)
	ctx := context.Background()

	fix := seedTemplate(t, pool)
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	run := newRun(fix, day)

	if _, err := repo.Create(ctx, run); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByPeriod(ctx, fix.templateID, fix.siteID, day)
	if err != nil {
		t.Fatalf("GetByPeriod: %v", err)
	}
	if got.ID != run.ID {
		t.Fatalf("GetByPeriod: got run %s, want %s", got.ID, run.ID)
	}

	_, err = repo.GetByPeriod(ctx, fix.templateID, fix.siteID, day.Add(24*time.Hour))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty period, got %v", err)
	}
}

func TestRepo_ListByWindow(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := comprun.New(pool)
	ctx := context.Background()

	fix := seedTemplate(t, pool)
	weekStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	// Three runs inside the week, one before it.
	for _, day := range []time.Time{
		weekStart.AddDate(0, 0, -1),
		weekStart,
		weekStart.AddDate(0, 0, 1),
		weekStart.AddDate(0, 0, 2),
	} {
		if _, err := repo.Create(ctx, newRun(fix, day)); err != nil {
			t.Fatalf("Create run for %s: %v", day, err)
		}
	}

	got, err := repo.ListByWindow(ctx, fix.companyID, domain.RunWindow{
		ScopeEntityID: fix.siteID,
		PeriodStart:   weekStart,
		PeriodEnd:     weekStart.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("ListByWindow: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListByWindow: expected 3 runs, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].PeriodStart.Before(got[i-1].PeriodStart) {
			t.Fatal("ListByWindow: runs not ordered by period start")
		}
	}
}
