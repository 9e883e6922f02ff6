// Package app assembles the application: configuration, logging, database,
// services, and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/careops/compliance-backend/internal/adapter/llm"
	"github.com/careops/compliance-backend/internal/adapter/postgres"
	auditrepo "github.com/careops/compliance-backend/internal/adapter/postgres/audit"
	"github.com/careops/compliance-backend/internal/adapter/postgres/auditresponse"
	"github.com/careops/compliance-backend/internal/adapter/postgres/audittemplate"
	"github.com/careops/compliance-backend/internal/adapter/postgres/compaction"
	"github.com/careops/compliance-backend/internal/adapter/postgres/compresponse"
	"github.com/careops/compliance-backend/internal/adapter/postgres/comprun"
	"github.com/careops/compliance-backend/internal/adapter/postgres/comptemplate"
	docreviewrepo "github.com/careops/compliance-backend/internal/adapter/postgres/docreview"
	evidencerepo "github.com/careops/compliance-backend/internal/adapter/postgres/evidence"
	"github.com/careops/compliance-backend/internal/adapter/postgres/finding"
	"github.com/careops/compliance-backend/internal/adapter/postgres/report"
	"github.com/careops/compliance-backend/internal/adapter/postgres/scopeentity"
	"github.com/careops/compliance-backend/internal/auth"
	"github.com/careops/compliance-backend/internal/config"
	"github.com/careops/compliance-backend/internal/service/audit"
	"github.com/careops/compliance-backend/internal/service/compliance"
	"github.com/careops/compliance-backend/internal/service/docreview"
	"github.com/careops/compliance-backend/internal/service/evidence"
	"github.com/careops/compliance-backend/internal/service/rollup"
	"github.com/careops/compliance-backend/internal/transport/middleware"
	"github.com/careops/compliance-backend/internal/transport/rest"
)

// Run is the application entry point. It blocks until the context is
// cancelled or the server fails, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	audits := auditrepo.New(pool)
	auditTemplates := audittemplate.New(pool)
	auditResponses := auditresponse.New(pool)
	findings := finding.New(pool)
	compTemplates := comptemplate.New(pool)
	scopes := scopeentity.New(pool)
	runs := comprun.New(pool)
	compResponses := compresponse.New(pool)
	actions := compaction.New(pool)
	evidenceRequests := evidencerepo.NewRequestRepo(pool)
	evidenceItems := evidencerepo.NewItemRepo(pool)
	evidenceTrail := evidencerepo.NewTrailRepo(pool)
	reviewTemplates := docreviewrepo.NewTemplateRepo(pool)
	reviews := docreviewrepo.NewReviewRepo(pool)
	suggestions := docreviewrepo.NewSuggestionRepo(pool)
	reports := report.New(pool)

	auditSvc := audit.NewService(logger, audits, auditTemplates, auditResponses, findings, txManager)
	complianceSvc := compliance.NewService(logger, compTemplates, scopes, runs, compResponses, actions, txManager)
	evidenceSvc := evidence.NewService(logger, evidence.Config{
		TokenBytes:     cfg.Evidence.TokenBytes,
		BcryptCost:     cfg.Evidence.BcryptCost,
		DefaultDueDays: cfg.Evidence.DefaultDueDays,
	}, evidenceRequests, evidenceItems, evidenceTrail, findings, txManager)
	docReviewSvc := docreview.NewService(logger, reviewTemplates, evidenceItems, reviews, suggestions, auditSvc, txManager)

	reportWriter := llm.NewReportWriter(cfg.Report, logger)
	rollupSvc := rollup.NewService(logger, runs, compResponses, compTemplates, actions, reports, reportWriter)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	router := rest.NewRouter(rest.Handlers{
		Health:     rest.NewHealthHandler(pool, BuildVersion()),
		Audit:      rest.NewAuditHandler(auditSvc, logger),
		Compliance: rest.NewComplianceHandler(complianceSvc, logger),
		Evidence:   rest.NewEvidenceHandler(evidenceSvc, logger),
		DocReview:  rest.NewDocReviewHandler(docReviewSvc, logger),
		Rollup:     rest.NewRollupHandler(rollupSvc, logger),
	}, limiter)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtManager),
	)(router)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
