package rest

import (
	"net/http"

	"github.com/careops/compliance-backend/internal/transport/middleware"
)

// publicRateLimit caps unauthenticated portal traffic per IP per minute.
const publicRateLimit = 30

// Handlers bundles the REST handlers the router wires up.
type Handlers struct {
	Health     *HealthHandler
	Audit      *AuditHandler
	Compliance *ComplianceHandler
	Evidence   *EvidenceHandler
	DocReview  *DocReviewHandler
	Rollup     *RollupHandler
}

// NewRouter builds the HTTP route table. Everything under /api/v1 expects an
// authenticated identity; /portal routes are public and rate limited.
func NewRouter(h Handlers, limiter *middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("POST /api/v1/audits", h.Audit.Create)
	mux.HandleFunc("GET /api/v1/audits/{id}", h.Audit.Get)
	mux.HandleFunc("PUT /api/v1/audits/{id}/scope", h.Audit.SetScope)
	mux.HandleFunc("POST /api/v1/audits/{id}/start", h.Audit.Start)
	mux.HandleFunc("POST /api/v1/audits/{id}/submit", h.Audit.Submit)
	mux.HandleFunc("POST /api/v1/audits/{id}/close", h.Audit.Close)
	mux.HandleFunc("PUT /api/v1/audits/{id}/responses", h.Audit.UpsertResponse)
	mux.HandleFunc("POST /api/v1/audits/{id}/responses/late", h.Audit.AddLateResponse)
	mux.HandleFunc("GET /api/v1/audits/{id}/suggestions", h.DocReview.ListSuggestions)

	mux.HandleFunc("GET /api/v1/findings", h.Audit.ListFindings)
	mux.HandleFunc("PATCH /api/v1/findings/{id}", h.Audit.UpdateFinding)
	mux.HandleFunc("POST /api/v1/findings/{id}/close", h.Audit.CloseFinding)

	mux.HandleFunc("POST /api/v1/runs", h.Compliance.CreateRun)
	mux.HandleFunc("GET /api/v1/runs/{id}", h.Compliance.GetRun)
	mux.HandleFunc("PUT /api/v1/runs/{id}/responses", h.Compliance.UpsertResponse)
	mux.HandleFunc("POST /api/v1/runs/{id}/submit", h.Compliance.SubmitRun)

	mux.HandleFunc("GET /api/v1/actions", h.Compliance.ListActions)
	mux.HandleFunc("PATCH /api/v1/actions/{id}", h.Compliance.UpdateAction)
	mux.HandleFunc("POST /api/v1/actions/{id}/close", h.Compliance.CloseAction)

	mux.HandleFunc("POST /api/v1/evidence-requests", h.Evidence.Create)
	mux.HandleFunc("GET /api/v1/evidence-requests", h.Evidence.List)
	mux.HandleFunc("GET /api/v1/evidence-requests/{id}", h.Evidence.Get)
	mux.HandleFunc("POST /api/v1/evidence-requests/{id}/items", h.Evidence.SubmitInternal)
	mux.HandleFunc("POST /api/v1/evidence-requests/{id}/review", h.Evidence.StartReview)
	mux.HandleFunc("POST /api/v1/evidence-requests/{id}/decision", h.Evidence.Decide)

	mux.HandleFunc("POST /api/v1/reviews", h.DocReview.SubmitReview)
	mux.HandleFunc("POST /api/v1/suggestions/{id}/confirm", h.DocReview.Confirm)
	mux.HandleFunc("POST /api/v1/suggestions/{id}/dismiss", h.DocReview.Dismiss)

	mux.HandleFunc("POST /api/v1/reports", h.Rollup.Generate)
	mux.HandleFunc("GET /api/v1/reports/preview", h.Rollup.Preview)
	mux.HandleFunc("GET /api/v1/reports/{id}", h.Rollup.Get)

	portalLimit := limiter.Limit(publicRateLimit)
	mux.Handle("GET /portal/evidence/{token}", portalLimit(http.HandlerFunc(h.Evidence.PortalGet)))
	mux.Handle("POST /portal/evidence/{token}", portalLimit(http.HandlerFunc(h.Evidence.PortalSubmit)))

	return mux
}
