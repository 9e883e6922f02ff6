package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/internal/service/audit/scoring"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// AuditDetail is an audit together with its responses and aggregate score.
// Percent is nil while no template is attached.
type AuditDetail struct {
	Audit     *domain.Audit
	Responses []domain.AuditIndicatorResponse
	Percent   *int
}

// CreateAudit creates a new audit in DRAFT for the caller's company.
func (s *Service) CreateAudit(ctx context.Context, input CreateAuditInput) (*domain.Audit, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if input.TemplateID != nil {
		if _, err := s.templates.GetByID(ctx, id.CompanyID, *input.TemplateID); err != nil {
			return nil, fmt.Errorf("get template: %w", err)
		}
	}

	now := time.Now().UTC()
	audit := &domain.Audit{
		ID:                  uuid.New(),
		CompanyID:           id.CompanyID,
		Title:               strings.TrimSpace(input.Title),
		AuditType:           input.AuditType,
		Status:              domain.AuditStatusDraft,
		TemplateID:          input.TemplateID,
		Domains:             input.Domains,
		ExternalAuditorName: input.ExternalAuditorName,
		ExternalAuditorOrg:  input.ExternalAuditorOrg,
		CreatedBy:           id.UserID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	for _, item := range input.ScopeItems {
		audit.ScopeItems = append(audit.ScopeItems, domain.AuditScopeItem{
			ID:          uuid.New(),
			AuditID:     audit.ID,
			Code:        item.Code,
			Description: item.Description,
		})
	}

	created, err := s.audits.Create(ctx, audit)
	if err != nil {
		return nil, fmt.Errorf("create audit: %w", err)
	}

	s.log.InfoContext(ctx, "audit created",
		slog.String("audit_id", created.ID.String()),
		slog.String("audit_type", created.AuditType.String()))

	return created, nil
}

// SetScope replaces the audit's scope items, domains, and template selection.
// Rejected once the scope is locked or the audit has left DRAFT/IN_PROGRESS.
func (s *Service) SetScope(ctx context.Context, input SetScopeInput) (*domain.Audit, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var updated *domain.Audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		audit, err := s.audits.GetByID(txCtx, id.CompanyID, input.AuditID)
		if err != nil {
			return fmt.Errorf("get audit: %w", err)
		}

		if audit.ScopeLocked {
			return domain.NewStateError("audit", "scope locked", "change scope")
		}
		if audit.Status != domain.AuditStatusDraft && audit.Status != domain.AuditStatusInProgress {
			return domain.NewStateError("audit", audit.Status.String(), "change scope")
		}

		if input.TemplateID != nil {
			if _, err := s.templates.GetByID(txCtx, id.CompanyID, *input.TemplateID); err != nil {
				return fmt.Errorf("get template: %w", err)
			}
			audit.TemplateID = input.TemplateID
		}
		if input.Domains != nil {
			audit.Domains = input.Domains
		}
		if input.ScopeItems != nil {
			audit.ScopeItems = audit.ScopeItems[:0]
			for _, item := range input.ScopeItems {
				audit.ScopeItems = append(audit.ScopeItems, domain.AuditScopeItem{
					ID:          uuid.New(),
					AuditID:     audit.ID,
					Code:        item.Code,
					Description: item.Description,
				})
			}
		}
		audit.UpdatedAt = time.Now().UTC()

		updated, err = s.audits.Update(txCtx, audit)
		if err != nil {
			return fmt.Errorf("update audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// StartAudit transitions DRAFT → IN_PROGRESS. Requires at least one scope
// line item and a selected template. External audits have their scope locked
// permanently on this transition.
func (s *Service) StartAudit(ctx context.Context, auditID uuid.UUID) (*domain.Audit, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var updated *domain.Audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		audit, err := s.audits.GetByID(txCtx, id.CompanyID, auditID)
		if err != nil {
			return fmt.Errorf("get audit: %w", err)
		}

		if audit.Status != domain.AuditStatusDraft {
			return domain.NewStateError("audit", audit.Status.String(), "start")
		}
		if len(audit.ScopeItems) == 0 {
			return domain.NewValidationError("scope_items", "at least one scope line item is required to start")
		}
		if audit.TemplateID == nil {
			return domain.NewValidationError("template_id", "a template must be selected to start")
		}

		audit.Status = domain.AuditStatusInProgress
		if audit.AuditType == domain.AuditTypeExternal {
			audit.ScopeLocked = true
		}
		audit.UpdatedAt = time.Now().UTC()

		updated, err = s.audits.Update(txCtx, audit)
		if err != nil {
			return fmt.Errorf("update audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "audit started",
		slog.String("audit_id", auditID.String()),
		slog.Bool("scope_locked", updated.ScopeLocked))

	return updated, nil
}

// SubmitAudit transitions IN_PROGRESS → IN_REVIEW. Every indicator in the
// audit's template must have a response; otherwise the submission fails with
// the count of missing responses.
func (s *Service) SubmitAudit(ctx context.Context, auditID uuid.UUID) (*domain.Audit, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var updated *domain.Audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		audit, err := s.audits.GetByID(txCtx, id.CompanyID, auditID)
		if err != nil {
			return fmt.Errorf("get audit: %w", err)
		}

		if audit.Status != domain.AuditStatusInProgress {
			return domain.NewStateError("audit", audit.Status.String(), "submit")
		}

		indicators, err := s.templates.ListIndicators(txCtx, *audit.TemplateID)
		if err != nil {
			return fmt.Errorf("list indicators: %w", err)
		}
		responses, err := s.responses.ListByAudit(txCtx, audit.ID)
		if err != nil {
			return fmt.Errorf("list responses: %w", err)
		}

		answered := make(map[uuid.UUID]bool, len(responses))
		for _, r := range responses {
			answered[r.IndicatorID] = true
		}
		missing := 0
		for _, ind := range indicators {
			if !answered[ind.ID] {
				missing++
			}
		}
		if missing > 0 {
			return domain.NewValidationError("responses",
				fmt.Sprintf("%d indicators are missing a response", missing))
		}

		audit.Status = domain.AuditStatusInReview
		audit.UpdatedAt = time.Now().UTC()

		updated, err = s.audits.Update(txCtx, audit)
		if err != nil {
			return fmt.Errorf("update audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "audit submitted for review", slog.String("audit_id", auditID.String()))

	return updated, nil
}

// CloseAudit transitions IN_PROGRESS/IN_REVIEW → CLOSED. Only reviewers may
// close. If any OPEN finding with severity MAJOR_NC exists for the audit,
// a non-empty close reason is mandatory. CLOSED is terminal.
func (s *Service) CloseAudit(ctx context.Context, input CloseAuditInput) (*domain.Audit, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !id.Role.CanReview() {
		return nil, domain.ErrForbidden
	}

	var updated *domain.Audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		audit, err := s.audits.GetByID(txCtx, id.CompanyID, input.AuditID)
		if err != nil {
			return fmt.Errorf("get audit: %w", err)
		}

		if audit.Status != domain.AuditStatusInProgress && audit.Status != domain.AuditStatusInReview {
			return domain.NewStateError("audit", audit.Status.String(), "close")
		}

		hasOpenMajor, err := s.findings.HasOpenWithSeverity(txCtx, audit.ID, domain.FindingSeverityMajorNC)
		if err != nil {
			return fmt.Errorf("check open findings: %w", err)
		}
		if hasOpenMajor && (input.Reason == nil || strings.TrimSpace(*input.Reason) == "") {
			return domain.NewValidationError("reason",
				"a close reason is required while a major non-conformance finding is open")
		}

		now := time.Now().UTC()
		audit.Status = domain.AuditStatusClosed
		audit.CloseReason = input.Reason
		audit.ClosedBy = &id.UserID
		audit.ClosedAt = &now
		audit.UpdatedAt = now

		updated, err = s.audits.Update(txCtx, audit)
		if err != nil {
			return fmt.Errorf("update audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "audit closed", slog.String("audit_id", input.AuditID.String()))

	return updated, nil
}

// GetAudit returns the audit with its responses and aggregate score.
func (s *Service) GetAudit(ctx context.Context, auditID uuid.UUID) (*AuditDetail, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	audit, err := s.audits.GetByID(ctx, id.CompanyID, auditID)
	if err != nil {
		return nil, fmt.Errorf("get audit: %w", err)
	}

	responses, err := s.responses.ListByAudit(ctx, audit.ID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	detail := &AuditDetail{Audit: audit, Responses: responses}

	if audit.TemplateID != nil {
		indicators, err := s.templates.ListIndicators(ctx, *audit.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("list indicators: %w", err)
		}
		total := 0
		for _, r := range responses {
			total += r.ScorePoints
		}
		detail.Percent = scoring.AuditPercent(true, total, len(indicators))
	}

	return detail, nil
}
