package evidence

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// RequestDetail is a request with its items and trail.
type RequestDetail struct {
	Request *domain.EvidenceRequest
	Items   []domain.EvidenceItem
	Trail   []domain.EvidenceTrailEntry
}

// CreateRequest opens a new evidence request in REQUESTED state with a fresh
// public token. The token is the entire authorization for external
// submission, so it must be unguessable.
func (s *Service) CreateRequest(ctx context.Context, input CreateRequestInput) (*domain.EvidenceRequest, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	token, err := generateToken(s.cfg.TokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	var passwordHash *string
	if input.PortalPassword != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.PortalPassword), s.cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash portal password: %w", err)
		}
		h := string(hash)
		passwordHash = &h
	}

	now := time.Now().UTC()
	dueDate := input.DueDate
	if dueDate == nil && s.cfg.DefaultDueDays > 0 {
		d := now.AddDate(0, 0, s.cfg.DefaultDueDays)
		dueDate = &d
	}

	req := &domain.EvidenceRequest{
		ID:                 uuid.New(),
		CompanyID:          id.CompanyID,
		FindingID:          input.FindingID,
		AuditID:            input.AuditID,
		IndicatorID:        input.IndicatorID,
		Title:              input.Title,
		Description:        input.Description,
		Status:             domain.EvidenceStatusRequested,
		DueDate:            dueDate,
		PublicToken:        token,
		PortalPasswordHash: passwordHash,
		CreatedBy:          id.UserID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	var created *domain.EvidenceRequest
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created, err = s.requests.Create(txCtx, req)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		return s.appendTrail(txCtx, created.ID, id.UserID.String(), nil, domain.EvidenceStatusRequested, nil, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "evidence request created",
		slog.String("request_id", created.ID.String()),
		slog.Bool("portal_protected", passwordHash != nil))

	return created, nil
}

// GetRequest returns a request with its items and full trail.
func (s *Service) GetRequest(ctx context.Context, requestID uuid.UUID) (*RequestDetail, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	req, err := s.requests.GetByID(ctx, id.CompanyID, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}

	items, err := s.items.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	trail, err := s.trail.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("list trail: %w", err)
	}

	return &RequestDetail{Request: req, Items: items, Trail: trail}, nil
}

// ListRequests returns the company's requests matching the filter.
func (s *Service) ListRequests(ctx context.Context, filter domain.EvidenceFilter) ([]domain.EvidenceRequest, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	requests, err := s.requests.List(ctx, id.CompanyID, filter)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	return requests, nil
}

// GetByToken resolves a request for the public submission page. Holding the
// token is the authorization; no identity is required. The password hash is
// withheld from the returned copy; the bool tells the page whether a portal
// password will be demanded on submission.
func (s *Service) GetByToken(ctx context.Context, token string) (*domain.EvidenceRequest, bool, error) {
	req, err := s.requests.GetByToken(ctx, token)
	if err != nil {
		return nil, false, fmt.Errorf("get request by token: %w", err)
	}

	redacted := *req
	redacted.PortalPasswordHash = nil
	return &redacted, req.PortalPasswordHash != nil, nil
}

// appendTrail writes one transition record. Called inside the same
// transaction as the transition it records.
func (s *Service) appendTrail(
	ctx context.Context,
	requestID uuid.UUID,
	actor string,
	from *domain.EvidenceStatus,
	to domain.EvidenceStatus,
	note *string,
	at time.Time,
) error {
	entry := &domain.EvidenceTrailEntry{
		ID:         uuid.New(),
		RequestID:  requestID,
		Actor:      actor,
		FromStatus: from,
		ToStatus:   to,
		Note:       note,
		CreatedAt:  at,
	}
	if err := s.trail.Append(ctx, entry); err != nil {
		return fmt.Errorf("append trail: %w", err)
	}
	return nil
}

func generateToken(byteLen int) (string, error) {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
