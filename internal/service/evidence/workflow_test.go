package evidence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

// workflowFixture holds one request and records every mutation, so a test
// can walk the full REQUESTED → … → ACCEPTED/REJECTED lifecycle.
type workflowFixture struct {
	svc          *Service
	ctx          context.Context
	identity     ctxutil.Identity
	request      *domain.EvidenceRequest
	finding      *domain.Finding
	trail        *trailRecorderMock
	itemsCreated []domain.EvidenceItem
}

func newWorkflowFixture(t *testing.T, role domain.Role) *workflowFixture {
	t.Helper()

	ctx, id := testCtx(role)
	f := &workflowFixture{
		ctx:      ctx,
		identity: id,
		trail:    &trailRecorderMock{},
		request: &domain.EvidenceRequest{
			ID:          uuid.New(),
			CompanyID:   id.CompanyID,
			Title:       "Incident report for 12 March",
			Status:      domain.EvidenceStatusRequested,
			PublicToken: "sDhpCS0hJ9token", // opaque, matched verbatim by the mock
			CreatedBy:   id.UserID,
		},
	}

	requests := &requestRepoMock{
		GetByIDFunc: func(ctx context.Context, companyID, reqID uuid.UUID) (*domain.EvidenceRequest, error) {
			if companyID != f.request.CompanyID || reqID != f.request.ID {
				return nil, domain.ErrNotFound
			}
			return f.request, nil
		},
		GetByTokenFunc: func(ctx context.Context, token string) (*domain.EvidenceRequest, error) {
			if token != f.request.PublicToken {
				return nil, domain.ErrNotFound
			}
			return f.request, nil
		},
		UpdateFunc: func(ctx context.Context, req *domain.EvidenceRequest) (*domain.EvidenceRequest, error) {
			f.request = req
			return req, nil
		},
	}
	items := &itemRepoMock{
		CreateFunc: func(ctx context.Context, item *domain.EvidenceItem) (*domain.EvidenceItem, error) {
			f.itemsCreated = append(f.itemsCreated, *item)
			return item, nil
		},
	}
	findings := &findingRepoMock{
		GetByIDFunc: func(ctx context.Context, companyID, findingID uuid.UUID) (*domain.Finding, error) {
			if f.finding == nil {
				return nil, domain.ErrNotFound
			}
			return f.finding, nil
		},
		UpdateFunc: func(ctx context.Context, finding *domain.Finding) (*domain.Finding, error) {
			f.finding = finding
			return finding, nil
		},
	}

	f.svc = newTestService(requests, items, f.trail, findings)
	return f
}

func (f *workflowFixture) publicSubmission() SubmitPublicInput {
	return SubmitPublicInput{
		Token:          f.request.PublicToken,
		Kind:           domain.EvidenceKindFile,
		FileRef:        ptr("s3://evidence/incident-report.pdf"),
		SubmitterName:  "Jordan Hale",
		SubmitterEmail: "jordan.hale@example.org",
	}
}

func TestService_SubmitPublic_TransitionsToSubmitted(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, domain.RoleStaff)

	item, err := f.svc.SubmitPublic(f.ctx, f.publicSubmission())

	require.NoError(t, err)
	assert.Equal(t, domain.EvidenceStatusSubmitted, f.request.Status)
	assert.Nil(t, item.UploaderID)
	assert.Equal(t, "Jordan Hale", *item.SubmitterName)

	require.Len(t, f.trail.entries, 1)
	entry := f.trail.entries[0]
	require.NotNil(t, entry.FromStatus)
	assert.Equal(t, domain.EvidenceStatusRequested, *entry.FromStatus)
	assert.Equal(t, domain.EvidenceStatusSubmitted, entry.ToStatus)
	assert.Equal(t, "external:jordan.hale@example.org", entry.Actor)
}

func TestService_SubmitPublic_WrongToken(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, domain.RoleStaff)

	input := f.publicSubmission()
	input.Token = "guessed-token"

	_, err := f.svc.SubmitPublic(f.ctx, input)

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.itemsCreated)
}

func TestService_SubmitPublic_PortalPassword(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, domain.RoleStaff)
	hash, err := bcrypt.GenerateFromPassword([]byte("sunshine-ledger-42"), bcrypt.MinCost)
	require.NoError(t, err)
	f.request.PortalPasswordHash = ptr(string(hash))

	input := f.publicSubmission()
	_, err = f.svc.SubmitPublic(f.ctx, input)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	input.PortalPassword = ptr("wrong password")
	_, err = f.svc.SubmitPublic(f.ctx, input)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	input.PortalPassword = ptr("sunshine-ledger-42")
	_, err = f.svc.SubmitPublic(f.ctx, input)
	require.NoError(t, err)
}

func TestService_SubmitPublic_RejectedAcceptsResubmission(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, domain.RoleStaff)
	f.request.Status = domain.EvidenceStatusRejected

	_, err := f.svc.SubmitPublic(f.ctx, f.publicSubmission())

	require.NoError(t, err)
	assert.Equal(t, domain.EvidenceStatusSubmitted, f.request.Status)
}

func TestService_SubmitPublic_AcceptedRefusesFurtherItems(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, domain.RoleStaff)
	f.request.Status = domain.EvidenceStatusAccepted

	_, err := f.svc.SubmitPublic(f.ctx, f.publicSubmission())

	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Empty(t, f.itemsCreated)
}

func TestService_SubmitInternal_RecordsUploader(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, domain.RoleStaff)

	item, err := f.svc.SubmitInternal(f.ctx, SubmitInternalInput{
		RequestID: f.request.ID,
		Kind:      domain.EvidenceKindLink,
		LinkURL:   ptr("https://drive.example.org/d/abc123"),
	})

	require.NoError(t, err)
	require.NotNil(t, item.UploaderID)
	assert.Equal(t, f.identity.UserID, *item.UploaderID)
	assert.Nil(t, item.SubmitterName)
}

func TestService_StartReview_RequiresSubmitted(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, domain.RoleReviewer)

	_, err := f.svc.StartReview(f.ctx, f.request.ID)

	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestService_StartReview_StaffForbidden(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, domain.RoleStaff)
	f.request.Status = domain.EvidenceStatusSubmitted

	_, err := f.svc.StartReview(f.ctx, f.request.ID)

	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_Decide_AcceptClosesLinkedFinding(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, domain.RoleReviewer)
	findingID := uuid.New()
	f.request.FindingID = &findingID
	f.request.Status = domain.EvidenceStatusUnderReview
	f.finding = &domain.Finding{
		ID:        findingID,
		CompanyID: f.identity.CompanyID,
		Severity:  domain.FindingSeverityMinorNC,
		Status:    domain.FindingStatusOpen,
		Summary:   "Incomplete medication records",
	}

	updated, err := f.svc.Decide(f.ctx, DecideInput{
		RequestID: f.request.ID,
		Accept:    true,
		Note:      ptr("Records verified against the MAR chart."),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.EvidenceStatusAccepted, updated.Status)

	assert.Equal(t, domain.FindingStatusClosed, f.finding.Status)
	require.NotNil(t, f.finding.ClosureNote)
	assert.Equal(t, "Records verified against the MAR chart.", *f.finding.ClosureNote)
	assert.Equal(t, f.identity.UserID, *f.finding.ClosedBy)

	require.Len(t, f.trail.entries, 1)
	assert.Equal(t, domain.EvidenceStatusAccepted, f.trail.entries[0].ToStatus)
}

func TestService_Decide_RejectRequiresNote(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, domain.RoleCompanyAdmin)
	f.request.Status = domain.EvidenceStatusUnderReview

	_, err := f.svc.Decide(f.ctx, DecideInput{RequestID: f.request.ID, Accept: false})

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Decide_FullTrail(t *testing.T) {
	t.Parallel()

	f := newWorkflowFixture(t, domain.RoleReviewer)

	_, err := f.svc.SubmitPublic(f.ctx, f.publicSubmission())
	require.NoError(t, err)

	_, err = f.svc.StartReview(f.ctx, f.request.ID)
	require.NoError(t, err)

	_, err = f.svc.Decide(f.ctx, DecideInput{
		RequestID: f.request.ID,
		Accept:    false,
		Note:      ptr("Document is illegible, please rescan."),
	})
	require.NoError(t, err)

	// Re-submission after rejection re-enters SUBMITTED.
	_, err = f.svc.SubmitPublic(f.ctx, f.publicSubmission())
	require.NoError(t, err)

	var states []domain.EvidenceStatus
	for _, e := range f.trail.entries {
		states = append(states, e.ToStatus)
	}
	assert.Equal(t, []domain.EvidenceStatus{
		domain.EvidenceStatusSubmitted,
		domain.EvidenceStatusUnderReview,
		domain.EvidenceStatusRejected,
		domain.EvidenceStatusSubmitted,
	}, states)
}
