package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/careops/compliance-backend/internal/domain"
)

func TestIdentityFromCtx(t *testing.T) {
	t.Parallel()

	id := Identity{
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		Role:      domain.RoleReviewer,
	}

	ctx := WithIdentity(context.Background(), id)

	got, ok := IdentityFromCtx(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestIdentityFromCtx_Missing(t *testing.T) {
	t.Parallel()

	_, ok := IdentityFromCtx(context.Background())
	assert.False(t, ok)
}

func TestIdentityFromCtx_NilCompanyID(t *testing.T) {
	t.Parallel()

	ctx := WithIdentity(context.Background(), Identity{UserID: uuid.New()})

	_, ok := IdentityFromCtx(ctx)
	assert.False(t, ok)
}

func TestRequestIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromCtx(ctx))
	assert.Equal(t, "", RequestIDFromCtx(context.Background()))
}
