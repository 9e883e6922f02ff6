package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

const testSecret = "test-secret-key-at-least-32-chars!!"

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "compliance", 15*time.Minute)

	id := ctxutil.Identity{
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		Role:      domain.RoleCompanyAdmin,
	}

	token, err := m.GenerateAccessToken(id)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestJWTManager_WrongIssuer(t *testing.T) {
	t.Parallel()

	issuerA := NewJWTManager(testSecret, "issuer-a", 15*time.Minute)
	issuerB := NewJWTManager(testSecret, "issuer-b", 15*time.Minute)

	token, err := issuerA.GenerateAccessToken(ctxutil.Identity{
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		Role:      domain.RoleStaff,
	})
	require.NoError(t, err)

	_, err = issuerB.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_Expired(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "compliance", -time.Minute)

	token, err := m.GenerateAccessToken(ctxutil.Identity{
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		Role:      domain.RoleStaff,
	})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_EmptyToken(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "compliance", 15*time.Minute)

	_, err := m.ValidateAccessToken("")
	assert.Error(t, err)
}
