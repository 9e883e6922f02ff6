package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/careops/compliance-backend/internal/domain"
	"github.com/careops/compliance-backend/pkg/ctxutil"
)

type validatorMock struct {
	ValidateAccessTokenFunc func(token string) (ctxutil.Identity, error)
}

func (m *validatorMock) ValidateAccessToken(token string) (ctxutil.Identity, error) {
	return m.ValidateAccessTokenFunc(token)
}

func TestAuth_ValidToken(t *testing.T) {
	want := ctxutil.Identity{
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		Role:      domain.RoleReviewer,
	}
	validator := &validatorMock{
		ValidateAccessTokenFunc: func(token string) (ctxutil.Identity, error) {
			if token != "good-token" {
				t.Errorf("unexpected token %q", token)
			}
			return want, nil
		},
	}

	var got ctxutil.Identity
	var ok bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = ctxutil.IdentityFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audits", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	Auth(validator)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !ok {
		t.Fatal("expected identity in context")
	}
	if got != want {
		t.Errorf("identity = %+v, want %+v", got, want)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	validator := &validatorMock{
		ValidateAccessTokenFunc: func(token string) (ctxutil.Identity, error) {
			return ctxutil.Identity{}, errors.New("bad signature")
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called for an invalid token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audits", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()

	Auth(validator)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_NoToken_Anonymous(t *testing.T) {
	validator := &validatorMock{
		ValidateAccessTokenFunc: func(token string) (ctxutil.Identity, error) {
			t.Error("validator should not be called without a token")
			return ctxutil.Identity{}, nil
		},
	}

	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := ctxutil.IdentityFromCtx(r.Context()); ok {
			t.Error("anonymous request must not carry an identity")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/portal/evidence/some-token", nil)
	rec := httptest.NewRecorder()

	Auth(validator)(handler).ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called anonymously")
	}
}
