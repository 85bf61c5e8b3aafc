package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/wholesale-backend/pkg/auth"
	"github.com/angelmondragon/wholesale-backend/pkg/auth/session"
	"github.com/angelmondragon/wholesale-backend/pkg/config"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "wholesale", ExpirationMinutes: 60}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp := httptest.NewRecorder()
	Auth(testJWT, stubSessionVerifier{ok: true}, nil)(okHandler()).ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	Auth(testJWT, stubSessionVerifier{ok: true}, nil)(okHandler()).ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token, _ := mintTestToken(t, enums.UserRoleUser, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	Auth(testJWT, stubSessionVerifier{ok: false}, nil)(okHandler()).ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthSessionStoreFailure(t *testing.T) {
	token, _ := mintTestToken(t, enums.UserRoleUser, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	Auth(testJWT, stubSessionVerifier{err: errors.New("redis down")}, nil)(okHandler()).ServeHTTP(resp, req)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestAuthSeedsContext(t *testing.T) {
	token, payload := mintTestToken(t, enums.UserRoleManager, []string{"reports:read"})

	var captured struct {
		user     string
		role     string
		accessID string
		perms    []string
	}
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.user = UserIDFromContext(r.Context())
		captured.role = RoleFromContext(r.Context())
		captured.accessID = AccessIDFromContext(r.Context())
		if claims, ok := ClaimsFromContext(r.Context()); ok {
			captured.perms = claims.Permissions
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, payload.UserID.String(), captured.user)
	assert.Equal(t, "manager", captured.role)
	assert.Equal(t, payload.JTI, captured.accessID)
	assert.Equal(t, []string{"reports:read"}, captured.perms)
}

func TestBearerTokenAcceptsBareToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "  abc.def.ghi ")
	assert.Equal(t, "abc.def.ghi", BearerToken(req))
}

func mintTestToken(t *testing.T, role enums.UserRole, permissions []string) (string, auth.AccessTokenPayload) {
	t.Helper()
	payload := auth.AccessTokenPayload{
		UserID:      uuid.New(),
		Role:        role,
		Permissions: permissions,
		JTI:         session.NewAccessID(),
	}
	token, err := auth.MintAccessToken(testJWT, time.Now(), payload)
	require.NoError(t, err)
	return token, payload
}

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) HasSession(ctx context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.ok, nil
}
