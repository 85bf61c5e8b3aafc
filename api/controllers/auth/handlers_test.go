package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/wholesale-backend/api/middleware"
	"github.com/angelmondragon/wholesale-backend/internal/auth"
	pkgAuth "github.com/angelmondragon/wholesale-backend/pkg/auth"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
)

type stubAuthService struct {
	register func(auth.RegisterRequest) (*auth.TokenResponse, error)
	login    func(auth.LoginRequest) (*auth.TokenResponse, error)
	refresh  func(auth.RefreshRequest) (*auth.TokenResponse, error)

	loggedOutUser   uuid.UUID
	loggedOutAccess string
}

func (s *stubAuthService) Register(_ context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error) {
	return s.register(req)
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	return s.login(req)
}

func (s *stubAuthService) Refresh(_ context.Context, req auth.RefreshRequest) (*auth.TokenResponse, error) {
	return s.refresh(req)
}

func (s *stubAuthService) Logout(_ context.Context, userID uuid.UUID, accessID string) error {
	s.loggedOutUser = userID
	s.loggedOutAccess = accessID
	return nil
}

func TestRegisterReturnsCreated(t *testing.T) {
	svc := &stubAuthService{register: func(req auth.RegisterRequest) (*auth.TokenResponse, error) {
		assert.Equal(t, "ana@example.com", req.Email)
		return &auth.TokenResponse{AccessToken: "a", RefreshToken: "r"}, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"name":"Ana","email":"ana@example.com","password":"secret1"}`))
	resp := httptest.NewRecorder()
	Register(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	var body struct {
		Data auth.TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "a", body.Data.AccessToken)
	assert.Equal(t, "r", body.Data.RefreshToken)
}

func TestRegisterValidatesBody(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"name":"Ana","email":"not-an-email","password":"123"}`))
	resp := httptest.NewRecorder()
	Register(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), `"email":"must be a valid email"`)
	assert.Contains(t, resp.Body.String(), `"password":"must be at least 6"`)
}

func TestLoginMapsUnauthorized(t *testing.T) {
	svc := &stubAuthService{login: func(auth.LoginRequest) (*auth.TokenResponse, error) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(`{"email":"ana@example.com","password":"wrong"}`))
	resp := httptest.NewRecorder()
	Login(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid email or password")
}

func TestRefreshPassesTokens(t *testing.T) {
	svc := &stubAuthService{refresh: func(req auth.RefreshRequest) (*auth.TokenResponse, error) {
		assert.Equal(t, "old-access", req.AccessToken)
		assert.Equal(t, "old-refresh", req.RefreshToken)
		return &auth.TokenResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/users/refresh", strings.NewReader(`{"accessToken":"old-access","refreshToken":"old-refresh"}`))
	resp := httptest.NewRecorder()
	Refresh(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "new-refresh")
}

func TestLogoutRevokesCurrentSession(t *testing.T) {
	svc := &stubAuthService{}
	claims := &pkgAuth.AccessTokenClaims{UserID: uuid.New(), Role: enums.UserRoleUser}
	claims.ID = "access-123"

	req := httptest.NewRequest(http.MethodPost, "/api/users/logout", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	resp := httptest.NewRecorder()
	Logout(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, claims.UserID, svc.loggedOutUser)
	assert.Equal(t, "access-123", svc.loggedOutAccess)
}

func TestLogoutWithoutIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/users/logout", nil)
	resp := httptest.NewRecorder()
	Logout(&stubAuthService{}, nil).ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
