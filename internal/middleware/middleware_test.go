package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sadhna-backend/internal/auth"
	"sadhna-backend/internal/config"
	"sadhna-backend/internal/models"
)

type userMap map[int]*models.User

func (m userMap) Get(_ context.Context, id int) (*models.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func setup(t *testing.T) (*AuthMiddleware, *auth.JWTManager, userMap) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test"
	jm := auth.NewJWTManager(cfg)
	users := userMap{
		1: {ID: 1, Username: "admin", Role: models.RoleAdmin},
		2: {ID: 2, Username: "ravi", Role: models.RoleWorker},
	}
	return NewAuthMiddleware(jm, users), jm, users
}

func tokenFor(t *testing.T, jm *auth.JWTManager, u *models.User) string {
	tok, err := jm.GenerateToken(u)
	require.NoError(t, err)
	return tok
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	role, _ := GetRoleFromContext(r.Context())
	w.Write([]byte(role))
}

func TestAuthenticateMissingToken(t *testing.T) {
	m, _, _ := setup(t)
	rec := httptest.NewRecorder()
	m.Authenticate(http.HandlerFunc(echoUser)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "No token")
}

func TestAuthenticateQueryToken(t *testing.T) {
	m, jm, users := setup(t)
	req := httptest.NewRequest(http.MethodGet, "/?token="+url.QueryEscape(tokenFor(t, jm, users[2])), nil)
	rec := httptest.NewRecorder()
	m.Authenticate(http.HandlerFunc(echoUser)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleWorker, rec.Body.String())
}

func TestRequireRoleUsesCurrentRole(t *testing.T) {
	m, jm, users := setup(t)
	tok := tokenFor(t, jm, users[2])
	h := m.RequireRole(models.RoleAdmin, models.RoleManager)(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// promoted after the token was issued
	users[2].Role = models.RoleManager
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleManager, rec.Body.String())
}

func TestDeletedUserTokenRejected(t *testing.T) {
	m, jm, users := setup(t)
	tok := tokenFor(t, jm, users[2])
	delete(users, 2)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	m.Authenticate(http.HandlerFunc(echoUser)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPanicRecoveryReturnsGenericMessage(t *testing.T) {
	h := PanicRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Something went wrong!"}`, rec.Body.String())
}

func TestSanitizeURLMasksToken(t *testing.T) {
	u, _ := url.Parse("/ws?token=abc.def&x=1")
	s := sanitizeURL(*u)
	assert.NotContains(t, s, "abc.def")
	assert.Contains(t, s, "x=1")
}
