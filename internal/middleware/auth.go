package middleware

import (
	"context"
	"net/http"
	"strings"

	"sadhna-backend/internal/auth"
	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/models"
	"sadhna-backend/pkg/utils"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
	RoleKey     contextKey = "role"
)

// UserLookup reloads the caller on every request so role changes apply
// without waiting for the token to expire.
type UserLookup interface {
	Get(ctx context.Context, id int) (*models.User, error)
}

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      UserLookup
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, users: users}
}

// TokenFromRequest takes the bearer token from the Authorization header, or
// the token query parameter for links opened directly in a browser.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// Identify resolves a raw token to the current user record.
func (m *AuthMiddleware) Identify(ctx context.Context, token string) (*models.User, error) {
	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return m.users.Get(ctx, claims.UserID)
}

// Authenticate rejects requests without a valid token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// RequireRole authenticates and then checks the caller's current role.
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := m.authenticate(w, r)
			if !ok {
				return
			}
			if !hasRole(user.Role, allowedRoles) {
				logger.FromContext(r.Context()).Warnf("[Auth] %s (%s) denied %s %s", user.Username, user.Role, r.Method, r.URL.Path)
				utils.Error(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	token := TokenFromRequest(r)
	if token == "" {
		utils.Error(w, http.StatusUnauthorized, "No token, authorization denied")
		return nil, false
	}
	user, err := m.Identify(r.Context(), token)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Token is not valid")
		return nil, false
	}
	return user, true
}

func hasRole(role string, allowed []string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

func withUser(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, user.ID)
	ctx = context.WithValue(ctx, UsernameKey, user.Username)
	ctx = context.WithValue(ctx, RoleKey, user.Role)
	return logger.ContextWithIdentity(ctx, user.Username)
}

// GetUserIDFromContext extracts user ID from request context
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}

// GetRoleFromContext extracts role from request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(UsernameKey).(string)
	return name, ok
}
