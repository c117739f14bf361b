package middleware

import (
	"context"
	"net/http"
	"strings"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/user"
	"admitdesk/internal/http/response"
	"admitdesk/internal/security"
)

type contextKey string

const (
	ContextUIDKey  contextKey = "uid"
	ContextRoleKey contextKey = "role"
)

// AuthMiddleware resolves the caller from a bearer token. The token only
// proves the uid; the role is loaded from the users table on every request so
// nothing the client sends can elevate privilege.
type AuthMiddleware struct {
	jwt   *security.JWTProvider
	users user.Repository
}

func NewAuthMiddleware(jwt *security.JWTProvider, users user.Repository) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil))
			return
		}
		claims, err := m.jwt.Parse(parts[1])
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", err))
			return
		}
		if claims.UID == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", nil))
			return
		}
		account, err := m.users.GetByUID(r.Context(), claims.UID)
		if err != nil {
			if common.Is(err, common.CodeNotFound) {
				response.Error(w, common.NewError(common.CodeUnauthorized, "unknown account", nil))
				return
			}
			response.Error(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), ContextUIDKey, account.UID)
		ctx = context.WithValue(ctx, ContextRoleKey, account.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := RoleFromContext(r.Context())
		if !ok || role != user.RoleAdmin {
			response.Error(w, common.NewError(common.CodeForbidden, "admin only", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func UIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(ContextUIDKey).(string)
	return uid, ok
}

func RoleFromContext(ctx context.Context) (user.Role, bool) {
	role, ok := ctx.Value(ContextRoleKey).(user.Role)
	return role, ok
}
