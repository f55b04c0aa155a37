package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/mohdfaziel/InnerPath/internal/token"
)

// unexported, collision-proof context key
type userIDContextKeyType struct{}

var userIDKey = userIDContextKeyType{}

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// WithUserID returns a context carrying an authenticated user ID.
// Exposed for tests that exercise handlers below the middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

type AuthMiddleware struct {
	Store token.Store
}

func NewAuthMiddleware(store token.Store) *AuthMiddleware {
	return &AuthMiddleware{Store: store}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Read bearer token
		id := token.FromRequest(r)
		if id == "" {
			unauthorized(w)
			return
		}

		// 2. Load token record
		t, err := a.Store.Get(r.Context(), id)
		if err != nil || t == nil {
			unauthorized(w)
			return
		}

		// 3. Enforce expiry; revoke expired tokens on sight
		if time.Now().After(t.ExpiresAt) {
			_ = a.Store.Delete(r.Context(), id)
			unauthorized(w)
			return
		}

		// 4. Attach user_id to context
		ctx := context.WithValue(r.Context(), userIDKey, t.UserID)

		// 5. Continue request
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
}
