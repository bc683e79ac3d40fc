package http

import (
	"context"
	"net/http"
)

type contextKey struct{ name string }

var ownerContextKey = &contextKey{"owner"}

// AuthMiddleware resolves the auth-token header to a user and stores the
// owner login in the request context. Requests without a valid token are
// rejected with 401 before reaching the handler.
func AuthMiddleware(auth AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.ResolveUser(r.Context(), r.Header.Get("auth-token"))
			if err != nil {
				WriteError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ownerContextKey, user.Login)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerFromContext returns the owner login stored by AuthMiddleware.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ownerContextKey).(string)
	return owner, ok
}
