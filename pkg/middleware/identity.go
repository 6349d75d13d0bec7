package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the current user, supplied by the trusted external caller via
// headers. There is no credential check; the service assumes a single trusted
// local user.
type Identity struct {
	UserID   string
	UserName string
}

// IdentityMiddleware reads X-User-ID and X-User-Name into the request
// context. Requests without a user id are rejected before reaching handlers.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			http.Error(w, "Missing X-User-ID header", http.StatusBadRequest)
			return
		}
		identity := &Identity{
			UserID:   userID,
			UserName: r.Header.Get("X-User-Name"),
		}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserFromContext returns the identity set by IdentityMiddleware, or nil.
func GetUserFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey).(*Identity)
	return identity
}
