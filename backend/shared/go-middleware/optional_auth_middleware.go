package middleware

import (
	"context"
	"crypto/rsa"
	"net/http"
)

// OptionalAuthMiddleware is identical to AuthMiddleware
// except that it lets the request through if *no* token is present.
func OptionalAuthMiddleware(pub *rsa.PublicKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, _ := extractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r) // unauthenticated – allowed
				return
			}

			sub, ok := authenticate(w, tokenStr, pub)
			if !ok {
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyUserID, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
