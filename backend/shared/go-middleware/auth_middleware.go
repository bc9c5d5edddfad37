package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

type contextKey string

const ContextKeyUserID = contextKey("userID")

// AuthMiddleware – for protected endpoints. The JWT is read from
// Authorization: Bearer ...; a missing or invalid token returns 401.
func AuthMiddleware(pub *rsa.PublicKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractAccessToken(r)
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil,
				)
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

// UserIDFromContext returns the subject stored by the auth middlewares.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextKeyUserID).(string)
	return id, ok && id != ""
}

// authenticate validates tokenStr and writes the 401 itself on failure.
func authenticate(w http.ResponseWriter, tokenStr string, pub *rsa.PublicKey) (string, bool) {
	tok, vErr := ValidateToken(tokenStr, pub)
	if vErr != nil || !tok.Valid {
		if errors.Is(vErr, jwt.ErrTokenExpired) {
			utils.RespondErrorWithCode(
				w, http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token expired", nil, vErr,
			)
			return "", false
		}
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil, vErr,
		)
		return "", false
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid claims", nil,
		)
		return "", false
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing subject", nil,
		)
		return "", false
	}
	return sub, true
}

func extractAccessToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing Authorization header")
	}
	return strings.TrimPrefix(h, "Bearer "), nil
}
