package testhelpers

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-middleware"
	"github.com/stretchr/testify/require"
)

// CreateJWT signs a 15 minute access token for userID.
func (h *TestHelper) CreateJWT(userID string) string {
	return h.signJWT(userID, time.Now(), 15*time.Minute)
}

// CreateExpiredJWT signs a token that expired a minute ago.
func (h *TestHelper) CreateExpiredJWT(userID string) string {
	return h.signJWT(userID, time.Now().Add(-16*time.Minute), 15*time.Minute)
}

func (h *TestHelper) signJWT(userID string, issued time.Time, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"iss": middleware.TokenIssuer,
		"sub": userID,
		"iat": issued.Unix(),
		"exp": issued.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(h.PrivateKey)
	require.NoError(h.T, err, "Failed to sign test JWT")
	return signed
}
