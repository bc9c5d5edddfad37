package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sdk "github.com/bitwarden/sdk-go"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsE164(t *testing.T) {
	assert.True(t, IsE164("+254712345678"))
	assert.True(t, IsE164("+15550000000"))
	assert.False(t, IsE164("0712345678"))
	assert.False(t, IsE164("+0712345678"))
	assert.False(t, IsE164("+2547"))
	assert.False(t, IsE164("+254 712 345 678"))
}

func TestPhoneTail(t *testing.T) {
	assert.Equal(t, "712345678", PhoneTail("+254712345678"))
	assert.Equal(t, "712345678", PhoneTail("0712 345 678"))
	assert.Equal(t, "12345", PhoneTail("12-345"))
	assert.Equal(t, "254712345678", DigitsOnly("+254 (712) 345-678"))
}

func TestValidatePhoneNumberWithoutTwilio(t *testing.T) {
	ok, err := ValidatePhoneNumber(context.Background(), "+254712345678", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ValidatePhoneNumber(context.Background(), "not-a-phone", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWithIsolatedRole(t *testing.T) {
	out, err := WithIsolatedRole("postgres://app:secret@db:5432/gatepass?sslmode=disable", "Runner7", "42")
	require.NoError(t, err)
	assert.Equal(t, "postgres://runner7-42:secret@db:5432/gatepass?sslmode=disable", out)

	_, err = WithIsolatedRole("postgres://db/x", "", "1")
	assert.Error(t, err)
	_, err = WithIsolatedRole("://bad", "r", "1")
	assert.Error(t, err)
}

func TestHashTokenIsStable(t *testing.T) {
	a := HashToken("MASTER:abc")
	assert.Equal(t, a, HashToken("MASTER:abc"))
	assert.NotEqual(t, a, HashToken("MASTER:abd"))
	assert.NotContains(t, a, "MASTER")
}

func TestRandomNumericString(t *testing.T) {
	s := RandomNumericString(6)
	assert.Len(t, s, 6)
	assert.Equal(t, s, DigitsOnly(s))
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", ErrNotFound)))
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.False(t, IsNotFound(ErrConflict))

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("dup: %w", ErrConflict)))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}

func TestHandleAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleAppError(rec, &AppError{StatusCode: http.StatusConflict, Code: ErrCodeConflict, Message: "Already exists", Err: ErrConflict})
	require.Equal(t, http.StatusConflict, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeConflict, body.Code)
	assert.Equal(t, "Already exists", body.Message)

	rec = httptest.NewRecorder()
	HandleAppError(rec, errors.New("plain"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPtrVal(t *testing.T) {
	assert.Equal(t, 3, *Ptr(3))
	assert.Equal(t, "", Val[string](nil))
	assert.Equal(t, "x", Val(Ptr("x")))
}

func TestProjectSecrets(t *testing.T) {
	gate, other := "proj-gate", "proj-other"
	secrets := []sdk.SecretResponse{
		{Key: "DB_URL", Value: "postgres://gate", ProjectID: &gate},
		{Key: "DB_URL", Value: "postgres://other", ProjectID: &other},
		{Key: "ORPHAN", Value: "x"},
		{Key: "LD_SDK_KEY", Value: "sdk-123", ProjectID: &gate},
	}
	assert.Equal(t, map[string]string{
		"DB_URL":     "postgres://gate",
		"LD_SDK_KEY": "sdk-123",
	}, projectSecrets(secrets, gate))
	assert.Empty(t, projectSecrets(secrets, "missing"))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, isRateLimited(errors.New("API error: 429")))
	assert.True(t, isRateLimited(errors.New("Too Many Requests")))
	assert.False(t, isRateLimited(errors.New("invalid access token")))
}
