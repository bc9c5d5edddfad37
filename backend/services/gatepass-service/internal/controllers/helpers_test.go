package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v4"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-middleware"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAppError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{internal_utils.ErrScannerOutOfBounds, http.StatusForbidden, internal_utils.ErrCodeLocationOutOfBounds},
		{internal_utils.ErrSetupCode, http.StatusBadRequest, internal_utils.ErrCodeSetupCode},
		{internal_utils.ErrNotAccessCode, http.StatusBadRequest, internal_utils.ErrCodeNotAccessCode},
		{internal_utils.ErrMasterKeyConsumed, http.StatusGone, utils.ErrCodeMasterKeyConsumed},
		{internal_utils.ErrActingPremiseRequired, http.StatusBadRequest, utils.ErrCodeValidation},
		{internal_utils.ErrInvalidExpiry, http.StatusBadRequest, internal_utils.ErrCodeInvalidExpiry},
		{utils.ErrMalformedCode, http.StatusBadRequest, utils.ErrCodeMalformedCode},
		{utils.ErrMismatch, http.StatusBadRequest, utils.ErrCodeMalformedCode},
		{utils.ErrInvalidPhone, http.StatusBadRequest, utils.ErrCodeValidation},
		{utils.ErrNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
		{pgx.ErrNoRows, http.StatusNotFound, utils.ErrCodeNotFound},
		{utils.ErrForbidden, http.StatusForbidden, utils.ErrCodeForbidden},
		{utils.ErrInvalidTransition, http.StatusConflict, utils.ErrCodeInvalidTransition},
		{utils.ErrRowVersionConflict, http.StatusConflict, utils.ErrCodeRowVersionConflict},
		{utils.ErrConflict, http.StatusConflict, utils.ErrCodeConflict},
		{utils.ErrExternalServiceFailure, http.StatusBadGateway, utils.ErrCodeExternalServiceFailure},
		{errors.New("disk on fire"), http.StatusInternalServerError, utils.ErrCodeInternal},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("doing a thing: %w", tc.err)
		appErr := toAppError(wrapped, "fallback")
		assert.Equal(t, tc.status, appErr.StatusCode, tc.err.Error())
		assert.Equal(t, tc.code, appErr.Code, tc.err.Error())
		assert.ErrorIs(t, appErr.Err, tc.err)
	}

	assert.Equal(t, "fallback", toAppError(errors.New("x"), "fallback").Message)
}

func TestRespondServiceErrorWritesBody(t *testing.T) {
	rr := httptest.NewRecorder()
	respondServiceError(rr, fmt.Errorf("pass %q: %w", "x", utils.ErrNotFound), "Could not load pass")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, utils.ErrCodeNotFound, body.Code)
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("BadJSON", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
		var req dtos.VerifyRequest
		assert.False(t, decodeAndValidate(rr, r, &req))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), utils.ErrCodeInvalidPayload)
	})

	t.Run("MissingField", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"123456"}`))
		var req dtos.VerifyRequest
		assert.False(t, decodeAndValidate(rr, r, &req))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Field 'PremiseID' is required")
	})

	t.Run("BadPhone", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Juma","phone":"0712"}`))
		var req dtos.CreatePersonRequest
		assert.False(t, decodeAndValidate(rr, r, &req))
		assert.Contains(t, rr.Body.String(), "validation_e164")
	})

	t.Run("OK", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"123456","premise_id":"p1"}`))
		var req dtos.VerifyRequest
		require.True(t, decodeAndValidate(rr, r, &req))
		assert.Equal(t, "p1", req.PremiseID)
	})
}

func TestRequireUserID(t *testing.T) {
	rr := httptest.NewRecorder()
	_, ok := requireUserID(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUserID, "5"))
	rr = httptest.NewRecorder()
	id, ok := requireUserID(rr, r)
	assert.True(t, ok)
	assert.Equal(t, "5", id)
}
