package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/constants"
	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
	shared_dtos "github.com/noid254/Qaribu-sub000/backend/shared/go-dtos"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-middleware"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

var validate = validator.New()

// formatValidationErrors converts validator errors into a user-friendly format.
func formatValidationErrors(errs validator.ValidationErrors) []shared_dtos.ValidationErrorDetail {
	details := make([]shared_dtos.ValidationErrorDetail, 0, len(errs))
	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field '%s' is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field '%s' must be a valid email address", err.Field())
		case "e164":
			message = fmt.Sprintf("Field '%s' must be a phone number in international format, e.g. +254712345678", err.Field())
		case "min":
			message = fmt.Sprintf("Field '%s' must be at least %s in length", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("Field '%s' must not exceed %s in length", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("Field '%s' must be one of [%s]", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag())
		}
		details = append(details, shared_dtos.ValidationErrorDetail{
			Field:   err.Field(),
			Message: message,
			Code:    "validation_" + err.Tag(),
		})
	}
	return details
}

// decodeAndValidate reads a JSON body into req and validates it, writing
// the 400 itself when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	if err := validate.Struct(req); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", formatValidationErrors(vErrs), err)
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		}
		return false
	}
	return true
}

// requireUserID returns the authenticated caller or writes a 401.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil, nil)
		return "", false
	}
	return id, true
}

/*
toAppError maps a service error onto the HTTP status and error code the
client sees. Anything unrecognised is a 500 carrying fallbackMsg.
*/
func toAppError(err error, fallbackMsg string) *utils.AppError {
	appErr := func(status int, code, msg string) *utils.AppError {
		return &utils.AppError{StatusCode: status, Code: code, Message: msg, Err: err}
	}
	switch {
	case errors.Is(err, internal_utils.ErrScannerOutOfBounds):
		return appErr(http.StatusForbidden, internal_utils.ErrCodeLocationOutOfBounds, "Scanner is too far from the premise")
	case errors.Is(err, internal_utils.ErrSetupCode):
		return appErr(http.StatusBadRequest, internal_utils.ErrCodeSetupCode, "This is a setup code; scan it to join the premise")
	case errors.Is(err, internal_utils.ErrNotAccessCode):
		return appErr(http.StatusBadRequest, internal_utils.ErrCodeNotAccessCode, "This is a premise code, not an access code")
	case errors.Is(err, internal_utils.ErrMasterKeyConsumed):
		return appErr(http.StatusGone, utils.ErrCodeMasterKeyConsumed, "This key has already been used or has expired")
	case errors.Is(err, internal_utils.ErrActingPremiseRequired):
		return appErr(http.StatusBadRequest, utils.ErrCodeValidation, "premise_id is required to verify an access code")
	case errors.Is(err, internal_utils.ErrInvalidExpiry):
		return appErr(http.StatusBadRequest, internal_utils.ErrCodeInvalidExpiry, "expires_at must be in the future")
	case errors.Is(err, utils.ErrMalformedCode), errors.Is(err, utils.ErrMismatch):
		return appErr(http.StatusBadRequest, utils.ErrCodeMalformedCode, "Malformed code")
	case errors.Is(err, utils.ErrInvalidPhone):
		return appErr(http.StatusBadRequest, utils.ErrCodeValidation, "Invalid phone number")
	case utils.IsNotFound(err):
		return appErr(http.StatusNotFound, utils.ErrCodeNotFound, "Not found")
	case errors.Is(err, utils.ErrForbidden):
		return appErr(http.StatusForbidden, utils.ErrCodeForbidden, "You are not allowed to do that")
	case errors.Is(err, utils.ErrInvalidTransition):
		return appErr(http.StatusConflict, utils.ErrCodeInvalidTransition, "That change is not allowed in the current state")
	case errors.Is(err, utils.ErrRowVersionConflict):
		return appErr(http.StatusConflict, utils.ErrCodeRowVersionConflict, constants.ErrMsgRowVersionConflictRefresh)
	case errors.Is(err, utils.ErrConflict):
		return appErr(http.StatusConflict, utils.ErrCodeConflict, "Already exists")
	case errors.Is(err, utils.ErrExternalServiceFailure):
		return appErr(http.StatusBadGateway, utils.ErrCodeExternalServiceFailure, "An upstream service failed")
	default:
		return appErr(http.StatusInternalServerError, utils.ErrCodeInternal, fallbackMsg)
	}
}

func respondServiceError(w http.ResponseWriter, err error, fallbackMsg string) {
	utils.HandleAppError(w, toAppError(err, fallbackMsg))
}
