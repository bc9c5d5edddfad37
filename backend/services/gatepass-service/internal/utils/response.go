package utils

// Error codes specific to gatepass-service only.
const (
	ErrCodeSetupCode           = "setup_code"
	ErrCodeNotAccessCode       = "not_access_code"
	ErrCodeLocationOutOfBounds = "location_out_of_bounds"
	ErrCodeInvalidExpiry       = "invalid_expiry"
)
