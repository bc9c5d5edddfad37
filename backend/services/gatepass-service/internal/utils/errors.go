package utils

import "errors"

// Errors specific to gatepass-service.
var (
	// A MASTER: code reached the verification path; it must be redeemed instead.
	ErrSetupCode = errors.New("setup_code")
	// A PREMISE: code reached the verification path; it is for browsing.
	ErrNotAccessCode      = errors.New("not_access_code")
	ErrMasterKeyConsumed  = errors.New("master_key_consumed")
	ErrScannerOutOfBounds = errors.New("scanner_out_of_bounds")

	ErrInvalidExpiry         = errors.New("invalid_expiry")
	ErrActingPremiseRequired = errors.New("acting_premise_required")
)
