package dtos

import "github.com/noid254/Qaribu-sub000/backend/shared/go-models"

// VerifyRequest is a gate scan against an explicit acting premise.
// Lat/Lng are the scanning device's position, when it has one.
type VerifyRequest struct {
	Code      string   `json:"code" validate:"required"`
	PremiseID string   `json:"premise_id" validate:"required"`
	CheckIn   bool     `json:"check_in,omitempty"`
	Lat       *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng       *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
}

// ScanRequest is any scanned payload. PremiseID is required only when the
// code turns out to be an access code.
type ScanRequest struct {
	Code      string   `json:"code" validate:"required"`
	PremiseID string   `json:"premise_id,omitempty"`
	CheckIn   bool     `json:"check_in,omitempty"`
	Lat       *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng       *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
}

// ScanResponse carries exactly one of Decision, Person (role assigned) or
// Premise (browse / welcome back), selected by Kind.
type ScanResponse struct {
	Kind        string                 `json:"kind"`
	Message     string                 `json:"message,omitempty"`
	Decision    *models.AccessDecision `json:"decision,omitempty"`
	Person      *models.Person         `json:"person,omitempty"`
	Premise     *models.Premise        `json:"premise,omitempty"`
	Pass        *models.AccessRequest  `json:"pass,omitempty"`
	WelcomeBack bool                   `json:"welcome_back,omitempty"`
}
