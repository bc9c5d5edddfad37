package dtos

import (
	"time"

	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
)

// CreatePassRequest is a visitor pass request. HostID defaults to the
// caller; ExpiresAt defaults to 24 hours from now.
type CreatePassRequest struct {
	PremiseID      string             `json:"premise_id" validate:"required"`
	TenantID       string             `json:"tenant_id,omitempty"`
	HostID         string             `json:"host_id,omitempty"`
	HostName       string             `json:"host_name,omitempty"`
	VisitorName    string             `json:"visitor_name" validate:"required,max=120"`
	VisitorPhone   string             `json:"visitor_phone" validate:"required,e164"`
	VisitorPurpose *string            `json:"visitor_purpose,omitempty" validate:"omitempty,max=200"`
	ExpiresAt      *time.Time         `json:"expires_at,omitempty"`
	RequestType    models.RequestType `json:"request_type,omitempty" validate:"omitempty,oneof=Direct Mediated"`
	AccessCode     string             `json:"access_code,omitempty" validate:"omitempty,len=6,numeric"`
	TargetUnit     string             `json:"target_unit,omitempty"`
	IdempotencyKey string             `json:"idempotency_key,omitempty" validate:"omitempty,max=128"`
}

type UpdatePassStatusRequest struct {
	Status models.PassStatus `json:"status" validate:"required,oneof=Pending Approved CheckedIn Rejected Expired"`
}

type ListPassesResponse struct {
	Passes []*models.AccessRequest `json:"passes"`
}
