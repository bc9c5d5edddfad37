package dtos

import (
	"time"

	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
)

type IssueMasterKeyRequest struct {
	Role    models.RoleType `json:"role" validate:"required,oneof=TenantAdmin Staff Gateman"`
	UnitID  string          `json:"unit_id,omitempty"`
	AdminID string          `json:"admin_id,omitempty"`
}

type IssueMasterKeyResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
