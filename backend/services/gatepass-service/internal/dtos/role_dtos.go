package dtos

import "github.com/noid254/Qaribu-sub000/backend/shared/go-models"

// AssignRoleRequest links a person to a premise. Either Code (a scanned
// MASTER: key) or the explicit setup fields must be given.
type AssignRoleRequest struct {
	PersonID string `json:"person_id" validate:"required"`

	Code string `json:"code,omitempty"`

	Role      models.RoleType `json:"role,omitempty" validate:"omitempty,oneof=TenantAdmin Staff Gateman"`
	PremiseID string          `json:"premise_id,omitempty"`
	UnitID    string          `json:"unit_id,omitempty"`
	AdminID   string          `json:"admin_id,omitempty"`

	Floor       string       `json:"floor,omitempty"`
	UnitDetails *models.Unit `json:"unit_details,omitempty"`
}

type RevokeRoleRequest struct {
	PersonID  string       `json:"person_id" validate:"required"`
	PremiseID string       `json:"premise_id" validate:"required"`
	Vacancy   *UnitRequest `json:"vacancy,omitempty"`
}
