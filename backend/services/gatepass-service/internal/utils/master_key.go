package utils

import (
	"fmt"
	"strings"

	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

// Master key role tags as printed in the code.
const (
	MasterTagTenant  = "TENANT"
	MasterTagGateman = "GATEMAN"
	MasterTagCoHost  = "COHOST"
)

// SetupData is a decoded master key: the role the scanning person takes on.
type SetupData struct {
	Role      models.RoleType `json:"role"`
	PremiseID string          `json:"premise_id"`
	UnitID    string          `json:"unit_id,omitempty"`
	AdminID   string          `json:"admin_id,omitempty"`
}

// EncodeMasterKey builds MASTER:<ROLE>:<premiseId>[:<unitId>[:<adminId>]].
// Parts that the role does not carry are ignored; parts it does carry
// must be non-empty and free of ':'.
func EncodeMasterKey(role models.RoleType, premiseID, unitID, adminID string) (string, error) {
	var parts []string
	switch role {
	case models.RoleTenantAdmin:
		parts = []string{MasterTagTenant, premiseID, unitID}
	case models.RoleGateman:
		parts = []string{MasterTagGateman, premiseID}
	case models.RoleStaff:
		parts = []string{MasterTagCoHost, premiseID, unitID, adminID}
	default:
		return "", fmt.Errorf("no master key for role %q: %w", role, utils.ErrMalformedCode)
	}
	for _, p := range parts[1:] {
		if p == "" || strings.Contains(p, ":") {
			return "", fmt.Errorf("master key part %q: %w", p, utils.ErrMalformedCode)
		}
	}
	return "MASTER:" + strings.Join(parts, ":"), nil
}

// DecodeMasterKey is the inverse of EncodeMasterKey. Any other tag, a wrong
// number of parts, or an empty part fails with ErrMalformedCode.
func DecodeMasterKey(code string) (SetupData, error) {
	parts := strings.Split(code, ":")
	if len(parts) < 2 || parts[0] != "MASTER" {
		return SetupData{}, fmt.Errorf("not a master key: %w", utils.ErrMalformedCode)
	}
	args := parts[2:]
	for _, a := range args {
		if a == "" {
			return SetupData{}, fmt.Errorf("empty master key part: %w", utils.ErrMalformedCode)
		}
	}

	switch parts[1] {
	case MasterTagTenant:
		if len(args) != 2 {
			break
		}
		return SetupData{Role: models.RoleTenantAdmin, PremiseID: args[0], UnitID: args[1]}, nil
	case MasterTagGateman:
		if len(args) != 1 {
			break
		}
		return SetupData{Role: models.RoleGateman, PremiseID: args[0]}, nil
	case MasterTagCoHost:
		if len(args) != 3 {
			break
		}
		return SetupData{Role: models.RoleStaff, PremiseID: args[0], UnitID: args[1], AdminID: args[2]}, nil
	}
	return SetupData{}, fmt.Errorf("master key %q: %w", parts[1], utils.ErrMalformedCode)
}
