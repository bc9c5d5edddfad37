package routes

const (
	// Health
	Health = "/health"

	// Persons
	Persons    = "/api/v1/persons"
	PersonsMe  = "/api/v1/persons/me"
	PersonByID = "/api/v1/persons/{personId}"

	// Premises and units
	Premises          = "/api/v1/premises"
	PremiseByID       = "/api/v1/premises/{premiseId}"
	PremiseUnits      = "/api/v1/premises/{premiseId}/units"
	PremiseUnitByID   = "/api/v1/premises/{premiseId}/units/{unitId}"
	PremiseUnitOccupy = "/api/v1/premises/{premiseId}/units/{unitId}/occupy"
	PremiseUnitVacate = "/api/v1/premises/{premiseId}/units/{unitId}/vacate"
	PremiseMasterKeys = "/api/v1/premises/{premiseId}/master-keys"

	// Gate activity and shift reports
	PremiseActivity     = "/api/v1/premises/{premiseId}/activity"
	PremiseShiftReports = "/api/v1/premises/{premiseId}/shift-reports"

	// Roles
	RolesAssign = "/api/v1/roles/assign"
	RolesRevoke = "/api/v1/roles/revoke"

	// Passes
	Passes     = "/api/v1/passes"
	PassByID   = "/api/v1/passes/{passId}"
	PassStatus = "/api/v1/passes/{passId}/status"

	// Gate
	AccessVerify = "/api/v1/access/verify"
	Scan         = "/api/v1/scan"
)
