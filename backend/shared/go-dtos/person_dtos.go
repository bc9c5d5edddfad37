package dtos

import (
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
)

// Person is the public shape of a person returned by GET endpoints.
type Person struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email,omitempty"`
	Role        models.RoleType `json:"role,omitempty"`
	PremiseID   string          `json:"premise_id,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Floor       string          `json:"floor,omitempty"`
	UnitDetails *models.Unit    `json:"unit_details,omitempty"`
	TenantID    string          `json:"tenant_id,omitempty"`
	CoHosts     []string        `json:"co_hosts,omitempty"`
	RowVersion  int64           `json:"row_version"`
}

func NewPersonFromModel(p *models.Person) Person {
	return Person{
		ID:          p.ID,
		Name:        p.Name,
		Phone:       p.Phone,
		Email:       p.Email,
		Role:        p.Role,
		PremiseID:   p.PremiseID,
		Unit:        p.Unit,
		Floor:       p.Floor,
		UnitDetails: p.UnitDetails,
		TenantID:    p.TenantID,
		CoHosts:     p.CoHosts,
		RowVersion:  p.RowVersion,
	}
}

func NewPersonsFromModels(ps []*models.Person) []Person {
	out := make([]Person, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewPersonFromModel(p))
	}
	return out
}
