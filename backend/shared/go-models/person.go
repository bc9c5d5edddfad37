// go-models/person.go
package models

import (
	"slices"
	"time"
)

// RoleType is the structural role a person holds against a premise.
// An empty role is a plain marketplace user.
type RoleType string

const (
	RoleNone            RoleType = ""
	RoleTenantAdmin     RoleType = "TenantAdmin"
	RoleStaff           RoleType = "Staff"
	RoleGateman         RoleType = "Gateman"
	RoleBuildingManager RoleType = "BuildingManager"
)

func (r RoleType) Valid() bool {
	switch r {
	case RoleNone, RoleTenantAdmin, RoleStaff, RoleGateman, RoleBuildingManager:
		return true
	}
	return false
}

// Person is anyone known to the system: visitors, tenants, co-hosts,
// gatemen and building managers.
type Person struct {
	Versioned

	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	Role        RoleType  `json:"role,omitempty"`
	PremiseID   string    `json:"premise_id,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	Floor       string    `json:"floor,omitempty"`
	UnitDetails *Unit     `json:"unit_details,omitempty"`
	TenantID    string    `json:"tenant_id,omitempty"` // co-host -> admin back-reference
	CoHosts     []string  `json:"co_hosts,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Person) GetID() string { return p.ID }

// AddCoHost appends id to CoHosts unless it is already present.
func (p *Person) AddCoHost(id string) bool {
	if slices.Contains(p.CoHosts, id) {
		return false
	}
	p.CoHosts = append(p.CoHosts, id)
	return true
}

func (p *Person) RemoveCoHost(id string) bool {
	before := len(p.CoHosts)
	p.CoHosts = slices.DeleteFunc(p.CoHosts, func(c string) bool { return c == id })
	return len(p.CoHosts) != before
}

// ClearRole drops every premise affiliation from the person.
func (p *Person) ClearRole() {
	p.Role = RoleNone
	p.PremiseID = ""
	p.Unit = ""
	p.Floor = ""
	p.UnitDetails = nil
	p.CoHosts = nil
}

// Clone returns a deep copy so callers can mutate without touching
// a stored record.
func (p *Person) Clone() *Person {
	if p == nil {
		return nil
	}
	c := *p
	c.CoHosts = slices.Clone(p.CoHosts)
	if p.UnitDetails != nil {
		u := p.UnitDetails.Clone()
		c.UnitDetails = &u
	}
	return &c
}
