// go-models/premise.go
package models

import (
	"slices"
	"time"
)

type PremiseType string

const (
	PremiseResidential PremiseType = "Residential"
	PremiseCommercial  PremiseType = "Commercial"
	PremiseMixed       PremiseType = "Mixed"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "Pending"
	VerificationVerified VerificationStatus = "Verified"
	VerificationRejected VerificationStatus = "Rejected"
)

// Premise is a managed building. Tenants lists the occupants of its
// occupied units; the occupied units themselves are kept on the same row
// as the vacancies so one row-version bump covers both halves of a
// vacant/occupied transition.
type Premise struct {
	Versioned

	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	BuildingManagerID  string             `json:"building_manager_id"`
	Type               PremiseType        `json:"type"`
	Address            string             `json:"address,omitempty"`
	City               string             `json:"city,omitempty"`
	Latitude           float64            `json:"latitude,omitempty"`
	Longitude          float64            `json:"longitude,omitempty"`
	TimeZone           string             `json:"timezone,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Tenants            []string           `json:"tenants"`
	Vacancies          []Unit             `json:"vacancies"`
	OccupiedUnits      []Unit             `json:"occupied_units"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func (p *Premise) GetID() string { return p.ID }

func (p *Premise) HasCoordinates() bool {
	return p.Latitude != 0 || p.Longitude != 0
}

func (p *Premise) HasTenant(personID string) bool {
	return slices.Contains(p.Tenants, personID)
}

// AddTenant appends personID to Tenants unless already present.
func (p *Premise) AddTenant(personID string) bool {
	if p.HasTenant(personID) {
		return false
	}
	p.Tenants = append(p.Tenants, personID)
	return true
}

func (p *Premise) RemoveTenant(personID string) bool {
	before := len(p.Tenants)
	p.Tenants = slices.DeleteFunc(p.Tenants, func(id string) bool { return id == personID })
	return len(p.Tenants) != before
}

// HasUnitNumber reports whether any unit, vacant or occupied, already uses number.
func (p *Premise) HasUnitNumber(number string) bool {
	for _, u := range p.Vacancies {
		if u.UnitNumber == number {
			return true
		}
	}
	for _, u := range p.OccupiedUnits {
		if u.UnitNumber == number {
			return true
		}
	}
	return false
}

func (p *Premise) FindVacancy(ref string) (int, bool) {
	i := slices.IndexFunc(p.Vacancies, func(u Unit) bool { return u.Matches(ref) })
	return i, i >= 0
}

func (p *Premise) FindOccupied(ref string) (int, bool) {
	i := slices.IndexFunc(p.OccupiedUnits, func(u Unit) bool { return u.Matches(ref) })
	return i, i >= 0
}

// TakeVacancy removes and returns the vacant unit named by ref.
func (p *Premise) TakeVacancy(ref string) (Unit, bool) {
	i, ok := p.FindVacancy(ref)
	if !ok {
		return Unit{}, false
	}
	u := p.Vacancies[i]
	p.Vacancies = slices.Delete(p.Vacancies, i, i+1)
	return u, true
}

// TakeOccupied removes and returns the occupied unit named by ref.
func (p *Premise) TakeOccupied(ref string) (Unit, bool) {
	i, ok := p.FindOccupied(ref)
	if !ok {
		return Unit{}, false
	}
	u := p.OccupiedUnits[i]
	p.OccupiedUnits = slices.Delete(p.OccupiedUnits, i, i+1)
	return u, true
}

// TakeOccupiedByTenant removes every occupied unit held by tenantID.
func (p *Premise) TakeOccupiedByTenant(tenantID string) []Unit {
	var taken []Unit
	p.OccupiedUnits = slices.DeleteFunc(p.OccupiedUnits, func(u Unit) bool {
		if u.TenantID == tenantID {
			taken = append(taken, u)
			return true
		}
		return false
	})
	return taken
}

// TenantHoldsUnit reports whether tenantID still occupies any unit here.
func (p *Premise) TenantHoldsUnit(tenantID string) bool {
	return slices.ContainsFunc(p.OccupiedUnits, func(u Unit) bool { return u.TenantID == tenantID })
}

func (p *Premise) Clone() *Premise {
	if p == nil {
		return nil
	}
	c := *p
	c.Tenants = slices.Clone(p.Tenants)
	c.Vacancies = make([]Unit, len(p.Vacancies))
	for i, u := range p.Vacancies {
		c.Vacancies[i] = u.Clone()
	}
	c.OccupiedUnits = make([]Unit, len(p.OccupiedUnits))
	for i, u := range p.OccupiedUnits {
		c.OccupiedUnits[i] = u.Clone()
	}
	return &c
}
