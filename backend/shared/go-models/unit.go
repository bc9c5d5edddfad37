// go-models/unit.go
package models

import "slices"

type UnitType string

const (
	UnitTypeResidential UnitType = "Residential"
	UnitTypeCommercial  UnitType = "Commercial"
	UnitTypeShop        UnitType = "Shop"
	UnitTypeWarehouse   UnitType = "Warehouse"
	UnitTypeGate        UnitType = "Gate"
)

type UnitStatus string

const (
	UnitStatusOccupied UnitStatus = "Occupied"
	UnitStatusVacant   UnitStatus = "Vacant"
)

type ListingType string

const (
	ListingRent      ListingType = "Rent"
	ListingSale      ListingType = "Sale"
	ListingShortStay ListingType = "ShortStay"
)

// Unit is a leasable or sellable space inside a premise. A unit lives in
// exactly one of the premise's Vacancies or OccupiedUnits lists.
type Unit struct {
	ID            string      `json:"id"`
	UnitNumber    string      `json:"unit_number"`
	Floor         string      `json:"floor,omitempty"`
	Type          UnitType    `json:"type,omitempty"`
	Status        UnitStatus  `json:"status"`
	Configuration string      `json:"configuration,omitempty"`
	RentAmount    *float64    `json:"rent_amount,omitempty"`
	RentPeriod    string      `json:"rent_period,omitempty"`
	ListingType   ListingType `json:"listing_type,omitempty"`
	Bedrooms      *int        `json:"bedrooms,omitempty"`
	Bathrooms     *int        `json:"bathrooms,omitempty"`
	Size          string      `json:"size,omitempty"`
	Amenities     []string    `json:"amenities,omitempty"`
	Images        []string    `json:"images,omitempty"`
	TenantID      string      `json:"tenant_id,omitempty"`
	TenantName    string      `json:"tenant_name,omitempty"`
}

// Matches reports whether ref names this unit by id or by unit number.
func (u *Unit) Matches(ref string) bool {
	return ref != "" && (u.ID == ref || u.UnitNumber == ref)
}

func (u Unit) Clone() Unit {
	c := u
	c.Amenities = slices.Clone(u.Amenities)
	c.Images = slices.Clone(u.Images)
	if u.RentAmount != nil {
		v := *u.RentAmount
		c.RentAmount = &v
	}
	if u.Bedrooms != nil {
		v := *u.Bedrooms
		c.Bedrooms = &v
	}
	if u.Bathrooms != nil {
		v := *u.Bathrooms
		c.Bathrooms = &v
	}
	return c
}
