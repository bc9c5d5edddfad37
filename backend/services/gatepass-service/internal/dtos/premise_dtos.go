package dtos

import "github.com/noid254/Qaribu-sub000/backend/shared/go-models"

// UnitRequest is the body of "Add Key": a new vacant unit and its listing.
type UnitRequest struct {
	ID            string             `json:"id,omitempty"`
	UnitNumber    string             `json:"unit_number" validate:"required,excludes=:"`
	Floor         string             `json:"floor,omitempty"`
	Type          models.UnitType    `json:"type,omitempty" validate:"omitempty,oneof=Residential Commercial Shop Warehouse Gate"`
	Configuration string             `json:"configuration,omitempty"`
	RentAmount    *float64           `json:"rent_amount,omitempty" validate:"omitempty,gte=0"`
	RentPeriod    string             `json:"rent_period,omitempty"`
	ListingType   models.ListingType `json:"listing_type,omitempty" validate:"omitempty,oneof=Rent Sale ShortStay"`
	Bedrooms      *int               `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms     *int               `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	Size          string             `json:"size,omitempty"`
	Amenities     []string           `json:"amenities,omitempty"`
	Images        []string           `json:"images,omitempty" validate:"omitempty,dive,url"`
}

// ToUnit builds a vacant unit from the request.
func (r UnitRequest) ToUnit() models.Unit {
	return models.Unit{
		ID:            r.ID,
		UnitNumber:    r.UnitNumber,
		Floor:         r.Floor,
		Type:          r.Type,
		Status:        models.UnitStatusVacant,
		Configuration: r.Configuration,
		RentAmount:    r.RentAmount,
		RentPeriod:    r.RentPeriod,
		ListingType:   r.ListingType,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		Size:          r.Size,
		Amenities:     r.Amenities,
		Images:        r.Images,
	}
}

type RegisterPremiseRequest struct {
	Name      string             `json:"name" validate:"required,max=160"`
	Type      models.PremiseType `json:"type" validate:"required,oneof=Residential Commercial Mixed"`
	Address   string             `json:"address,omitempty"`
	City      string             `json:"city,omitempty"`
	Latitude  *float64           `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64           `json:"longitude,omitempty" validate:"omitempty,longitude"`
	TimeZone  string             `json:"timezone,omitempty" validate:"omitempty,timezone"`
	Vacancies []UnitRequest      `json:"vacancies,omitempty" validate:"omitempty,dive"`
}

// UpdateUnitRequest patches listing fields only; occupancy is changed
// through the occupy/vacate endpoints.
type UpdateUnitRequest struct {
	Floor         *string             `json:"floor,omitempty"`
	Type          *models.UnitType    `json:"type,omitempty" validate:"omitempty,oneof=Residential Commercial Shop Warehouse Gate"`
	Configuration *string             `json:"configuration,omitempty"`
	RentAmount    *float64            `json:"rent_amount,omitempty" validate:"omitempty,gte=0"`
	RentPeriod    *string             `json:"rent_period,omitempty"`
	ListingType   *models.ListingType `json:"listing_type,omitempty" validate:"omitempty,oneof=Rent Sale ShortStay"`
	Bedrooms      *int                `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms     *int                `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	Size          *string             `json:"size,omitempty"`
	Amenities     []string            `json:"amenities,omitempty"`
	Images        []string            `json:"images,omitempty" validate:"omitempty,dive,url"`
}

type OccupyUnitRequest struct {
	TenantID   string `json:"tenant_id" validate:"required"`
	TenantName string `json:"tenant_name,omitempty"`
}
