package utils

import (
	"context"
	"errors"
	"time"

	"github.com/bradfitz/latlong"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
	"googlemaps.github.io/maps"
)

const geocodeTimeout = 3 * time.Second

// ErrNoGeocodeResult is returned when the address resolves to nothing.
var ErrNoGeocodeResult = errors.New("no_geocode_result")

// ZoneForCoordinates returns the IANA zone at (lat, lng), or fallback when
// the point is unknown to the offline table.
func ZoneForCoordinates(lat, lng float64, fallback string) string {
	if tz := latlong.LookupZoneName(lat, lng); tz != "" {
		return tz
	}
	return fallback
}

// LocationOrUTC loads a zone by name, falling back to UTC.
func LocationOrUTC(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Geocoder resolves a street address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

type gmapsGeocoder struct {
	client *maps.Client
}

// NewGeocoder returns a Google Maps geocoder, or nil when apiKey is empty.
func NewGeocoder(apiKey string) (Geocoder, error) {
	if apiKey == "" {
		return nil, nil
	}
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &gmapsGeocoder{client: c}, nil
}

func (g *gmapsGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	res, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		utils.Logger.WithError(err).WithField("address", address).Warn("[Geocoder] geocode request failed")
		return 0, 0, err
	}
	if len(res) == 0 {
		return 0, 0, ErrNoGeocodeResult
	}
	loc := res[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}
