// Package geo holds the shared geographic value types: coordinates,
// named locations and place-search results.
package geo

import (
	"fmt"

	"github.com/tphakala/daylight-go/internal/errors"
)

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Validate checks the coordinate against the valid WGS84 ranges.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return errors.Newf("latitude %f out of range [-90, 90]", c.Latitude).
			Component("geo").
			Category(errors.CategoryValidation).
			Build()
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return errors.Newf("longitude %f out of range [-180, 180]", c.Longitude).
			Component("geo").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

// String renders the coordinate as "lat:lon" with two decimals. This is
// also the deterministic fallback name when reverse geocoding fails.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.2f:%.2f", c.Latitude, c.Longitude)
}

// LocationInfo is a coordinate with a human-meaningful name.
type LocationInfo struct {
	Coordinate
	Name string `json:"name"`
}

// SearchResult is one place-search candidate offered to the user.
type SearchResult struct {
	Coordinate
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}
