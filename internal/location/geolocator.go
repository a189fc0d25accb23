package location

import (
	"context"

	"github.com/tphakala/daylight-go/internal/errors"
	"github.com/tphakala/daylight-go/internal/geo"
)

// ErrPositionUnavailable is returned by geolocators that have no position
// source to consult.
var ErrPositionUnavailable = errors.Newf("device position unavailable").
	Component("location").
	Category(errors.CategoryGeolocation).
	Build()

// StaticGeolocator serves a fixed coordinate, standing in for a device
// position source when the observer position comes from configuration or
// command-line flags.
type StaticGeolocator struct {
	Coordinate geo.Coordinate
	// Available marks whether a position was actually configured;
	// a zero-value StaticGeolocator reports ErrPositionUnavailable.
	Available bool
}

// CurrentPosition implements Geolocator.
func (g *StaticGeolocator) CurrentPosition(ctx context.Context, _ PositionRequest) (geo.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinate{}, err
	}
	if !g.Available {
		return geo.Coordinate{}, ErrPositionUnavailable
	}
	if err := g.Coordinate.Validate(); err != nil {
		return geo.Coordinate{}, err
	}
	return g.Coordinate, nil
}
