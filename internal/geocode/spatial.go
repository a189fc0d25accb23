package geocode

import (
	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/tphakala/daylight-go/internal/geo"
)

// SpatialKeyPrecision is the geohash precision used to quantize coordinates
// for the name cache. Five characters give roughly 2.5 km cells, so nearby
// coordinates share a cache entry.
const SpatialKeyPrecision = 5

// SpatialKey quantizes a coordinate into its name-cache key.
func SpatialKey(coord geo.Coordinate) string {
	return geohash.EncodeWithPrecision(coord.Latitude, coord.Longitude, SpatialKeyPrecision)
}
