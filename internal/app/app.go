// Package app wires the application services together: persisted store,
// geocoding provider, caches, and the location resolver.
package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tphakala/daylight-go/internal/conf"
	"github.com/tphakala/daylight-go/internal/geo"
	"github.com/tphakala/daylight-go/internal/geocode"
	"github.com/tphakala/daylight-go/internal/kvstore"
	"github.com/tphakala/daylight-go/internal/location"
	"github.com/tphakala/daylight-go/internal/logging"
	"github.com/tphakala/daylight-go/internal/observability/metrics"
)

// App holds the wired application services.
type App struct {
	Settings *conf.Settings
	Store    kvstore.Store
	Registry *prometheus.Registry
	Names    *geocode.NameCache
	Search   *geocode.SearchCache
	Resolver *location.Resolver
}

// New wires all services from settings.
func New(settings *conf.Settings) (*App, error) {
	store, err := kvstore.Open(settings)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	geocodeMetrics, err := metrics.NewGeocodeMetrics(registry)
	if err != nil {
		return nil, err
	}

	provider := geocode.NewNominatimProvider(settings.Geocoding.BaseURL, settings.Geocoding.Timeout)

	// One limiter serializes every external geocoding call, so concurrent
	// name and search resolutions cannot exceed the provider rate limit.
	limiter := geocode.NewLimiter(settings.Geocoding.RateLimit)

	names := geocode.NewNameCache(provider, store, geocode.NameCacheConfig{
		TTL:        settings.Geocoding.CacheTTL,
		MaxEntries: settings.Geocoding.CacheMaxEntries,
		Limiter:    limiter,
		Metrics:    geocodeMetrics,
	})
	search := geocode.NewSearchCache(provider, store, geocode.SearchCacheConfig{
		TTL:        settings.Geocoding.CacheTTL,
		MaxEntries: settings.Geocoding.CacheMaxEntries,
		Limiter:    limiter,
		Metrics:    geocodeMetrics,
	})

	geolocator := &location.StaticGeolocator{
		Coordinate: geo.Coordinate{
			Latitude:  settings.Location.Latitude,
			Longitude: settings.Location.Longitude,
		},
		Available: true,
	}
	request := location.PositionRequest{
		EnableHighAccuracy: settings.Geolocation.EnableHighAccuracy,
		Timeout:            settings.Geolocation.Timeout,
		MaximumAge:         settings.Geolocation.MaximumAge,
	}
	resolver := location.NewResolver(store, names, geolocator, request, settings.Location.Language)

	return &App{
		Settings: settings,
		Store:    store,
		Registry: registry,
		Names:    names,
		Search:   search,
		Resolver: resolver,
	}, nil
}

// Close releases the store and service log writers.
func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		logging.Warn("Failed to close store", "error", err)
	}
	if err := geocode.Close(); err != nil {
		logging.Warn("Failed to close geocode logger", "error", err)
	}
	if err := location.Close(); err != nil {
		logging.Warn("Failed to close location logger", "error", err)
	}
}
