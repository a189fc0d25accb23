// Package location resolves the user's current location from the device
// position source, with persisted last-known and user-selected fallbacks.
// Resolution always produces a usable location; no failure reaches the
// caller.
package location

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/tphakala/daylight-go/internal/conf"
	"github.com/tphakala/daylight-go/internal/geo"
	"github.com/tphakala/daylight-go/internal/kvstore"
	"github.com/tphakala/daylight-go/internal/logging"
)

// Package-level logger specific to the location service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "location.log")
	serviceLevelVar.Set(slog.LevelInfo)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "location", serviceLevelVar)
	if err != nil {
		log.Printf("Failed to initialize location file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "location")
		closeLogger = func() error { return nil }
	}
}

// Close flushes and closes the service log writer.
func Close() error {
	return closeLogger()
}

// Persisted-store keys. "user_location" is the last location resolved from
// the device; "selected_location" is the last location the user picked
// from search results.
const (
	deviceLocationKey   = "user_location"
	selectedLocationKey = "selected_location"
)

// State is the resolver's observable state.
type State string

const (
	StateIdle         State = "idle"
	StateResolving    State = "resolving"
	StateResolved     State = "resolved"
	StateFallbackUsed State = "fallback-used"
)

// PositionRequest carries the device position request options.
type PositionRequest struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	MaximumAge         time.Duration
}

// DefaultPositionRequest mirrors the configuration defaults.
func DefaultPositionRequest() PositionRequest {
	return PositionRequest{
		EnableHighAccuracy: false,
		Timeout:            conf.DefaultGeolocationTimeout,
		MaximumAge:         conf.DefaultMaximumAge,
	}
}

// Geolocator is the device position collaborator: best-effort, bounded by
// the request timeout, not cancelable once in flight.
type Geolocator interface {
	CurrentPosition(ctx context.Context, req PositionRequest) (geo.Coordinate, error)
}

// NameResolver names a coordinate; satisfied by geocode.NameCache.
type NameResolver interface {
	ResolveName(ctx context.Context, coord geo.Coordinate, language string) string
}

// DefaultLocation is the last-resort fallback when nothing was ever
// resolved or selected.
var DefaultLocation = geo.LocationInfo{
	Coordinate: geo.Coordinate{Latitude: conf.DefaultLatitude, Longitude: conf.DefaultLongitude},
	Name:       "London",
}

// Resolver implements the location resolution flow.
type Resolver struct {
	store      kvstore.Store
	names      NameResolver
	geolocator Geolocator
	request    PositionRequest
	language   string

	mu    sync.Mutex
	state State
}

// NewResolver creates a Resolver over the persisted store, name resolver
// and device position source.
func NewResolver(store kvstore.Store, names NameResolver, geolocator Geolocator, request PositionRequest, language string) *Resolver {
	if request.Timeout <= 0 {
		request.Timeout = conf.DefaultGeolocationTimeout
	}
	return &Resolver{
		store:      store,
		names:      names,
		geolocator: geolocator,
		request:    request,
		language:   language,
		state:      StateIdle,
	}
}

// State returns the state of the last resolution.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Resolver) setState(state State) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
}

// Resolve returns the current location. Without forceRefresh a persisted
// device location short-circuits the device request entirely. Device
// position failures fall back, in order, to the last device location, the
// last user-selected location, and the hardcoded default. Resolve never
// fails.
func (r *Resolver) Resolve(ctx context.Context, forceRefresh bool) geo.LocationInfo {
	r.setState(StateResolving)

	if !forceRefresh {
		if info, ok := r.savedLocation(deviceLocationKey); ok {
			logger.Debug("Using cached device location", "name", info.Name)
			r.setState(StateResolved)
			return info
		}
	}

	posCtx, cancel := context.WithTimeout(ctx, r.request.Timeout)
	defer cancel()

	coord, err := r.geolocator.CurrentPosition(posCtx, r.request)
	if err == nil {
		err = coord.Validate()
	}
	if err != nil {
		logger.Warn("Device position unavailable, falling back", "error", err)
		return r.fallback()
	}

	name := r.names.ResolveName(ctx, coord, r.language)
	info := geo.LocationInfo{Coordinate: coord, Name: name}
	r.saveLocation(deviceLocationKey, info)

	logger.Info("Resolved device location", "name", name, "lat", coord.Latitude, "lon", coord.Longitude)
	r.setState(StateResolved)
	return info
}

// fallback returns the last device location if one exists, otherwise the
// last user-selected location (or the default), which it also persists as
// the device location so later resolutions short-circuit consistently.
func (r *Resolver) fallback() geo.LocationInfo {
	r.setState(StateFallbackUsed)

	if info, ok := r.savedLocation(deviceLocationKey); ok {
		return info
	}

	info := r.LastSelected()
	r.saveLocation(deviceLocationKey, info)
	return info
}

// SelectLocation unconditionally overwrites the last user-selected
// location. Called when the user picks a search result.
func (r *Resolver) SelectLocation(info geo.LocationInfo) {
	r.saveLocation(selectedLocationKey, info)
	logger.Info("Selected location", "name", info.Name, "lat", info.Latitude, "lon", info.Longitude)
}

// LastSelected returns the last user-selected location, or the default
// when none was ever selected.
func (r *Resolver) LastSelected() geo.LocationInfo {
	if info, ok := r.savedLocation(selectedLocationKey); ok {
		return info
	}
	return DefaultLocation
}

// savedLocation reads a persisted location; missing or malformed values
// are absence.
func (r *Resolver) savedLocation(key string) (geo.LocationInfo, bool) {
	raw, ok, err := r.store.Get(key)
	if err != nil || !ok {
		return geo.LocationInfo{}, false
	}

	var info geo.LocationInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		logger.Warn("Discarding corrupt persisted location", "key", key, "error", err)
		return geo.LocationInfo{}, false
	}
	if info.Validate() != nil {
		return geo.LocationInfo{}, false
	}
	return info, true
}

// saveLocation persists a location as a whole-value replacement.
// Persistence failures are logged, not propagated.
func (r *Resolver) saveLocation(key string, info geo.LocationInfo) {
	raw, err := json.Marshal(info)
	if err != nil {
		logger.Error("Failed to serialize location", "key", key, "error", err)
		return
	}
	if err := r.store.Set(key, string(raw)); err != nil {
		logger.Error("Failed to persist location", "key", key, "error", err)
	}
}
