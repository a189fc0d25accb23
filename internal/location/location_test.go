package location

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/daylight-go/internal/geo"
	"github.com/tphakala/daylight-go/internal/kvstore"
)

// stubNames names every coordinate with a fixed string and counts calls.
type stubNames struct {
	name  string
	calls int
}

func (sn *stubNames) ResolveName(ctx context.Context, coord geo.Coordinate, language string) string {
	sn.calls++
	if sn.name != "" {
		return sn.name
	}
	return coord.String()
}

var helsinkiCoord = geo.Coordinate{Latitude: 60.1699, Longitude: 24.9384}

func newTestResolver(store kvstore.Store, names NameResolver, geolocator Geolocator) *Resolver {
	return NewResolver(store, names, geolocator, DefaultPositionRequest(), "en")
}

func TestResolveFromDevice(t *testing.T) {
	store := kvstore.NewMemoryStore()
	names := &stubNames{name: "Helsinki"}
	resolver := newTestResolver(store, names, &StaticGeolocator{Coordinate: helsinkiCoord, Available: true})

	info := resolver.Resolve(context.Background(), false)

	assert.Equal(t, "Helsinki", info.Name)
	assert.Equal(t, helsinkiCoord, info.Coordinate)
	assert.Equal(t, StateResolved, resolver.State())

	// The resolved location is persisted under the device key.
	raw, ok, err := store.Get("user_location")
	require.NoError(t, err)
	require.True(t, ok)
	var saved geo.LocationInfo
	require.NoError(t, json.Unmarshal([]byte(raw), &saved))
	assert.Equal(t, info, saved)
}

func TestResolveShortCircuitsOnCachedLocation(t *testing.T) {
	store := kvstore.NewMemoryStore()
	names := &stubNames{name: "Helsinki"}
	resolver := newTestResolver(store, names, &StaticGeolocator{Coordinate: helsinkiCoord, Available: true})

	first := resolver.Resolve(context.Background(), false)
	second := resolver.Resolve(context.Background(), false)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, names.calls, "cached location must skip name resolution")
}

func TestResolveForceRefresh(t *testing.T) {
	store := kvstore.NewMemoryStore()
	names := &stubNames{name: "Helsinki"}
	resolver := newTestResolver(store, names, &StaticGeolocator{Coordinate: helsinkiCoord, Available: true})

	resolver.Resolve(context.Background(), false)
	resolver.Resolve(context.Background(), true)

	assert.Equal(t, 2, names.calls, "forceRefresh must consult the device again")
}

func TestResolveFallsBackToSavedDeviceLocation(t *testing.T) {
	store := kvstore.NewMemoryStore()
	saved := geo.LocationInfo{Coordinate: helsinkiCoord, Name: "Helsinki"}
	raw, err := json.Marshal(saved)
	require.NoError(t, err)
	require.NoError(t, store.Set("user_location", string(raw)))

	resolver := newTestResolver(store, &stubNames{}, &StaticGeolocator{})

	// Force refresh so the cached value cannot short-circuit; the device
	// fails, and the saved location is the fallback.
	info := resolver.Resolve(context.Background(), true)

	assert.Equal(t, saved, info)
	assert.Equal(t, StateFallbackUsed, resolver.State())
}

func TestResolveFallsBackToSelectedLocation(t *testing.T) {
	store := kvstore.NewMemoryStore()
	resolver := newTestResolver(store, &stubNames{}, &StaticGeolocator{})

	selected := geo.LocationInfo{
		Coordinate: geo.Coordinate{Latitude: 35.6762, Longitude: 139.6503},
		Name:       "Tokyo",
	}
	resolver.SelectLocation(selected)

	info := resolver.Resolve(context.Background(), false)

	assert.Equal(t, selected, info)
	assert.Equal(t, StateFallbackUsed, resolver.State())

	// The fallback is persisted as the device location so the next
	// resolution short-circuits.
	next := resolver.Resolve(context.Background(), false)
	assert.Equal(t, selected, next)
	assert.Equal(t, StateResolved, resolver.State())
}

func TestResolveFallsBackToDefault(t *testing.T) {
	resolver := newTestResolver(kvstore.NewMemoryStore(), &stubNames{}, &StaticGeolocator{})

	info := resolver.Resolve(context.Background(), false)

	assert.Equal(t, DefaultLocation, info)
	assert.Equal(t, "London", info.Name)
	assert.InDelta(t, 51.5074456, info.Latitude, 1e-9)
	assert.InDelta(t, -0.1277653, info.Longitude, 1e-9)
	assert.Equal(t, StateFallbackUsed, resolver.State())
}

func TestResolveDiscardsCorruptSavedLocation(t *testing.T) {
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set("user_location", "{not json"))

	names := &stubNames{name: "Helsinki"}
	resolver := newTestResolver(store, names, &StaticGeolocator{Coordinate: helsinkiCoord, Available: true})

	info := resolver.Resolve(context.Background(), false)

	// The corrupt value reads as absence, so the device is consulted.
	assert.Equal(t, "Helsinki", info.Name)
	assert.Equal(t, 1, names.calls)
}

func TestResolveDiscardsOutOfRangeSavedLocation(t *testing.T) {
	store := kvstore.NewMemoryStore()
	bad := geo.LocationInfo{Coordinate: geo.Coordinate{Latitude: 95, Longitude: 0}, Name: "Nowhere"}
	raw, err := json.Marshal(bad)
	require.NoError(t, err)
	require.NoError(t, store.Set("user_location", string(raw)))

	resolver := newTestResolver(store, &stubNames{name: "Helsinki"}, &StaticGeolocator{Coordinate: helsinkiCoord, Available: true})

	info := resolver.Resolve(context.Background(), false)
	assert.Equal(t, "Helsinki", info.Name)
}

func TestSelectLocationOverwrites(t *testing.T) {
	resolver := newTestResolver(kvstore.NewMemoryStore(), &stubNames{}, &StaticGeolocator{})

	resolver.SelectLocation(geo.LocationInfo{Coordinate: helsinkiCoord, Name: "Helsinki"})
	resolver.SelectLocation(geo.LocationInfo{
		Coordinate: geo.Coordinate{Latitude: 35.6762, Longitude: 139.6503},
		Name:       "Tokyo",
	})

	assert.Equal(t, "Tokyo", resolver.LastSelected().Name)
}

func TestLastSelectedDefault(t *testing.T) {
	resolver := newTestResolver(kvstore.NewMemoryStore(), &stubNames{}, &StaticGeolocator{})
	assert.Equal(t, DefaultLocation, resolver.LastSelected())
}

// slowGeolocator blocks until its context expires.
type slowGeolocator struct{}

func (slowGeolocator) CurrentPosition(ctx context.Context, _ PositionRequest) (geo.Coordinate, error) {
	<-ctx.Done()
	return geo.Coordinate{}, ctx.Err()
}

func TestResolveTimesOutSlowGeolocator(t *testing.T) {
	store := kvstore.NewMemoryStore()
	resolver := NewResolver(store, &stubNames{}, slowGeolocator{},
		PositionRequest{Timeout: 20 * time.Millisecond}, "en")

	done := make(chan geo.LocationInfo, 1)
	go func() {
		done <- resolver.Resolve(context.Background(), false)
	}()

	select {
	case info := <-done:
		assert.Equal(t, DefaultLocation, info)
		assert.Equal(t, StateFallbackUsed, resolver.State())
	case <-time.After(2 * time.Second):
		t.Fatal("Resolve did not respect the position timeout")
	}
}
