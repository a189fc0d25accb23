package geocode

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/daylight-go/internal/errors"
	"github.com/tphakala/daylight-go/internal/geo"
	"github.com/tphakala/daylight-go/internal/kvstore"
	"golang.org/x/time/rate"
)

// fakeProvider counts calls and serves canned answers. Safe for concurrent
// use.
type fakeProvider struct {
	mu           sync.Mutex
	reverseCalls int
	searchCalls  int
	name         string
	reverseErr   error
	matches      []PlaceMatch
	searchErr    error
}

func (fp *fakeProvider) ReverseGeocode(ctx context.Context, coord geo.Coordinate, language string) (string, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.reverseCalls++
	if fp.reverseErr != nil {
		return "", fp.reverseErr
	}
	return fp.name, nil
}

func (fp *fakeProvider) SearchPlaces(ctx context.Context, query string) ([]PlaceMatch, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.searchCalls++
	if fp.searchErr != nil {
		return nil, fp.searchErr
	}
	return fp.matches, nil
}

func (fp *fakeProvider) calls() (reverse, search int) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return fp.reverseCalls, fp.searchCalls
}

// testClock is an adjustable time source for TTL tests.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)}
}

func (tc *testClock) Now() time.Time {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.now
}

func (tc *testClock) Advance(d time.Duration) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.now = tc.now.Add(d)
}

// testLimiter never blocks, keeping cache tests fast.
func testLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

func newTestNameCache(provider Provider, store kvstore.Store, clock *testClock) *NameCache {
	return NewNameCache(provider, store, NameCacheConfig{
		Limiter: testLimiter(),
		Clock:   clock.Now,
	})
}

var helsinkiCoord = geo.Coordinate{Latitude: 60.1699, Longitude: 24.9384}

func TestNameCacheMissThenHit(t *testing.T) {
	provider := &fakeProvider{name: "Helsinki"}
	clock := newTestClock()
	nc := newTestNameCache(provider, kvstore.NewMemoryStore(), clock)

	name := nc.ResolveName(context.Background(), helsinkiCoord, "en")
	assert.Equal(t, "Helsinki", name)

	// Second resolution of the same coordinate hits the cache.
	name = nc.ResolveName(context.Background(), helsinkiCoord, "en")
	assert.Equal(t, "Helsinki", name)

	reverse, _ := provider.calls()
	assert.Equal(t, 1, reverse, "cache hit must not call the provider")
}

func TestNameCacheNearbyCoordinatesShareEntry(t *testing.T) {
	provider := &fakeProvider{name: "Helsinki"}
	clock := newTestClock()
	nc := newTestNameCache(provider, kvstore.NewMemoryStore(), clock)

	nc.ResolveName(context.Background(), helsinkiCoord, "en")

	// A few hundred meters away quantizes to the same spatial key.
	nearby := geo.Coordinate{Latitude: 60.1712, Longitude: 24.9401}
	require.Equal(t, SpatialKey(helsinkiCoord), SpatialKey(nearby))

	name := nc.ResolveName(context.Background(), nearby, "en")
	assert.Equal(t, "Helsinki", name)

	reverse, _ := provider.calls()
	assert.Equal(t, 1, reverse)
}

func TestNameCacheTTLExpiry(t *testing.T) {
	provider := &fakeProvider{name: "Helsinki"}
	clock := newTestClock()
	nc := newTestNameCache(provider, kvstore.NewMemoryStore(), clock)

	nc.ResolveName(context.Background(), helsinkiCoord, "en")

	// Just inside the TTL the entry is still served.
	clock.Advance(7*24*time.Hour - time.Minute)
	nc.ResolveName(context.Background(), helsinkiCoord, "en")
	reverse, _ := provider.calls()
	require.Equal(t, 1, reverse)

	// Past the TTL the entry is stale and the provider is consulted again.
	clock.Advance(2 * time.Minute)
	nc.ResolveName(context.Background(), helsinkiCoord, "en")
	reverse, _ = provider.calls()
	assert.Equal(t, 2, reverse)
}

func TestNameCacheProviderFailureFallsBack(t *testing.T) {
	provider := &fakeProvider{
		reverseErr: errors.Newf("provider down").Category(errors.CategoryNetwork).Build(),
	}
	clock := newTestClock()
	nc := newTestNameCache(provider, kvstore.NewMemoryStore(), clock)

	name := nc.ResolveName(context.Background(), helsinkiCoord, "en")
	assert.Equal(t, "60.17:24.94", name)

	// Failures are not cached: the next call retries the provider.
	nc.ResolveName(context.Background(), helsinkiCoord, "en")
	reverse, _ := provider.calls()
	assert.Equal(t, 2, reverse)
	assert.Equal(t, 0, nc.Len())
}

func TestNameCacheClearsWhenFull(t *testing.T) {
	provider := &fakeProvider{name: "Somewhere"}
	clock := newTestClock()
	nc := NewNameCache(provider, kvstore.NewMemoryStore(), NameCacheConfig{
		MaxEntries: 3,
		Limiter:    testLimiter(),
		Clock:      clock.Now,
	})

	coords := []geo.Coordinate{
		{Latitude: 10, Longitude: 10},
		{Latitude: 20, Longitude: 20},
		{Latitude: 30, Longitude: 30},
	}
	for _, coord := range coords {
		nc.ResolveName(context.Background(), coord, "en")
	}
	require.Equal(t, 3, nc.Len())

	// The insert that would exceed capacity clears everything first.
	nc.ResolveName(context.Background(), geo.Coordinate{Latitude: 40, Longitude: 40}, "en")
	assert.Equal(t, 1, nc.Len())

	// Previously cached coordinates now miss again.
	nc.ResolveName(context.Background(), coords[0], "en")
	reverse, _ := provider.calls()
	assert.Equal(t, 5, reverse)
}

func TestNameCachePersistsAcrossInstances(t *testing.T) {
	store := kvstore.NewMemoryStore()
	clock := newTestClock()

	first := newTestNameCache(&fakeProvider{name: "Helsinki"}, store, clock)
	first.ResolveName(context.Background(), helsinkiCoord, "en")

	// A fresh cache over the same store serves the entry without any
	// provider call.
	second := &fakeProvider{name: "WRONG"}
	reloaded := newTestNameCache(second, store, clock)
	name := reloaded.ResolveName(context.Background(), helsinkiCoord, "en")
	assert.Equal(t, "Helsinki", name)

	reverse, _ := second.calls()
	assert.Equal(t, 0, reverse)
}

func TestNameCacheDiscardsCorruptPersistedState(t *testing.T) {
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set("location_names", "{broken"))

	provider := &fakeProvider{name: "Helsinki"}
	nc := newTestNameCache(provider, store, newTestClock())

	assert.Equal(t, 0, nc.Len())
	assert.Equal(t, "Helsinki", nc.ResolveName(context.Background(), helsinkiCoord, "en"))
}

func TestNameCacheTreatsNullPersistedStateAsEmpty(t *testing.T) {
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set("location_names", "null"))

	provider := &fakeProvider{name: "Helsinki"}
	nc := newTestNameCache(provider, store, newTestClock())

	assert.Equal(t, 0, nc.Len())

	// Resolving must insert without panicking on the nil-decoded map.
	assert.Equal(t, "Helsinki", nc.ResolveName(context.Background(), helsinkiCoord, "en"))
	assert.Equal(t, 1, nc.Len())
}

func TestSpatialKeyPrecision(t *testing.T) {
	key := SpatialKey(helsinkiCoord)
	assert.Len(t, key, SpatialKeyPrecision)

	// Distant coordinates must not collide.
	other := SpatialKey(geo.Coordinate{Latitude: -33.8688, Longitude: 151.2093})
	assert.NotEqual(t, key, other)
}
