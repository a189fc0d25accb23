package geocode

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/tphakala/daylight-go/internal/geo"
	"github.com/tphakala/daylight-go/internal/kvstore"
	"github.com/tphakala/daylight-go/internal/observability/metrics"
	"golang.org/x/time/rate"
)

// nameCacheStorageKey is the persisted-store key holding the whole name
// cache as one JSON document. A cache instance exclusively owns this key.
const nameCacheStorageKey = "location_names"

// NameEntry is one cached reverse-geocoding result.
type NameEntry struct {
	SpatialKey string    `json:"key"`
	Name       string    `json:"name"`
	CachedAt   time.Time `json:"cached_at"`
}

// NameCacheConfig configures a NameCache. Zero values get defaults.
type NameCacheConfig struct {
	TTL        time.Duration  // entry lifetime, default 7 days
	MaxEntries int            // capacity before clear-on-insert, default 100
	Limiter    *rate.Limiter  // shared external-call pacer, default 1/s
	Clock      Clock          // current-time source, default time.Now
	Metrics    *metrics.GeocodeMetrics
}

// NameCache memoizes reverse-geocoding lookups keyed by a spatially
// quantized hash, persisted across sessions. ResolveName never fails:
// every provider error collapses into the deterministic coordinate
// fallback name.
type NameCache struct {
	provider   Provider
	store      kvstore.Store
	limiter    *rate.Limiter
	clock      Clock
	metrics    *metrics.GeocodeMetrics
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[string]NameEntry
}

// NewNameCache creates a NameCache over the given provider and persisted
// store, loading any previously persisted entries. Corrupt persisted data
// is discarded.
func NewNameCache(provider Provider, store kvstore.Store, cfg NameCacheConfig) *NameCache {
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 100
	}
	if cfg.Limiter == nil {
		cfg.Limiter = NewLimiter(time.Second)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	nc := &NameCache{
		provider:   provider,
		store:      store,
		limiter:    cfg.Limiter,
		clock:      cfg.Clock,
		metrics:    cfg.Metrics,
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		entries:    make(map[string]NameEntry),
	}
	nc.load()
	return nc
}

// ResolveName returns a human-meaningful name for the coordinate. Cache
// hits cost nothing; misses call the external provider through the shared
// rate limiter. On any provider failure the coordinate fallback name is
// returned and nothing is cached.
func (nc *NameCache) ResolveName(ctx context.Context, coord geo.Coordinate, language string) string {
	key := SpatialKey(coord)

	if name, ok := nc.lookup(key); ok {
		nc.metrics.RecordCacheHit("name")
		logger.Debug("Name cache hit", "key", key, "name", name)
		return name
	}
	nc.metrics.RecordCacheMiss("name")

	if err := nc.limiter.Wait(ctx); err != nil {
		logger.Warn("Rate limiter wait aborted", "error", err)
		return coord.String()
	}

	start := nc.clock()
	name, err := nc.provider.ReverseGeocode(ctx, coord, language)
	nc.metrics.RecordProviderDuration("reverse", time.Since(start).Seconds())
	if err != nil {
		nc.metrics.RecordProviderRequest("reverse", "error")
		logger.Warn("Reverse geocoding failed, using fallback name",
			"lat", coord.Latitude, "lon", coord.Longitude, "error", err)
		return coord.String()
	}
	nc.metrics.RecordProviderRequest("reverse", "success")

	nc.insert(key, name)
	return name
}

// lookup returns a non-expired entry's name. Expired entries are treated
// as misses and left in place (lazy expiry).
func (nc *NameCache) lookup(key string) (string, bool) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	entry, ok := nc.entries[key]
	if !ok {
		return "", false
	}
	if nc.clock().Sub(entry.CachedAt) >= nc.ttl {
		return "", false
	}
	return entry.Name, true
}

// insert stores a fresh entry, clearing the whole cache first when at
// capacity, and persists the result.
func (nc *NameCache) insert(key, name string) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	if len(nc.entries) >= nc.maxEntries {
		logger.Info("Name cache full, clearing", "size", len(nc.entries))
		nc.metrics.RecordCacheEviction("name")
		nc.entries = make(map[string]NameEntry)
	}

	nc.entries[key] = NameEntry{
		SpatialKey: key,
		Name:       name,
		CachedAt:   nc.clock(),
	}
	nc.persistLocked()
}

// Len returns the number of entries currently held, expired or not.
func (nc *NameCache) Len() int {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return len(nc.entries)
}

// load restores the persisted cache; any failure starts empty.
func (nc *NameCache) load() {
	raw, ok, err := nc.store.Get(nameCacheStorageKey)
	if err != nil || !ok {
		return
	}
	var entries map[string]NameEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logger.Warn("Discarding corrupt persisted name cache", "error", err)
		return
	}
	if entries == nil {
		// A literal null document decodes without error but yields a nil
		// map; treat it as absence so inserts never hit a nil map.
		return
	}
	nc.entries = entries
}

// persistLocked serializes the whole cache to the store. Persistence
// failures are logged, not propagated: the in-memory cache stays correct.
func (nc *NameCache) persistLocked() {
	raw, err := json.Marshal(nc.entries)
	if err != nil {
		logger.Error("Failed to serialize name cache", "error", err)
		return
	}
	if err := nc.store.Set(nameCacheStorageKey, string(raw)); err != nil {
		logger.Error("Failed to persist name cache", "error", err)
	}
}
