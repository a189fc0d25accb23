package geocode

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tphakala/daylight-go/internal/geo"
	"github.com/tphakala/daylight-go/internal/kvstore"
	"github.com/tphakala/daylight-go/internal/observability/metrics"
	"golang.org/x/time/rate"
)

// searchCacheStorageKey is the persisted-store key holding the whole
// search cache as one JSON document.
const searchCacheStorageKey = "location_search"

// excludedAddressType filters administrative regions out of search
// results; a state is not a useful day-length lookup target.
const excludedAddressType = "state"

// SearchEntry is one cached place-search result list. The filtered list is
// cached even when empty.
type SearchEntry struct {
	Results  []geo.SearchResult `json:"results"`
	CachedAt time.Time          `json:"cached_at"`
}

// SearchCacheConfig configures a SearchCache. Zero values get defaults.
type SearchCacheConfig struct {
	TTL        time.Duration
	MaxEntries int
	Limiter    *rate.Limiter
	Clock      Clock
	Metrics    *metrics.GeocodeMetrics
}

// SearchCache memoizes forward place-search queries keyed by the
// normalized query text. Unlike NameCache, provider failures on a miss
// propagate to the caller: there is no meaningful fallback for a candidate
// list.
type SearchCache struct {
	provider   Provider
	store      kvstore.Store
	limiter    *rate.Limiter
	clock      Clock
	metrics    *metrics.GeocodeMetrics
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[string]SearchEntry
}

// NewSearchCache creates a SearchCache over the given provider and
// persisted store, loading any previously persisted entries.
func NewSearchCache(provider Provider, store kvstore.Store, cfg SearchCacheConfig) *SearchCache {
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

	sc := &SearchCache{
		provider:   provider,
		store:      store,
		limiter:    cfg.Limiter,
		clock:      cfg.Clock,
		metrics:    cfg.Metrics,
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		entries:    make(map[string]SearchEntry),
	}
	sc.load()
	return sc
}

// queryKey normalizes a query for exact-match caching.
func queryKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Search returns the place candidates for a free-text query. An empty or
// whitespace-only query returns an empty list without touching the cache
// or the network.
func (sc *SearchCache) Search(ctx context.Context, query string) ([]geo.SearchResult, error) {
	key := queryKey(query)
	if key == "" {
		return []geo.SearchResult{}, nil
	}

	if results, ok := sc.lookup(key); ok {
		sc.metrics.RecordCacheHit("search")
		logger.Debug("Search cache hit", "query", key, "results", len(results))
		return results, nil
	}
	sc.metrics.RecordCacheMiss("search")

	if err := sc.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := sc.clock()
	matches, err := sc.provider.SearchPlaces(ctx, key)
	sc.metrics.RecordProviderDuration("search", time.Since(start).Seconds())
	if err != nil {
		sc.metrics.RecordProviderRequest("search", "error")
		return nil, err
	}
	sc.metrics.RecordProviderRequest("search", "success")

	results := filterMatches(matches)
	sc.insert(key, results)
	return results, nil
}

// filterMatches drops administrative regions and maps the remaining
// candidates to search results.
func filterMatches(matches []PlaceMatch) []geo.SearchResult {
	results := make([]geo.SearchResult, 0, len(matches))
	for _, match := range matches {
		if match.AddressType == excludedAddressType {
			continue
		}
		results = append(results, geo.SearchResult{
			Coordinate: match.Coordinate,
			Name:       match.Name,
			FullName:   match.DisplayName,
		})
	}
	return results
}

// lookup returns a non-expired entry's results (lazy expiry).
func (sc *SearchCache) lookup(key string) ([]geo.SearchResult, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	entry, ok := sc.entries[key]
	if !ok {
		return nil, false
	}
	if sc.clock().Sub(entry.CachedAt) >= sc.ttl {
		return nil, false
	}
	return slices.Clone(entry.Results), true
}

// insert stores a fresh entry, clearing the whole cache first when at
// capacity, and persists the result.
func (sc *SearchCache) insert(key string, results []geo.SearchResult) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if len(sc.entries) >= sc.maxEntries {
		logger.Info("Search cache full, clearing", "size", len(sc.entries))
		sc.metrics.RecordCacheEviction("search")
		sc.entries = make(map[string]SearchEntry)
	}

	// Clone so the caller's slice cannot mutate the cached entry.
	sc.entries[key] = SearchEntry{
		Results:  slices.Clone(results),
		CachedAt: sc.clock(),
	}
	sc.persistLocked()
}

// Len returns the number of entries currently held, expired or not.
func (sc *SearchCache) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.entries)
}

// load restores the persisted cache; any failure starts empty.
func (sc *SearchCache) load() {
	raw, ok, err := sc.store.Get(searchCacheStorageKey)
	if err != nil || !ok {
		return
	}
	var entries map[string]SearchEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logger.Warn("Discarding corrupt persisted search cache", "error", err)
		return
	}
	if entries == nil {
		// A literal null document decodes without error but yields a nil
		// map; treat it as absence so inserts never hit a nil map.
		return
	}
	sc.entries = entries
}

// persistLocked serializes the whole cache to the store.
func (sc *SearchCache) persistLocked() {
	raw, err := json.Marshal(sc.entries)
	if err != nil {
		logger.Error("Failed to serialize search cache", "error", err)
		return
	}
	if err := sc.store.Set(searchCacheStorageKey, string(raw)); err != nil {
		logger.Error("Failed to persist search cache", "error", err)
	}
}
