// Package geocode memoizes reverse-geocoding and place-search lookups
// against a rate-limited external provider, with TTL-bounded, size-bounded
// caches persisted across sessions.
package geocode

import (
	"context"
	"io"
	"log"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/tphakala/daylight-go/internal/geo"
	"github.com/tphakala/daylight-go/internal/logging"
	"golang.org/x/time/rate"
)

// Package-level logger specific to the geocode service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "geocode.log")
	serviceLevelVar.Set(slog.LevelInfo)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "geocode", serviceLevelVar)
	if err != nil {
		// Fallback: log the setup failure and keep a disabled logger so
		// callers never hit a nil logger.
		log.Printf("Failed to initialize geocode file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "geocode")
		closeLogger = func() error { return nil }
	}
}

// Close flushes and closes the service log writer.
func Close() error {
	return closeLogger()
}

// PlaceMatch is one raw place-search candidate as returned by the external
// provider, before filtering.
type PlaceMatch struct {
	geo.Coordinate
	Name        string
	DisplayName string
	AddressType string
}

// Provider is the external geocoding collaborator. Both operations issue
// one network request; neither caches.
type Provider interface {
	// ReverseGeocode resolves a coordinate to a place name.
	ReverseGeocode(ctx context.Context, coord geo.Coordinate, language string) (string, error)
	// SearchPlaces resolves free-text into place candidates.
	SearchPlaces(ctx context.Context, query string) ([]PlaceMatch, error)
}

// Clock abstracts the current-time source so cache TTL behavior is
// testable with fixed timestamps.
type Clock func() time.Time

// NewLimiter builds the pacing limiter for external provider calls: one
// call per interval, no burst. One limiter must be shared by every cache
// talking to the same provider so concurrent resolutions cannot exceed the
// provider's rate limit.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		interval = time.Second
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
