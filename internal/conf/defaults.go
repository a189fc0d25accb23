package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Default location: London. Used both as the configured observer position
// and as the last-resort fallback when no location was ever resolved.
const (
	DefaultLatitude  = 51.5074456
	DefaultLongitude = -0.1277653
)

// Geocoding defaults. Nominatim allows at most one request per second, so
// the rate limit must stay at or above one second unless the base URL
// points at a self-hosted instance.
const (
	DefaultGeocodingBaseURL  = "https://nominatim.openstreetmap.org"
	DefaultGeocodingTimeout  = 10 * time.Second
	DefaultCacheTTL          = 7 * 24 * time.Hour
	DefaultCacheMaxEntries   = 100
	DefaultGeocodingInterval = time.Second
)

// Device position request defaults.
const (
	DefaultGeolocationTimeout = 30 * time.Second
	DefaultMaximumAge         = time.Hour
)

// setDefaultConfig seeds viper with the default values for every setting.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("location.latitude", DefaultLatitude)
	viper.SetDefault("location.longitude", DefaultLongitude)
	viper.SetDefault("location.locale", "en")
	viper.SetDefault("location.language", "en")

	viper.SetDefault("geocoding.baseurl", DefaultGeocodingBaseURL)
	viper.SetDefault("geocoding.timeout", DefaultGeocodingTimeout)
	viper.SetDefault("geocoding.cachettl", DefaultCacheTTL)
	viper.SetDefault("geocoding.cachemaxentries", DefaultCacheMaxEntries)
	viper.SetDefault("geocoding.ratelimit", DefaultGeocodingInterval)

	viper.SetDefault("geolocation.enablehighaccuracy", false)
	viper.SetDefault("geolocation.timeout", DefaultGeolocationTimeout)
	viper.SetDefault("geolocation.maximumage", DefaultMaximumAge)

	viper.SetDefault("storage.type", "file")
	viper.SetDefault("storage.path", "daylight-store.json")
}

// defaultSettings returns a Settings populated with the defaults, used for
// writing the initial config file.
func defaultSettings() *Settings {
	return &Settings{
		Debug: false,
		Location: LocationSettings{
			Latitude:  DefaultLatitude,
			Longitude: DefaultLongitude,
			Locale:    "en",
			Language:  "en",
		},
		Geocoding: GeocodingSettings{
			BaseURL:         DefaultGeocodingBaseURL,
			Timeout:         DefaultGeocodingTimeout,
			CacheTTL:        DefaultCacheTTL,
			CacheMaxEntries: DefaultCacheMaxEntries,
			RateLimit:       DefaultGeocodingInterval,
		},
		Geolocation: GeolocationSettings{
			EnableHighAccuracy: false,
			Timeout:            DefaultGeolocationTimeout,
			MaximumAge:         DefaultMaximumAge,
		},
		Storage: StorageSettings{
			Type: "file",
			Path: "daylight-store.json",
		},
	}
}
