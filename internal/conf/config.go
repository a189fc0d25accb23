// Package conf loads and validates the application configuration through
// viper, with OS-conventional config file discovery.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"github.com/tphakala/daylight-go/internal/errors"
	"gopkg.in/yaml.v3"
)

// Settings contains all runtime configuration for the application.
type Settings struct {
	Debug bool `yaml:"debug" mapstructure:"debug"`

	Location    LocationSettings    `yaml:"location" mapstructure:"location"`
	Geocoding   GeocodingSettings   `yaml:"geocoding" mapstructure:"geocoding"`
	Geolocation GeolocationSettings `yaml:"geolocation" mapstructure:"geolocation"`
	Storage     StorageSettings     `yaml:"storage" mapstructure:"storage"`
}

// LocationSettings configures the observer position and presentation locale.
type LocationSettings struct {
	Latitude  float64 `yaml:"latitude" mapstructure:"latitude"`
	Longitude float64 `yaml:"longitude" mapstructure:"longitude"`
	Locale    string  `yaml:"locale" mapstructure:"locale"`     // label locale, e.g. "en" or "ru"
	Language  string  `yaml:"language" mapstructure:"language"` // accept-language for geocoding
}

// GeocodingSettings configures the reverse-geocoding and place-search client.
type GeocodingSettings struct {
	BaseURL         string        `yaml:"baseurl" mapstructure:"baseurl"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	CacheTTL        time.Duration `yaml:"cachettl" mapstructure:"cachettl"`
	CacheMaxEntries int           `yaml:"cachemaxentries" mapstructure:"cachemaxentries"`
	RateLimit       time.Duration `yaml:"ratelimit" mapstructure:"ratelimit"` // minimum spacing between external calls
}

// GeolocationSettings configures the device position request.
type GeolocationSettings struct {
	EnableHighAccuracy bool          `yaml:"enablehighaccuracy" mapstructure:"enablehighaccuracy"`
	Timeout            time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaximumAge         time.Duration `yaml:"maximumage" mapstructure:"maximumage"`
}

// StorageSettings selects the persisted key/value store backend.
type StorageSettings struct {
	Type string `yaml:"type" mapstructure:"type"` // "file" or "sqlite"
	Path string `yaml:"path" mapstructure:"path"` // store file path, relative to the config dir when not absolute
}

// Load reads the configuration file (creating a default one on first run)
// and returns the populated Settings.
func Load() (*Settings, error) {
	setDefaultConfig()

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.New(err).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Context("operation", "read-config").
				Build()
		}
		if err := createDefaultConfig(configPaths[0]); err != nil {
			return nil, err
		}
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.New(err).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Context("operation", "read-created-config").
				Build()
		}
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal-config").
			Build()
	}

	if err := Validate(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Validate checks settings for values the rest of the application relies on.
func Validate(settings *Settings) error {
	if settings.Location.Latitude < -90 || settings.Location.Latitude > 90 {
		return errors.Newf("latitude out of range: %f", settings.Location.Latitude).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	if settings.Location.Longitude < -180 || settings.Location.Longitude > 180 {
		return errors.Newf("longitude out of range: %f", settings.Location.Longitude).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	if settings.Geocoding.CacheMaxEntries <= 0 {
		return errors.Newf("geocoding cache size must be positive: %d", settings.Geocoding.CacheMaxEntries).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	switch settings.Storage.Type {
	case "file", "sqlite":
	default:
		return errors.Newf("unsupported storage type: %s", settings.Storage.Type).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

// createDefaultConfig writes the default configuration as YAML so the first
// run leaves an editable file behind.
func createDefaultConfig(configPath string) error {
	if err := os.MkdirAll(configPath, 0o755); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "create-config-dir").
			Build()
	}

	settings := defaultSettings()
	data, err := yaml.Marshal(settings)
	if err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "marshal-default-config").
			Build()
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := os.WriteFile(configFile, data, 0o644); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "write-default-config").
			Build()
	}

	fmt.Printf("Created default config file at %s\n", configFile)
	return nil
}

// StorePath resolves the key/value store path, anchoring relative paths at
// the config directory.
func (s *Settings) StorePath() (string, error) {
	if filepath.IsAbs(s.Storage.Path) {
		return s.Storage.Path, nil
	}
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return "", err
	}
	return filepath.Join(configPaths[0], s.Storage.Path), nil
}
