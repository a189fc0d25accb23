package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tphakala/daylight-go/internal/errors"
	"github.com/tphakala/daylight-go/internal/geo"
	"github.com/tphakala/daylight-go/internal/httpclient"
)

const (
	nominatimProviderName = "nominatim"

	// reverseZoom selects city-level names from the reverse endpoint.
	reverseZoom = 10

	// searchFeatureType restricts search results to settlements.
	searchFeatureType = "settlement"

	maxBodyPreviewSize = 200 // Maximum characters to show in error logs
)

// reverseResponse is the subset of the Nominatim /reverse payload we rely
// on. Anything without a name is rejected.
type reverseResponse struct {
	Name string `json:"name"`
}

// searchResponseItem is one candidate in the Nominatim /search payload.
// Latitude and longitude arrive as strings and are parsed on the boundary.
type searchResponseItem struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	AddressType string `json:"addresstype"`
}

// NominatimProvider implements Provider against the OpenStreetMap
// Nominatim HTTP API.
type NominatimProvider struct {
	baseURL string
	client  *httpclient.Client
}

// NewNominatimProvider creates a provider for the given base URL. An empty
// baseURL falls back to the public OSM instance.
func NewNominatimProvider(baseURL string, timeout time.Duration) *NominatimProvider {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &NominatimProvider{
		baseURL: baseURL,
		client:  httpclient.New(&httpclient.Config{DefaultTimeout: timeout}),
	}
}

// HTTPClient exposes the underlying client for tests.
func (p *NominatimProvider) HTTPClient() *http.Client {
	return p.client.HTTPClient()
}

// ReverseGeocode implements Provider for the /reverse endpoint.
func (p *NominatimProvider) ReverseGeocode(ctx context.Context, coord geo.Coordinate, language string) (string, error) {
	if err := coord.Validate(); err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	query.Set("zoom", strconv.Itoa(reverseZoom))
	if language != "" {
		query.Set("accept-language", language)
	}
	apiURL := fmt.Sprintf("%s/reverse?%s", p.baseURL, query.Encode())

	logger.Info("Fetching place name", "provider", nominatimProviderName, "lat", coord.Latitude, "lon", coord.Longitude, "language", language)

	body, err := p.fetch(ctx, apiURL, "reverse")
	if err != nil {
		return "", err
	}

	var response reverseResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", errors.New(err).
			Component("geocode").
			Category(errors.CategoryValidation).
			Context("operation", "unmarshal_reverse_response").
			Context("provider", nominatimProviderName).
			Build()
	}
	if response.Name == "" {
		return "", errors.Newf("reverse geocoding response has no name").
			Component("geocode").
			Category(errors.CategoryValidation).
			Context("provider", nominatimProviderName).
			Build()
	}

	return response.Name, nil
}

// SearchPlaces implements Provider for the /search endpoint.
func (p *NominatimProvider) SearchPlaces(ctx context.Context, query string) ([]PlaceMatch, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("featureType", searchFeatureType)
	params.Set("format", "json")
	apiURL := fmt.Sprintf("%s/search?%s", p.baseURL, params.Encode())

	logger.Info("Searching places", "provider", nominatimProviderName, "query", query)

	body, err := p.fetch(ctx, apiURL, "search")
	if err != nil {
		return nil, err
	}

	var items []searchResponseItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, errors.New(err).
			Component("geocode").
			Category(errors.CategoryValidation).
			Context("operation", "unmarshal_search_response").
			Context("provider", nominatimProviderName).
			Build()
	}

	matches := make([]PlaceMatch, 0, len(items))
	for _, item := range items {
		coord, err := parseItemCoordinate(item)
		if err != nil {
			return nil, err
		}
		matches = append(matches, PlaceMatch{
			Coordinate:  coord,
			Name:        item.Name,
			DisplayName: item.DisplayName,
			AddressType: item.AddressType,
		})
	}

	logger.Info("Search completed", "provider", nominatimProviderName, "query", query, "results", len(matches))
	return matches, nil
}

// parseItemCoordinate validates the stringly-typed lat/lon fields of one
// search candidate.
func parseItemCoordinate(item searchResponseItem) (geo.Coordinate, error) {
	lat, err := strconv.ParseFloat(item.Lat, 64)
	if err != nil {
		return geo.Coordinate{}, errors.New(err).
			Component("geocode").
			Category(errors.CategoryValidation).
			Context("operation", "parse_search_latitude").
			Context("provider", nominatimProviderName).
			Build()
	}
	lon, err := strconv.ParseFloat(item.Lon, 64)
	if err != nil {
		return geo.Coordinate{}, errors.New(err).
			Component("geocode").
			Category(errors.CategoryValidation).
			Context("operation", "parse_search_longitude").
			Context("provider", nominatimProviderName).
			Build()
	}

	coord := geo.Coordinate{Latitude: lat, Longitude: lon}
	if err := coord.Validate(); err != nil {
		return geo.Coordinate{}, err
	}
	return coord, nil
}

// fetch issues one GET request and returns the body of a 200 response.
func (p *NominatimProvider) fetch(ctx context.Context, apiURL, operation string) ([]byte, error) {
	resp, err := p.client.Get(ctx, apiURL)
	if err != nil {
		return nil, errors.New(err).
			Component("geocode").
			Category(errors.CategoryNetwork).
			Context("operation", operation).
			Context("provider", nominatimProviderName).
			Build()
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Debug("Failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		logger.Warn("Received non-OK status code",
			"provider", nominatimProviderName,
			"operation", operation,
			"status_code", resp.StatusCode,
			"response_body", truncateBodyPreview(string(bodyBytes)),
		)
		return nil, errors.Newf("received non-OK response: %d", resp.StatusCode).
			Component("geocode").
			Category(errors.CategoryNetwork).
			Context("operation", operation).
			Context("provider", nominatimProviderName).
			Context("status_code", strconv.Itoa(resp.StatusCode)).
			Build()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(err).
			Component("geocode").
			Category(errors.CategoryNetwork).
			Context("operation", operation).
			Context("provider", nominatimProviderName).
			Build()
	}
	return body, nil
}

// truncateBodyPreview truncates response body for logging
func truncateBodyPreview(body string) string {
	if len(body) > maxBodyPreviewSize {
		return body[:maxBodyPreviewSize] + "... (truncated)"
	}
	return body
}
