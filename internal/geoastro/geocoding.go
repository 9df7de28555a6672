package geoastro

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/conf"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/errors"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
)

const geocodingProviderName = "open-meteo-geocoding"

// Geocode resolves a free-text place name to a location. The first
// provider result is cached under the normalized query and language; a
// query the provider cannot match fails with a not-found error and is
// never cached.
func (g *Gateway) Geocode(query, lang string) (model.Location, error) {
	normalized := normalizeQuery(query)
	if normalized == "" {
		return model.Location{}, errors.Newf("geocoding query is empty").
			Component("geoastro").
			Category(errors.CategoryValidation).
			Build()
	}

	cacheKey := fmt.Sprintf("geo:%s:%s", lang, normalized)
	if cached, found := g.locationCache.Get(cacheKey); found {
		g.metrics.RecordCacheHit("location")
		logger.Debug("Geocoding cache hit", "cache_key", cacheKey)
		return cached, nil
	}
	g.metrics.RecordCacheMiss("location")

	results, err := g.geocoder.Search(query, lang)
	if err != nil {
		g.metrics.RecordProviderError(geocodingProviderName, "search")
		return model.Location{}, err
	}
	if len(results) == 0 {
		return model.Location{}, errors.Newf("no location found for %q", query).
			Component("geoastro").
			Category(errors.CategoryNotFound).
			Context("query", query).
			Context("lang", lang).
			Build()
	}

	location := g.withTimezoneFallback(results[0])
	g.locationCache.Set(cacheKey, location)

	logger.Info("Geocoded query",
		"query", query,
		"label", location.Label,
		"lat", location.Latitude,
		"lon", location.Longitude,
		"timezone", location.Timezone)
	return location, nil
}

// ReverseGeocode resolves device coordinates to a location, cached by
// rounded coordinates. When the provider cannot supply a timezone or any
// result at all, a minimal location labeled with the coordinates is
// returned with the configured local timezone.
func (g *Gateway) ReverseGeocode(lat, lon float64, lang string) (model.Location, error) {
	if !conf.ValidCoordinates(lat, lon) {
		return model.Location{}, errors.Newf("coordinates out of range: lat %v lon %v", lat, lon).
			Component("geoastro").
			Category(errors.CategoryValidation).
			Context("lat", lat).
			Context("lon", lon).
			Build()
	}

	cacheKey := fmt.Sprintf("rev:%s:%s:%s", roundCoord(lat), roundCoord(lon), lang)
	if cached, found := g.locationCache.Get(cacheKey); found {
		g.metrics.RecordCacheHit("location")
		logger.Debug("Reverse geocoding cache hit", "cache_key", cacheKey)
		return cached, nil
	}
	g.metrics.RecordCacheMiss("location")

	var location model.Location
	results, err := g.geocoder.Reverse(lat, lon, lang)
	switch {
	case err != nil:
		return model.Location{}, err
	case len(results) > 0:
		location = results[0]
		// Providers sometimes place the result slightly off the queried
		// point; keep the device coordinates authoritative.
		location.Latitude = lat
		location.Longitude = lon
		location.Hemisphere = model.HemisphereOf(lat)
	default:
		location = model.Location{
			Latitude:   lat,
			Longitude:  lon,
			Hemisphere: model.HemisphereOf(lat),
			Label:      fmt.Sprintf("(%.4f, %.4f)", lat, lon),
		}
	}

	location = g.withTimezoneFallback(location)
	g.locationCache.Set(cacheKey, location)

	logger.Info("Reverse geocoded coordinates",
		"lat", lat,
		"lon", lon,
		"label", location.Label,
		"timezone", location.Timezone)
	return location, nil
}

// withTimezoneFallback fills a missing timezone with the configured node
// timezone and derives the hemisphere.
func (g *Gateway) withTimezoneFallback(location model.Location) model.Location {
	if location.Timezone == "" {
		location.Timezone = g.fallbackTimezone.String()
		logger.Debug("Provider returned no timezone, using local fallback",
			"timezone", location.Timezone)
	}
	location.Hemisphere = model.HemisphereOf(location.Latitude)
	return location
}

// geocodingResponse is the wire shape of the geocoding API.
type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Timezone  string  `json:"timezone"`
		Country   string  `json:"country"`
		Admin1    string  `json:"admin1"`
	} `json:"results"`
}

// openMeteoGeocoder speaks the Open-Meteo geocoding API.
type openMeteoGeocoder struct {
	baseURL    string
	httpClient *http.Client
}

func newOpenMeteoGeocoder(baseURL string, httpClient *http.Client) *openMeteoGeocoder {
	return &openMeteoGeocoder{baseURL: baseURL, httpClient: httpClient}
}

// Search implements GeocodingProvider.
func (p *openMeteoGeocoder) Search(name, lang string) ([]model.Location, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("count", "1")
	query.Set("format", "json")
	if lang != "" {
		query.Set("language", lang)
	}
	return p.fetch(fmt.Sprintf("%s/search?%s", p.baseURL, query.Encode()), "search")
}

// Reverse implements GeocodingProvider.
func (p *openMeteoGeocoder) Reverse(lat, lon float64, lang string) ([]model.Location, error) {
	query := url.Values{}
	query.Set("latitude", roundCoord(lat))
	query.Set("longitude", roundCoord(lon))
	query.Set("count", "1")
	query.Set("format", "json")
	if lang != "" {
		query.Set("language", lang)
	}
	return p.fetch(fmt.Sprintf("%s/reverse?%s", p.baseURL, query.Encode()), "reverse")
}

func (p *openMeteoGeocoder) fetch(apiURL, operation string) ([]model.Location, error) {
	req, err := http.NewRequest(http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, newGatewayError(err, errors.CategoryNetwork, operation, geocodingProviderName)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, newGatewayError(err, errors.CategoryNetwork, operation, geocodingProviderName)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Debug("Failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, newGatewayError(
			fmt.Errorf("geocoding API returned status %d", resp.StatusCode),
			errors.CategoryNetwork, operation, geocodingProviderName)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newGatewayError(err, errors.CategoryNetwork, operation, geocodingProviderName)
	}

	var decoded geocodingResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, newGatewayError(err, errors.CategoryValidation, operation, geocodingProviderName)
	}

	locations := make([]model.Location, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		label := r.Name
		if r.Country != "" {
			label = fmt.Sprintf("%s, %s", r.Name, r.Country)
		}
		locations = append(locations, model.Location{
			Latitude:   r.Latitude,
			Longitude:  r.Longitude,
			Timezone:   r.Timezone,
			Hemisphere: model.HemisphereOf(r.Latitude),
			Label:      label,
		})
	}
	return locations, nil
}
