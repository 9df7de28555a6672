// Package geoastro resolves place names and device coordinates to
// locations and fetches astronomical daily data for them, caching every
// successful lookup so repeat requests within the TTL window never touch
// the network.
package geoastro

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/conf"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/errors"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/logging"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/observability/metrics"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/ttlcache"
)

const (
	RequestTimeout = 10 * time.Second
	UserAgent      = "BonsaiKeeper-Go https://github.com/bonsaikeeper/bonsaikeeper-go"
)

// Package-level logger specific to the geoastro service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar) // Dynamic level control
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "geoastro.log")
	serviceLevelVar.Set(slog.LevelDebug)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "geoastro", serviceLevelVar)
	if err != nil {
		// Fallback to a disabled logger that still respects the level var
		log.Printf("Failed to initialize geoastro file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "geoastro")
		closeLogger = func() error { return nil }
	}
}

// GeocodingProvider resolves place names and coordinates to candidate
// locations. May return zero results.
type GeocodingProvider interface {
	Search(name, lang string) ([]model.Location, error)
	Reverse(lat, lon float64, lang string) ([]model.Location, error)
}

// AstronomyProvider returns astronomical daily data for a date range.
// A response missing the daily date series is a failure, not a valid
// empty result.
type AstronomyProvider interface {
	DailyAstronomy(lat, lon float64, timezone, start, end string) ([]model.AstronomyDay, error)
}

// Gateway combines the providers with TTL caches and a local timezone
// fallback. It owns no Location values; callers hold what it returns.
type Gateway struct {
	geocoder  GeocodingProvider
	astronomy AstronomyProvider

	locationCache  *ttlcache.Store[model.Location]
	astronomyCache *ttlcache.Store[[]model.AstronomyDay]

	fallbackTimezone *time.Location
	concurrency      int
	metrics          *metrics.GatewayMetrics
}

// NewGateway creates a gateway from settings. Metrics may be nil.
func NewGateway(settings *conf.Settings, gatewayMetrics *metrics.GatewayMetrics) *Gateway {
	httpClient := &http.Client{Timeout: RequestTimeout}

	concurrency := settings.Astronomy.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Gateway{
		geocoder:         newOpenMeteoGeocoder(settings.Geocoding.Endpoint, httpClient),
		astronomy:        newDailyAstronomyClient(settings.Astronomy.Endpoint, httpClient),
		locationCache:    ttlcache.New[model.Location](settings.Geocoding.CacheTTL),
		astronomyCache:   ttlcache.New[[]model.AstronomyDay](settings.Astronomy.CacheTTL),
		fallbackTimezone: settings.TimezoneLocation(),
		concurrency:      concurrency,
		metrics:          gatewayMetrics,
	}
}

// NewGatewayWithProviders wires explicit providers, used by tests and by
// callers that bring their own transport.
func NewGatewayWithProviders(geocoder GeocodingProvider, astronomy AstronomyProvider, cacheTTL time.Duration, fallbackTZ *time.Location, concurrency int) *Gateway {
	if concurrency < 1 {
		concurrency = 1
	}
	if fallbackTZ == nil {
		fallbackTZ = time.Local
	}
	return &Gateway{
		geocoder:         geocoder,
		astronomy:        astronomy,
		locationCache:    ttlcache.New[model.Location](cacheTTL),
		astronomyCache:   ttlcache.New[[]model.AstronomyDay](cacheTTL),
		fallbackTimezone: fallbackTZ,
		concurrency:      concurrency,
	}
}

// Close releases the service logger.
func (g *Gateway) Close() {
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			log.Printf("Error closing geoastro logger: %v", err)
		}
	}
}

// normalizeQuery lowercases and collapses whitespace for cache keying.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// roundCoord reduces coordinate precision for cache keying; four decimals
// is roughly 11 meters, well below geocoding resolution.
func roundCoord(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func newGatewayError(err error, category errors.ErrorCategory, operation, provider string) error {
	return errors.New(err).
		Component("geoastro").
		Category(category).
		Context("operation", operation).
		Context("provider", provider).
		Build()
}
