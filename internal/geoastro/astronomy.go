package geoastro

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/errors"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
)

const astronomyProviderName = "astronomy-daily"

// ISODate is the wire format for calendar days.
const ISODate = "2006-01-02"

// FetchAstronomy returns one AstronomyDay per day in [start, end],
// cached by rounded coordinates, timezone and range. The request is tried
// with an ordered list of timezone variants: the supplied timezone first,
// then the provider's "auto" resolution; the first success short-circuits
// and the last error surfaces when every variant fails. Responses without
// a daily date series are treated as failures and never cached.
func (g *Gateway) FetchAstronomy(lat, lon float64, timezone, start, end string) ([]model.AstronomyDay, error) {
	if !validRange(start, end) {
		return nil, errors.Newf("invalid date range %q..%q", start, end).
			Component("geoastro").
			Category(errors.CategoryValidation).
			Build()
	}

	cacheKey := fmt.Sprintf("astro:%s:%s:%s:%s:%s", roundCoord(lat), roundCoord(lon), timezone, start, end)
	if cached, found := g.astronomyCache.Get(cacheKey); found {
		g.metrics.RecordCacheHit("astronomy")
		logger.Debug("Astronomy cache hit", "cache_key", cacheKey)
		return cached, nil
	}
	g.metrics.RecordCacheMiss("astronomy")

	var lastErr error
	for _, variant := range timezoneVariants(timezone) {
		fetchStart := time.Now()
		days, err := g.astronomy.DailyAstronomy(lat, lon, variant, start, end)
		g.metrics.RecordProviderDuration(astronomyProviderName, time.Since(fetchStart).Seconds())

		if err != nil {
			g.metrics.RecordProviderRequest(astronomyProviderName, "error")
			logger.Warn("Astronomy fetch failed",
				"timezone_variant", variant,
				"start", start,
				"end", end,
				"error", err)
			lastErr = err
			continue
		}

		g.metrics.RecordProviderRequest(astronomyProviderName, "success")
		g.astronomyCache.Set(cacheKey, days)
		logger.Info("Fetched astronomy data",
			"timezone_variant", variant,
			"start", start,
			"end", end,
			"days", len(days))
		return days, nil
	}

	return nil, lastErr
}

// FetchAstronomyDays fans out one request per day in [start, end] and
// joins the results. Days the provider cannot supply are dropped rather
// than failing the whole range. Per-day requests run concurrently,
// bounded by the configured concurrency; each day reuses the single-day
// cache entry of FetchAstronomy.
func (g *Gateway) FetchAstronomyDays(lat, lon float64, timezone, start, end string) ([]model.AstronomyDay, error) {
	dates, err := daysInRange(start, end)
	if err != nil {
		return nil, errors.New(err).
			Component("geoastro").
			Category(errors.CategoryValidation).
			Context("start", start).
			Context("end", end).
			Build()
	}

	results := make([]*model.AstronomyDay, len(dates))

	var group errgroup.Group
	group.SetLimit(g.concurrency)
	for i, date := range dates {
		group.Go(func() error {
			days, dayErr := g.FetchAstronomy(lat, lon, timezone, date, date)
			if dayErr != nil || len(days) == 0 {
				logger.Warn("Dropping failed astronomy day", "date", date, "error", dayErr)
				return nil
			}
			results[i] = &days[0]
			return nil
		})
	}
	// Per-day failures are swallowed above; Wait only joins the fan-out.
	_ = group.Wait()

	days := make([]model.AstronomyDay, 0, len(dates))
	for _, day := range results {
		if day != nil {
			days = append(days, *day)
		}
	}
	return days, nil
}

// timezoneVariants is the ordered fallback chain for astronomy requests.
func timezoneVariants(timezone string) []string {
	if timezone == "" || timezone == "auto" {
		return []string{"auto"}
	}
	return []string{timezone, "auto"}
}

func validRange(start, end string) bool {
	s, err := time.Parse(ISODate, start)
	if err != nil {
		return false
	}
	e, err := time.Parse(ISODate, end)
	if err != nil {
		return false
	}
	return !e.Before(s)
}

// daysInRange expands an inclusive ISO date range into individual days.
func daysInRange(start, end string) ([]string, error) {
	s, err := time.Parse(ISODate, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(ISODate, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if e.Before(s) {
		return nil, fmt.Errorf("end date %q before start date %q", end, start)
	}

	var dates []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(ISODate))
	}
	return dates, nil
}

// dailyAstronomyResponse is the wire shape of the astronomy API: one
// entry per day across parallel arrays keyed by the date series.
type dailyAstronomyResponse struct {
	Daily struct {
		Time      []string   `json:"time"`
		Sunrise   []string   `json:"sunrise"`
		Sunset    []string   `json:"sunset"`
		MoonPhase []*float64 `json:"moon_phase"`
		Moonrise  []string   `json:"moonrise"`
		Moonset   []string   `json:"moonset"`
	} `json:"daily"`
}

// dailyAstronomyClient speaks the daily astronomy API over HTTP.
type dailyAstronomyClient struct {
	baseURL    string
	httpClient *http.Client
}

func newDailyAstronomyClient(baseURL string, httpClient *http.Client) *dailyAstronomyClient {
	return &dailyAstronomyClient{baseURL: baseURL, httpClient: httpClient}
}

// DailyAstronomy implements AstronomyProvider.
func (p *dailyAstronomyClient) DailyAstronomy(lat, lon float64, timezone, start, end string) ([]model.AstronomyDay, error) {
	query := url.Values{}
	query.Set("latitude", roundCoord(lat))
	query.Set("longitude", roundCoord(lon))
	query.Set("timezone", timezone)
	query.Set("start_date", start)
	query.Set("end_date", end)
	query.Set("daily", "sunrise,sunset,moon_phase,moonrise,moonset")

	apiURL := fmt.Sprintf("%s/astronomy?%s", p.baseURL, query.Encode())

	req, err := http.NewRequest(http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, newGatewayError(err, errors.CategoryNetwork, "daily_astronomy", astronomyProviderName)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, newGatewayError(err, errors.CategoryNetwork, "daily_astronomy", astronomyProviderName)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Debug("Failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, newGatewayError(
			fmt.Errorf("astronomy API returned status %d", resp.StatusCode),
			errors.CategoryNetwork, "daily_astronomy", astronomyProviderName)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newGatewayError(err, errors.CategoryNetwork, "daily_astronomy", astronomyProviderName)
	}

	var decoded dailyAstronomyResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, newGatewayError(err, errors.CategoryValidation, "daily_astronomy", astronomyProviderName)
	}

	if len(decoded.Daily.Time) == 0 {
		return nil, newGatewayError(
			fmt.Errorf("astronomy response missing daily time series"),
			errors.CategoryValidation, "daily_astronomy", astronomyProviderName)
	}

	return mapDailyResponse(&decoded, timezone), nil
}

// mapDailyResponse converts the parallel arrays into AstronomyDay records.
// Missing or unparsable values become nil fields; the date series alone is
// authoritative for which days exist.
func mapDailyResponse(resp *dailyAstronomyResponse, timezone string) []model.AstronomyDay {
	loc := time.UTC
	if timezone != "" && timezone != "auto" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			loc = parsed
		}
	}

	days := make([]model.AstronomyDay, 0, len(resp.Daily.Time))
	for i, date := range resp.Daily.Time {
		day := model.AstronomyDay{Date: date}
		day.Sunrise = parseLocalTime(at(resp.Daily.Sunrise, i), loc)
		day.Sunset = parseLocalTime(at(resp.Daily.Sunset, i), loc)
		day.Moonrise = parseLocalTime(at(resp.Daily.Moonrise, i), loc)
		day.Moonset = parseLocalTime(at(resp.Daily.Moonset, i), loc)
		if i < len(resp.Daily.MoonPhase) && resp.Daily.MoonPhase[i] != nil {
			phase := normalizePhase(*resp.Daily.MoonPhase[i])
			day.MoonPhase = &phase
		}
		days = append(days, day)
	}
	return days
}

// at safely indexes a parallel array that may be shorter than the date
// series.
func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// parseLocalTime parses a provider timestamp, either zone-less local time
// or RFC 3339. Returns nil when absent or malformed.
func parseLocalTime(value string, loc *time.Location) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", value, loc); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	return nil
}

// normalizePhase clamps a moon phase fraction into [0,1), wrapping 1.0
// back to new moon.
func normalizePhase(p float64) float64 {
	p = p - float64(int(p))
	if p < 0 {
		p += 1
	}
	return p
}
