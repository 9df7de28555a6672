package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/conf"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/errors"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/geoastro"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/species"
)

// SpeciesResponse is the resolver result for one query.
type SpeciesResponse struct {
	Query         string          `json:"query"`
	Rule          string          `json:"rule"`
	GenusFallback bool            `json:"genusFallback"`
	Record        *species.Record `json:"record"`
}

// ResolveSpecies resolves a free-text species query against the catalog.
func (c *Controller) ResolveSpecies(ctx echo.Context) error {
	query := ctx.QueryParam("q")
	if query == "" {
		return c.HandleError(ctx, nil, "Query parameter q is required", http.StatusBadRequest)
	}

	match := c.Resolver.Resolve(query)
	if match == nil {
		return ctx.JSON(http.StatusNotFound, NewErrorResponse(nil, "No species matched the query", http.StatusNotFound))
	}
	c.metrics.RecordResolverMatch(string(match.Rule))

	return ctx.JSON(http.StatusOK, SpeciesResponse{
		Query:         query,
		Rule:          string(match.Rule),
		GenusFallback: match.GenusFallback,
		Record:        match.Record,
	})
}

// Advisory returns upcoming action recommendations for the configured
// location. The look-ahead window defaults from settings and is capped by
// the days query parameter.
func (c *Controller) Advisory(ctx echo.Context) error {
	settings := c.Settings
	if settings == nil || !conf.HasLocation(&settings.Location) {
		err := errors.Newf("no location configured").
			Component("api").
			Category(errors.CategoryState).
			Build()
		return c.HandleError(ctx, err, "No location configured", http.StatusConflict)
	}

	days := settings.Advisory.LookaheadDays
	if raw := ctx.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.HandleError(ctx, err, "Invalid days parameter", http.StatusBadRequest)
		}
		days = parsed
	}

	location, err := c.Gateway.ReverseGeocode(settings.Location.Latitude, settings.Location.Longitude, settings.Node.Locale)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to resolve location", http.StatusBadGateway)
	}

	now := c.now()
	start := now.Format(geoastro.ISODate)
	end := now.AddDate(0, 0, days-1).Format(geoastro.ISODate)

	astronomy, err := c.Gateway.FetchAstronomyDays(location.Latitude, location.Longitude, location.Timezone, start, end)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to fetch astronomy data", http.StatusBadGateway)
	}

	items := c.Engine.Recommend(location, astronomy, settings.Advisory.LunarRule, days)
	logger.Info("Served advisory",
		"label", location.Label,
		"start", start,
		"end", end,
		"items", len(items))
	return ctx.JSON(http.StatusOK, items)
}
