// Package api exposes the plant collection, species resolver and
// advisory pipeline as a JSON API.
package api

import (
	"crypto/rand"
	"io"
	"log"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/advisory"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/conf"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/datastore"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/errors"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/logging"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/observability/metrics"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/species"
)

// Package-level logger specific to the API service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "api.log")
	serviceLevelVar.Set(slog.LevelInfo)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "api", serviceLevelVar)
	if err != nil {
		log.Printf("Failed to initialize api file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "api")
		closeLogger = func() error { return nil }
	}
}

// AdvisoryGateway is the slice of the geo-astronomy gateway the API
// consumes.
type AdvisoryGateway interface {
	Geocode(query, lang string) (model.Location, error)
	ReverseGeocode(lat, lon float64, lang string) (model.Location, error)
	FetchAstronomyDays(lat, lon float64, timezone, start, end string) ([]model.AstronomyDay, error)
}

// Controller manages the API routes and handlers.
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	Store    datastore.Store
	Settings *conf.Settings
	Resolver *species.Resolver
	Gateway  AdvisoryGateway
	Engine   *advisory.Engine

	// now is swapped out in tests for deterministic due dates.
	now func() time.Time

	metrics *metrics.GatewayMetrics
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithMetrics attaches the shared gateway metrics to the controller.
func WithMetrics(m *metrics.GatewayMetrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// New creates the API controller and registers its routes.
func New(e *echo.Echo, store datastore.Store, settings *conf.Settings, resolver *species.Resolver, gateway AdvisoryGateway, engine *advisory.Engine, opts ...Option) *Controller {
	c := &Controller{
		Echo:     e,
		Store:    store,
		Settings: settings,
		Resolver: resolver,
		Gateway:  gateway,
		Engine:   engine,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Group = e.Group("/api/v1")
	c.Group.Use(middleware.Recover())
	c.initRoutes()
	return c
}

func (c *Controller) initRoutes() {
	c.Group.GET("/plants", c.ListPlants)
	c.Group.POST("/plants", c.CreatePlant)
	c.Group.GET("/plants/:id", c.GetPlant)
	c.Group.DELETE("/plants/:id", c.DeletePlant)
	c.Group.POST("/plants/:id/tasks/:key/done", c.MarkTaskDone)
	c.Group.POST("/plants/:id/undo/:entry", c.UndoCareEntry)
	c.Group.GET("/species/resolve", c.ResolveSpecies)
	c.Group.GET("/advisory", c.Advisory)
}

// Close releases the service logger.
func (c *Controller) Close() {
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			log.Printf("Error closing api logger: %v", err)
		}
	}
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewErrorResponse creates a new API error response.
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}
	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: generateCorrelationID(),
	}
}

// generateCorrelationID creates a short random identifier for error
// tracking.
func generateCorrelationID() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// HandleError maps an error to the right status code and logs it with
// its correlation ID.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	switch {
	case errors.IsNotFound(err):
		code = http.StatusNotFound
	case errors.IsValidation(err):
		code = http.StatusBadRequest
	}

	resp := NewErrorResponse(err, message, code)
	logger.Error("API error",
		"correlation_id", resp.CorrelationID,
		"path", ctx.Path(),
		"code", code,
		"error", err)
	return ctx.JSON(code, resp)
}
