// Package serve implements the HTTP API subcommand.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/advisory"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/api"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/conf"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/datastore"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/geoastro"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/logging"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/observability/metrics"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/species"
)

const shutdownTimeout = 10 * time.Second

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				settings.WebServer.Port = port
			}
			return runServer(settings)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (defaults from config)")
	return cmd
}

func runServer(settings *conf.Settings) error {
	registry := prometheus.NewRegistry()
	gatewayMetrics, err := metrics.NewGatewayMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	catalog, err := species.DefaultCatalog()
	if err != nil {
		return err
	}

	gateway := geoastro.NewGateway(settings, gatewayMetrics)
	defer gateway.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	if settings.WebServer.Debug {
		e.Use(middleware.Logger())
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	controller := api.New(e, store, settings, species.NewResolver(catalog), gateway, advisory.New(nil), api.WithMetrics(gatewayMetrics))
	defer controller.Close()

	errChan := make(chan error, 1)
	go func() {
		addr := ":" + settings.WebServer.Port
		logging.Info("Starting API server", "addr", addr)
		if serveErr := e.Start(addr); serveErr != nil && serveErr != http.ErrServerClosed {
			errChan <- serveErr
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logging.Info("Shutting down API server", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(ctx)
	}
}
