// Package advise implements the advisory subcommand: it resolves the
// configured location and prints upcoming action recommendations.
package advise

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/advisory"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/conf"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/errors"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/geoastro"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
)

// Command creates the advise command.
func Command(settings *conf.Settings) *cobra.Command {
	var days int
	var place string

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Print upcoming care recommendations for the configured location",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdvise(cmd, settings, place, days)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Look-ahead window in days (defaults from config)")
	cmd.Flags().StringVar(&place, "place", "", "Resolve this place name instead of the configured coordinates")

	return cmd
}

func runAdvise(cmd *cobra.Command, settings *conf.Settings, place string, days int) error {
	gateway := geoastro.NewGateway(settings, nil)
	defer gateway.Close()

	location, err := resolveLocation(gateway, settings, place)
	if err != nil {
		return err
	}

	if days < 1 {
		days = settings.Advisory.LookaheadDays
	}
	now := time.Now()
	start := now.Format(geoastro.ISODate)
	end := now.AddDate(0, 0, days-1).Format(geoastro.ISODate)

	astronomy, err := gateway.FetchAstronomyDays(location.Latitude, location.Longitude, location.Timezone, start, end)
	if err != nil || len(astronomy) == 0 {
		// Provider unreachable: compute sun events and moon phase locally.
		local := geoastro.NewLocalCalculator(location.Latitude, location.Longitude, settings.TimezoneLocation())
		astronomy, err = local.Days(start, end)
		if err != nil {
			return fmt.Errorf("astronomy unavailable: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Astronomy provider unreachable, using local calculations.")
	}

	engine := advisory.New(nil)
	items := engine.Recommend(location, astronomy, settings.Advisory.LunarRule, days)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recommendations for %s (%s hemisphere), next %d days:\n",
		location.Label, location.Hemisphere, days)
	if len(items) == 0 {
		fmt.Fprintln(out, "  Nothing to do in this window.")
		return nil
	}
	for _, item := range items {
		phase := "-"
		if item.MoonPhase != nil {
			phase = fmt.Sprintf("%s (%.0f%%)", item.PhaseName, *item.MoonPhase*100)
		}
		actions := make([]string, 0, len(item.Actions))
		for _, a := range item.Actions {
			actions = append(actions, string(a))
		}
		fmt.Fprintf(out, "  %s  moon: %-22s  %s\n", item.Date, phase, strings.Join(actions, ", "))
	}
	return nil
}

func resolveLocation(gateway *geoastro.Gateway, settings *conf.Settings, place string) (model.Location, error) {
	if place != "" {
		return gateway.Geocode(place, settings.Node.Locale)
	}
	if !conf.HasLocation(&settings.Location) {
		return model.Location{}, errors.Newf("no location configured; set location.latitude/longitude or pass --place").
			Component("cmd").
			Category(errors.CategoryState).
			Build()
	}
	return gateway.ReverseGeocode(settings.Location.Latitude, settings.Location.Longitude, settings.Node.Locale)
}
