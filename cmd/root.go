// Package cmd assembles the command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bonsaikeeper/bonsaikeeper-go/cmd/advise"
	"github.com/bonsaikeeper/bonsaikeeper-go/cmd/plant"
	"github.com/bonsaikeeper/bonsaikeeper-go/cmd/serve"
	"github.com/bonsaikeeper/bonsaikeeper-go/cmd/species"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bonsaikeeper",
		Short: "BonsaiKeeper CLI",
		Long:  "Track a bonsai collection: recurring care schedules, species lookups and seasonal action recommendations.",
	}

	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	rootCmd.AddCommand(
		advise.Command(settings),
		plant.Command(settings),
		species.Command(settings),
		serve.Command(settings),
	)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Node.Locale, "locale", viper.GetString("node.locale"), "Language code for species names and provider responses")
	rootCmd.PersistentFlags().Float64Var(&settings.Location.Latitude, "latitude", viper.GetFloat64("location.latitude"), "Latitude of the collection's home location")
	rootCmd.PersistentFlags().Float64Var(&settings.Location.Longitude, "longitude", viper.GetFloat64("location.longitude"), "Longitude of the collection's home location")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}
