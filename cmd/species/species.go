// Package species implements the species lookup subcommand.
package species

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/conf"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/species"
)

// Command creates the species command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "species [query]",
		Short: "Resolve a species name against the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := species.DefaultCatalog()
			if err != nil {
				return err
			}

			match := species.NewResolver(catalog).Resolve(args[0])
			out := cmd.OutOrStdout()
			if match == nil {
				fmt.Fprintf(out, "No match for %q.\n", args[0])
				return nil
			}

			fmt.Fprintf(out, "Matched: %s (rule: %s)\n", match.Record.ScientificName, match.Rule)
			if match.GenusFallback {
				fmt.Fprintln(out, "Note: genus-level fallback; care advice is approximate.")
			}
			if names := match.Record.CommonNames[settings.Node.Locale]; len(names) > 0 {
				fmt.Fprintf(out, "Common names: %v\n", names)
			}
			if advice := match.Record.CareAdvice; advice != nil {
				fmt.Fprintf(out, "Light:       %s\n", advice.Light)
				fmt.Fprintf(out, "Watering:    %s\n", advice.Watering)
				fmt.Fprintf(out, "Fertilizing: %s\n", advice.Fertilizing)
				fmt.Fprintf(out, "Pruning:     %s\n", advice.Pruning)
				fmt.Fprintf(out, "Substrate:   %s\n", advice.Substrate)
				fmt.Fprintf(out, "Repotting:   %s\n", advice.Repotting)
			}
			return nil
		},
	}
}
