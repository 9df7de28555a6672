// Package plant implements collection management subcommands.
package plant

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/care"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/conf"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/datastore"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/species"
)

// Command creates the plant command with its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plant",
		Short: "Manage the plant collection",
	}

	cmd.AddCommand(
		listCommand(settings),
		addCommand(settings),
		doneCommand(settings),
	)
	return cmd
}

func openStore(settings *conf.Settings) (*datastore.PlantStore, error) {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return nil, fmt.Errorf("failed to open plant database: %w", err)
	}
	return store, nil
}

func listCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plants and their task schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			plants, err := store.ListPlants()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(plants) == 0 {
				fmt.Fprintln(out, "No plants yet. Add one with 'bonsaikeeper plant add'.")
				return nil
			}

			now := time.Now()
			for i := range plants {
				p := &plants[i]
				fmt.Fprintf(out, "%s  %s (%s)\n", p.ID, p.Name, p.SpeciesQuery)
				for _, status := range care.Statuses(p, now) {
					switch status.State {
					case care.StateNever:
						fmt.Fprintf(out, "    %-12s never done\n", status.Key)
					case care.StateOverdue:
						fmt.Fprintf(out, "    %-12s OVERDUE since %s\n", status.Key, status.DueAt.Format("2006-01-02"))
					default:
						fmt.Fprintf(out, "    %-12s due in %d day(s)\n", status.Key, status.DaysLeft)
					}
				}
			}
			return nil
		},
	}
}

func addCommand(settings *conf.Settings) *cobra.Command {
	var speciesQuery string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a plant to the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			record := model.NewPlantRecord(args[0], speciesQuery, time.Now())
			record.Tasks = care.DefaultTasks()

			if speciesQuery != "" {
				catalog, catErr := species.DefaultCatalog()
				if catErr != nil {
					return catErr
				}
				if match := species.NewResolver(catalog).Resolve(speciesQuery); match != nil {
					if len(match.Record.Tasks) > 0 {
						record = care.MergeSpeciesTasks(record, match.Record.Tasks)
					}
					note := match.Record.ScientificName
					if match.GenusFallback {
						note += " (genus-level match)"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Matched species: %s\n", note)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "No species match for %q, using default care schedule.\n", speciesQuery)
				}
			}

			if err := store.SavePlant(&record); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added plant %s (%s)\n", record.Name, record.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&speciesQuery, "species", "", "Species name to resolve against the catalog")
	return cmd
}

func doneCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "done [plant-id] [task-key]",
		Short: "Record a completed care task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			record, err := store.GetPlant(args[0])
			if err != nil {
				return err
			}

			updated, err := care.MarkDone(record, args[1], time.Now())
			if err != nil {
				return err
			}
			if err := store.SavePlant(&updated); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s.\n", args[1], updated.Name)
			return nil
		},
	}
}
