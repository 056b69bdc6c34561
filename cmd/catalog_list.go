package cmd

import (

	"github.com/spf13/cobra"

	"github.com/zjrosen/packscheduler/internal/presentation"
)

var (
	catalogFromStore bool
	catalogOpenOnly  bool
)

var catalogListCmd = &cobra.Command{
	Use:   "catalog:list",
	Short: "List the course catalog",
	Long: `List every course in the catalog with its meeting time, instructor,
open seats and waitlist length.

Courses are read from the course records file unless --store is given, in
which case the last term saved to the SQLite store is shown.

Examples:
  # List the catalog as JSON
  packsched catalog:list

  # Render a table
  packsched catalog:list --format table

  # Only sections with open seats
  packsched catalog:list --open

  # Seat counts from the stored term
  packsched catalog:list --store | jq '.[] | {key, open_seats}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := openTerm(ctx, !catalogFromStore)
		if err != nil {
			return err
		}
		defer env.Close()

		if catalogFromStore {
			if err := env.loadStoredTerm(ctx); err != nil {
				return err
			}
		}

		courses := presentation.FromDomainCourses(env.manager.Catalog().Courses())
		if catalogOpenOnly {
			open := courses[:0]
			for _, c := range courses {
				if c.OpenSeats > 0 {
					open = append(open, c)
				}
			}
			courses = open
		}

		return presentation.NewFormatter(cmd.OutOrStdout(), outFormat).FormatCourses(courses)
	},
}

func init() {
	catalogListCmd.Flags().BoolVar(&catalogFromStore, "store", false, "read the term from the SQLite store")
	catalogListCmd.Flags().BoolVar(&catalogOpenOnly, "open", false, "only list sections with open seats")
	rootCmd.AddCommand(catalogListCmd)
}
