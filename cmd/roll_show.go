package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/packscheduler/internal/domain"
	"github.com/zjrosen/packscheduler/internal/presentation"
)

var (
	rollCourse     string
	rollSection    string
	rollFromRecord bool
)

var rollShowCmd = &cobra.Command{
	Use:   "roll:show",
	Short: "Show a course's roster and waitlist",
	Long: `Show who holds a seat in a course and who is waiting, in order.

Rolls come from the SQLite term store, since record files do not carry
enrollments. Without --course every course in the term is shown.

Examples:
  # One section
  packsched roll:show --course CSC216 --section 001

  # Every roll as a table
  packsched roll:show --format table

  # Waitlisted students only
  packsched roll:show --course CSC216 --section 001 | jq '.[0].waitlist'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := openTerm(ctx, rollFromRecord)
		if err != nil {
			return err
		}
		defer env.Close()

		if !rollFromRecord {
			if err := env.loadStoredTerm(ctx); err != nil {
				return err
			}
		}

		var courses []*domain.Course
		if rollCourse != "" {
			course, err := env.manager.Catalog().Get(ctx, rollCourse, rollSection)
			if err != nil {
				return err
			}
			courses = append(courses, course)
		} else {
			courses = env.manager.Catalog().Courses()
		}

		rolls := make([]presentation.RollDTO, len(courses))
		for i, c := range courses {
			rolls[i] = presentation.FromDomainRoll(c)
		}
		return presentation.NewFormatter(cmd.OutOrStdout(), outFormat).FormatRolls(rolls)
	},
}

func init() {
	rollShowCmd.Flags().StringVar(&rollCourse, "course", "", "course name, e.g. CSC216")
	rollShowCmd.Flags().StringVar(&rollSection, "section", "001", "three digit section")
	rollShowCmd.Flags().BoolVar(&rollFromRecord, "records", false, "read the record files instead of the store (rolls are empty)")
	rootCmd.AddCommand(rollShowCmd)
}
