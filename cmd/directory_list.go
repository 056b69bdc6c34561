package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/packscheduler/internal/presentation"
)

const (
	kindStudent = "student"
	kindFaculty = "faculty"
)

var (
	directoryKind      string
	directoryFromStore bool
)

var directoryListCmd = &cobra.Command{
	Use:   "directory:list",
	Short: "List students or faculty",
	Long: `List the student or faculty directory with each person's schedule.

Students are listed by last name, first name and id. Faculty are listed in the
order they appear in the faculty records. Load is scheduled credits for
students and assigned courses for faculty.

Examples:
  # All students
  packsched directory:list

  # Faculty as a table
  packsched directory:list --kind faculty --format table

  # Overloaded faculty in the stored term
  packsched directory:list --kind faculty --store | jq '.[] | select(.overloaded)'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if directoryKind != kindStudent && directoryKind != kindFaculty {
			return fmt.Errorf("unknown --kind %q (valid: student, faculty)", directoryKind)
		}

		ctx := cmd.Context()
		env, err := openTerm(ctx, !directoryFromStore)
		if err != nil {
			return err
		}
		defer env.Close()

		if directoryFromStore {
			if err := env.loadStoredTerm(ctx); err != nil {
				return err
			}
		}

		var users []presentation.UserDTO
		if directoryKind == kindFaculty {
			for _, f := range env.manager.Faculty().Faculty() {
				users = append(users, presentation.FromDomainFaculty(f))
			}
		} else {
			for _, s := range env.manager.Students().Students() {
				users = append(users, presentation.FromDomainStudent(s))
			}
		}

		return presentation.NewFormatter(cmd.OutOrStdout(), outFormat).FormatUsers(users)
	},
}

func init() {
	directoryListCmd.Flags().StringVarP(&directoryKind, "kind", "k", kindStudent, "directory to list: student or faculty")
	directoryListCmd.Flags().BoolVar(&directoryFromStore, "store", false, "read the term from the SQLite store")
	rootCmd.AddCommand(directoryListCmd)
}
