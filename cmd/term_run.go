package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/packscheduler/internal/flags"
	"github.com/zjrosen/packscheduler/internal/log"
	"github.com/zjrosen/packscheduler/internal/presentation"
	"github.com/zjrosen/packscheduler/internal/scenario"
)

var (
	termScenario  string
	termPersist   bool
	termFromStore bool
	termStrict    bool
)

var termRunCmd = &cobra.Command{
	Use:   "term:run",
	Short: "Replay a registration scenario against the term",
	Long: `Run the login, enroll, drop, reset and faculty assignment steps of a
scenario file in order and report the outcome of each step.

A step that is rejected (wrong password, schedule conflict, full waitlist) is
reported and the run continues. Use --strict to exit non-zero when any step
fails.

Scenario format:
  name: add-drop
  persist: true            # save the resulting term to the store
  steps:
    - {action: login, user: zking, password: pw}
    - {action: enroll, course: CSC216, section: "001"}
    - {action: drop, course: CSC216, section: "001"}
    - {action: reset}
    - {action: logout}
    - {action: login, user: registrar, password: pw}
    - {action: assign, course: CSC216, section: "001", faculty: sesmith5}
    - {action: unassign, course: CSC216, section: "001", faculty: sesmith5}
    - {action: reset-faculty, faculty: sesmith5}

Built-in scenarios (faculty, register, waitlist) are selected with the
builtin: prefix.

Examples:
  # Run a scenario file
  packsched term:run --scenario add-drop.yaml

  # Run a built-in scenario and show a table
  packsched term:run -s builtin:waitlist --format table

  # Continue from the stored term and save the result
  packsched term:run -s add-drop.yaml --from-store --persist`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario.Resolve(termScenario)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		env, err := openTerm(ctx, !termFromStore)
		if err != nil {
			return err
		}
		defer env.Close()

		if termFromStore {
			if err := env.loadStoredTerm(ctx); err != nil {
				return err
			}
		}

		results, err := scenario.NewRunner(env.manager).Run(ctx, sc)
		if err != nil {
			return fmt.Errorf("running scenario: %w", err)
		}

		if err := presentation.NewFormatter(cmd.OutOrStdout(), outFormat).FormatSteps(stepDTOs(results)); err != nil {
			return err
		}

		if termPersist || sc.Persist {
			id, err := env.saveStoredTerm(ctx)
			if err != nil {
				return err
			}
			log.Info(log.CatDB, "Scenario term saved", "scenario", sc.Name, "snapshot", id)
			cmd.PrintErrf("saved term snapshot %s\n", id)
		}
		if env.flags.Enabled(flags.FlagAutosaveRecords) {
			if err := env.manager.SaveRecords(env.records()); err != nil {
				return fmt.Errorf("saving records: %w", err)
			}
		}

		if termStrict && scenario.Failed(results) > 0 {
			return fmt.Errorf("%d of %d steps failed", scenario.Failed(results), len(results))
		}
		return nil
	},
}

func init() {
	termRunCmd.Flags().StringVarP(&termScenario, "scenario", "s", "", "scenario file, or builtin:<name>")
	termRunCmd.Flags().BoolVar(&termPersist, "persist", false, "save the resulting term to the SQLite store")
	termRunCmd.Flags().BoolVar(&termFromStore, "from-store", false, "start from the stored term instead of the record files")
	termRunCmd.Flags().BoolVar(&termStrict, "strict", false, "exit non-zero if any step fails")
	_ = termRunCmd.MarkFlagRequired("scenario")
	rootCmd.AddCommand(termRunCmd)
}

func stepDTOs(results []scenario.Result) []presentation.StepResultDTO {
	dtos := make([]presentation.StepResultDTO, len(results))
	for i, r := range results {
		user := r.Step.User
		if r.Step.Action == scenario.ActionAssign || r.Step.Action == scenario.ActionUnassign {
			user = r.Step.Faculty
		}
		dtos[i] = presentation.StepResultDTO{
			Index:  r.Index,
			Action: string(r.Step.Action),
			User:   user,
			Target: r.Step.Target(),
			OK:     r.OK,
			Error:  r.Message(),
		}
		for _, e := range r.Events {
			dtos[i].Events = append(dtos[i].Events, presentation.EventDTO{
				Type:      string(e.Type),
				Student:   e.Payload.StudentID,
				Course:    e.Payload.Course,
				OpenSeats: e.Payload.OpenSeats,
				Waitlist:  e.Payload.Waitlist,
			})
		}
	}
	return dtos
}
