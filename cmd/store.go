package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/packscheduler/internal/config"
	"github.com/zjrosen/packscheduler/internal/infrastructure/sqlite"
	"github.com/zjrosen/packscheduler/internal/presentation"
	"github.com/zjrosen/packscheduler/internal/registration"
)

var (
	storeExportDir    string
	storeUpdateConfig bool
)

var storeImportCmd = &cobra.Command{
	Use:   "store:import",
	Short: "Copy the record files into the SQLite term store",
	Long: `Read the course, student and faculty record files and save them as the
current term in the SQLite store, replacing whatever was stored before. A
snapshot entry is recorded for every import.

Examples:
  packsched store:import
  packsched store:import --data-dir ./fall2026`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := openTerm(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		db, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		store := db.TermStore()
		if _, err := store.Save(ctx, env.snapshot()); err != nil {
			return fmt.Errorf("saving term: %w", err)
		}
		snapshots, err := store.Snapshots(ctx)
		if err != nil {
			return fmt.Errorf("listing snapshots: %w", err)
		}
		return presentation.NewFormatter(cmd.OutOrStdout(), outFormat).FormatSnapshots(snapshotDTOs(snapshots[:1]))
	},
}

var storeExportCmd = &cobra.Command{
	Use:   "store:export",
	Short: "Write the stored term back to record files",
	Long: `Load the term from the SQLite store and write course, student and faculty
record files. Files go to the configured record paths unless --dir is given.

Examples:
  # Overwrite the configured record files
  packsched store:export

  # Write into another directory and point the config at it
  packsched store:export --dir ./backup --update-config`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := openTerm(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.loadStoredTerm(ctx); err != nil {
			return err
		}

		records := env.records()
		if storeExportDir != "" {
			records = registration.Records{
				Courses:  filepath.Join(storeExportDir, filepath.Base(records.Courses)),
				Students: filepath.Join(storeExportDir, filepath.Base(records.Students)),
				Faculty:  filepath.Join(storeExportDir, filepath.Base(records.Faculty)),
			}
		}
		if err := env.manager.SaveRecords(records); err != nil {
			return fmt.Errorf("writing records: %w", err)
		}

		if storeUpdateConfig && storeExportDir != "" {
			abs, err := absRecords(records)
			if err != nil {
				return err
			}
			if err := config.SaveRecords(configPath(), abs); err != nil {
				return fmt.Errorf("updating config: %w", err)
			}
		}
		cmd.PrintErrf("wrote %s, %s and %s\n", records.Courses, records.Students, records.Faculty)
		return nil
	},
}

var storeSnapshotsCmd = &cobra.Command{
	Use:   "store:snapshots",
	Short: "List terms saved to the SQLite store",
	Long: `List every save recorded in the term store, newest first.

Examples:
  packsched store:snapshots --format table`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		snapshots, err := db.TermStore().Snapshots(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing snapshots: %w", err)
		}
		return presentation.NewFormatter(cmd.OutOrStdout(), outFormat).FormatSnapshots(snapshotDTOs(snapshots))
	},
}

func init() {
	storeExportCmd.Flags().StringVar(&storeExportDir, "dir", "", "directory to write record files into")
	storeExportCmd.Flags().BoolVar(&storeUpdateConfig, "update-config", false, "point records.* in the config at the files written to --dir")
	rootCmd.AddCommand(storeImportCmd, storeExportCmd, storeSnapshotsCmd)
}

func absRecords(rec registration.Records) (config.RecordsConfig, error) {
	var out config.RecordsConfig
	for _, p := range []struct {
		src string
		dst *string
	}{
		{rec.Courses, &out.Courses},
		{rec.Students, &out.Students},
		{rec.Faculty, &out.Faculty},
	} {
		abs, err := filepath.Abs(p.src)
		if err != nil {
			return out, err
		}
		*p.dst = abs
	}
	return out, nil
}

func snapshotDTOs(snapshots []sqlite.Snapshot) []presentation.SnapshotDTO {
	dtos := make([]presentation.SnapshotDTO, len(snapshots))
	for i, s := range snapshots {
		dtos[i] = presentation.SnapshotDTO{
			ID:          s.ID,
			SavedAt:     s.SavedAt,
			Courses:     s.Courses,
			Students:    s.Students,
			Faculty:     s.Faculty,
			Enrollments: s.Enrollments,
		}
	}
	return dtos
}
