package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/packscheduler/internal/export"
)

var (
	exportOut       string
	exportSheet     string
	exportFromStore bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog and rolls to a spreadsheet",
	Long: `Write the course catalog and every roster and waitlist to an xlsx workbook.

The first sheet lists courses with seat counts; the Rolls sheet lists each
enrolled or waitlisted student with their position. Rolls are only populated
when exporting the stored term.

Examples:
  # Export the record files
  packsched export --out catalog.xlsx

  # Export the stored term, rolls included
  packsched export --out term.xlsx --store --sheet "Fall 2026"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := openTerm(ctx, !exportFromStore)
		if err != nil {
			return err
		}
		defer env.Close()

		if exportFromStore {
			if err := env.loadStoredTerm(ctx); err != nil {
				return err
			}
		}

		sheet := exportSheet
		if sheet == "" {
			sheet = cfg.Export.SheetName
		}
		courses := env.manager.Catalog().Courses()
		if err := export.SaveWorkbook(exportOut, courses, export.Options{SheetName: sheet}); err != nil {
			return fmt.Errorf("exporting workbook: %w", err)
		}
		cmd.PrintErrf("wrote %d courses to %s\n", len(courses), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "xlsx file to write")
	exportCmd.Flags().StringVar(&exportSheet, "sheet", "", "catalog sheet name (default from export.sheet_name)")
	exportCmd.Flags().BoolVar(&exportFromStore, "store", false, "export the term saved in the SQLite store")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
