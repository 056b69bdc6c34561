// Package export writes the catalog and course rolls to an xlsx workbook.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/zjrosen/packscheduler/internal/domain"
	"github.com/zjrosen/packscheduler/internal/log"
)

// DefaultSheetName names the catalog sheet when none is configured.
const DefaultSheetName = "Catalog"

// RollSheetName names the sheet listing every roster and waitlist entry.
const RollSheetName = "Rolls"

var ErrNoCourses = errors.New("no courses to export")

var catalogHeader = []string{"Name", "Section", "Title", "Credits", "Instructor", "Meeting", "Cap", "Enrolled", "Open Seats", "Waitlist"}

var rollHeader = []string{"Course", "Student", "Status", "Position"}

// Options configures the workbook layout.
type Options struct {
	SheetName string
}

// WriteWorkbook renders courses and their rolls as xlsx to w.
func WriteWorkbook(w io.Writer, courses []*domain.Course, opts Options) error {
	f, err := build(courses, opts)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook to path.
func SaveWorkbook(path string, courses []*domain.Course, opts Options) error {
	f, err := build(courses, opts)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	log.Info(log.CatExport, "Workbook saved", "file", path, "courses", len(courses))
	return nil
}

func build(courses []*domain.Course, opts Options) (*excelize.File, error) {
	if len(courses) == 0 {
		return nil, ErrNoCourses
	}
	sheet := opts.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if _, err := f.NewSheet(RollSheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("add roll sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#CC0000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	rows := make([][]any, 0, len(courses))
	var rollRows [][]any
	for _, c := range courses {
		roll := c.Roll()
		rows = append(rows, []any{
			c.Name(), c.Section(), c.Title(), c.Credits(), c.InstructorID(), c.MeetingString(),
			roll.EnrollmentCap(), len(roll.Roster()), roll.OpenSeats(), roll.NumberOnWaitlist(),
		})
		for i, s := range roll.Roster() {
			rollRows = append(rollRows, []any{c.Key(), s.ID(), domain.Enrolled.String(), i + 1})
		}
		for i, s := range roll.Waitlist() {
			rollRows = append(rollRows, []any{c.Key(), s.ID(), domain.Waitlisted.String(), i + 1})
		}
	}

	if err := writeTable(f, sheet, catalogHeader, rows, headerStyle); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeTable(f, RollSheetName, rollHeader, rollRows, headerStyle); err != nil {
		_ = f.Close()
		return nil, err
	}
	_ = f.SetColWidth(sheet, "C", "C", 40)
	_ = f.SetColWidth(sheet, "F", "F", 22)
	f.SetActiveSheet(0)
	return f, nil
}

func writeTable(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, _ := excelize.ColumnNumberToName(len(header))
	_ = f.SetCellStyle(sheet, "A1", last+"1", headerStyle)

	for i, row := range rows {
		cell := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
