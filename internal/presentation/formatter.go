package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Output formats
const (
	FormatJSON  = "json"
	FormatTable = "table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CC0000")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	failStyle   = cellStyle.Foreground(lipgloss.Color("#FF5555"))
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	format string
}

// NewFormatter creates a new formatter. Unknown formats fall back to JSON.
func NewFormatter(writer io.Writer, format string) *Formatter {
	if format != FormatTable {
		format = FormatJSON
	}
	return &Formatter{
		writer: writer,
		format: format,
	}
}

// ValidFormat reports whether name is a supported output format.
func ValidFormat(name string) bool {
	return name == FormatJSON || name == FormatTable
}

// FormatCourses formats catalog courses
func (f *Formatter) FormatCourses(courses []CourseDTO) error {
	if f.format == FormatJSON {
		return f.encode(courses)
	}
	rows := make([][]string, len(courses))
	for i, c := range courses {
		rows[i] = []string{c.Name, c.Section, c.Title, strconv.Itoa(c.Credits), c.Instructor, c.Meeting,
			strconv.Itoa(c.OpenSeats), strconv.Itoa(c.Waitlist)}
	}
	return f.table([]string{"Name", "Section", "Title", "Credits", "Instructor", "Meeting", "Open", "Waitlist"}, rows, nil)
}

// FormatUsers formats students or faculty
func (f *Formatter) FormatUsers(users []UserDTO) error {
	if f.format == FormatJSON {
		return f.encode(users)
	}
	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{u.ID, u.Name, u.Email, u.Role, fmt.Sprintf("%d/%d", u.Load, u.Limit), strings.Join(u.Courses, " ")}
	}
	return f.table([]string{"ID", "Name", "Email", "Role", "Load", "Courses"}, rows, nil)
}

// FormatRolls formats course rosters and waitlists
func (f *Formatter) FormatRolls(rolls []RollDTO) error {
	if f.format == FormatJSON {
		return f.encode(rolls)
	}
	rows := make([][]string, len(rolls))
	for i, r := range rolls {
		rows[i] = []string{r.Course, fmt.Sprintf("%d/%d", len(r.Roster), r.Cap), strings.Join(r.Roster, " "), strings.Join(r.Waitlist, " ")}
	}
	return f.table([]string{"Course", "Seats", "Roster", "Waitlist"}, rows, nil)
}

// FormatSteps formats scenario results; failed steps are highlighted in table output.
func (f *Formatter) FormatSteps(steps []StepResultDTO) error {
	if f.format == FormatJSON {
		return f.encode(steps)
	}
	rows := make([][]string, len(steps))
	failed := make(map[int]bool)
	for i, s := range steps {
		result := "ok"
		if !s.OK {
			result = "rejected"
			if s.Error != "" {
				result = s.Error
			}
			failed[i] = true
		}
		changes := make([]string, len(s.Events))
		for j, e := range s.Events {
			changes[j] = e.Type + " " + e.Student + " " + e.Course
		}
		rows[i] = []string{strconv.Itoa(s.Index), s.Action, s.User, s.Target, result, strings.Join(changes, "\n")}
	}
	return f.table([]string{"#", "Action", "User", "Target", "Result", "Changes"}, rows, failed)
}

// FormatSnapshots formats term store snapshots
func (f *Formatter) FormatSnapshots(snapshots []SnapshotDTO) error {
	if f.format == FormatJSON {
		return f.encode(snapshots)
	}
	rows := make([][]string, len(snapshots))
	for i, s := range snapshots {
		rows[i] = []string{s.ID, s.SavedAt.Format(time.DateTime), strconv.Itoa(s.Courses), strconv.Itoa(s.Students),
			strconv.Itoa(s.Faculty), strconv.Itoa(s.Enrollments)}
	}
	return f.table([]string{"ID", "Saved", "Courses", "Students", "Faculty", "Enrollments"}, rows, nil)
}

// FormatResult formats an arbitrary value as JSON
func (f *Formatter) FormatResult(result any) error {
	return f.encode(result)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (f *Formatter) table(headers []string, rows [][]string, failed map[int]bool) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case failed[row]:
				return failStyle
			default:
				return cellStyle
			}
		})
	_, err := fmt.Fprintln(f.writer, t.Render())
	return err
}
