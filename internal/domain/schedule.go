package domain

import (
	"github.com/zjrosen/packscheduler/internal/collections"
)

// DefaultScheduleTitle is the title of a new or reset schedule.
const DefaultScheduleTitle = "My Schedule"

// Schedule is an owner's ordered list of courses.
// No two entries share a course name and no two entries conflict.
type Schedule struct {
	title   string
	courses *collections.ArrayList[*Course]
}

// NewSchedule creates an empty schedule titled DefaultScheduleTitle.
func NewSchedule() *Schedule {
	return &Schedule{
		title:   DefaultScheduleTitle,
		courses: newCourseList(),
	}
}

func newCourseList() *collections.ArrayList[*Course] {
	return collections.NewArrayList(collections.WithEqual((*Course).Equal))
}

func (s *Schedule) Title() string { return s.title }

func (s *Schedule) SetTitle(title string) {
	s.title = title
}

// AddCourse appends c after checking it against every scheduled course.
// Returns ErrDuplicateEntry when a course with the same name is already
// scheduled and ErrScheduleConflict when c overlaps a scheduled course.
func (s *Schedule) AddCourse(c *Course) error {
	if c == nil {
		return invalid("Invalid course.")
	}
	for _, existing := range s.courses.All() {
		if existing.IsDuplicate(c) {
			return &Error{Kind: ErrDuplicateEntry, Msg: "You are already enrolled in " + c.Name()}
		}
		if err := existing.CheckConflict(c); err != nil {
			return &Error{Kind: ErrScheduleConflict, Msg: "The course cannot be added due to a conflict."}
		}
	}
	if err := s.courses.Add(c); err != nil {
		return &Error{Kind: ErrDuplicateEntry, Msg: "You are already enrolled in " + c.Name()}
	}
	return nil
}

// RemoveCourse removes the entry equal to c and reports whether one was found.
func (s *Schedule) RemoveCourse(c *Course) bool {
	if c == nil {
		return false
	}
	return s.courses.Remove(c)
}

// CanAdd applies the AddCourse checks without mutating. A nil course cannot be added.
func (s *Schedule) CanAdd(c *Course) bool {
	if c == nil {
		return false
	}
	for _, existing := range s.courses.All() {
		if existing.IsDuplicate(c) || existing.CheckConflict(c) != nil {
			return false
		}
	}
	return true
}

// Contains reports whether c is scheduled.
func (s *Schedule) Contains(c *Course) bool {
	return c != nil && s.courses.Contains(c)
}

// Reset empties the schedule and restores the default title.
// Rolls are not notified.
func (s *Schedule) Reset() {
	s.title = DefaultScheduleTitle
	s.courses.Clear()
}

// Credits sums the credit hours of every scheduled course.
func (s *Schedule) Credits() int {
	total := 0
	for _, c := range s.courses.All() {
		total += c.Credits()
	}
	return total
}

func (s *Schedule) Len() int {
	return s.courses.Size()
}

// Courses returns the scheduled courses in the order they were added.
func (s *Schedule) Courses() []*Course {
	return s.courses.Values()
}

// ScheduledCourses returns the short display row of every scheduled course.
func (s *Schedule) ScheduledCourses() [][]string {
	rows := make([][]string, 0, s.courses.Size())
	for _, c := range s.courses.All() {
		rows = append(rows, c.ShortDisplay())
	}
	return rows
}
