package recordio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zjrosen/packscheduler/internal/domain"
	"github.com/zjrosen/packscheduler/internal/log"
)

// ErrMalformedLine is returned for a record line with the wrong shape.
var ErrMalformedLine = errors.New("line formatted unexpectedly")

const (
	arrangedCourseFields = 7
	timedCourseFields    = 9
	noInstructor         = "null"
)

// InstructorResolver looks up the faculty member named by a course line.
type InstructorResolver interface {
	FacultyByID(id string) (*domain.Faculty, bool)
}

// ReadCourses reads the course file at path. See ReadCoursesFrom.
func ReadCourses(path string, resolver InstructorResolver) ([]*domain.Course, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from config
	if err != nil {
		return nil, fmt.Errorf("opening course records: %w", err)
	}
	defer func() { _ = f.Close() }()

	courses, err := ReadCoursesFrom(f, resolver)
	if err != nil {
		return nil, fmt.Errorf("reading course records %s: %w", path, err)
	}
	log.Info(log.CatIO, "Read course records", "file", path, "count", len(courses))
	return courses, nil
}

// ReadCoursesFrom parses course lines in file order, skipping invalid lines and
// repeats of an earlier name and section.
//
// With a resolver, the instructor id on each line is resolved to a faculty
// member and the course is added to that member's schedule, which assigns the
// instructor. Unknown ids leave the course unassigned. Without a resolver the
// id is kept as written.
func ReadCoursesFrom(src io.Reader, resolver InstructorResolver) ([]*domain.Course, error) {
	var courses []*domain.Course
	seen := make(map[string]bool)

	err := eachLine(src, func(n int, line string) {
		c, instructorID, err := ParseCourse(line, resolver == nil)
		if err != nil {
			log.Debug(log.CatIO, "Skipping course line", "line", n, "reason", domain.Message(err))
			return
		}
		if seen[c.Key()] {
			log.Debug(log.CatIO, "Skipping duplicate course", "line", n, "course", c.Key())
			return
		}
		seen[c.Key()] = true

		if resolver != nil && instructorID != "" {
			assign(c, instructorID, resolver)
		}
		courses = append(courses, c)
	})
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func assign(c *domain.Course, instructorID string, resolver InstructorResolver) {
	f, ok := resolver.FacultyByID(instructorID)
	if !ok {
		return
	}
	if err := f.Schedule().AddCourse(c); err != nil {
		log.Warn(log.CatIO, "Instructor cannot take course",
			"course", c.Key(), "instructor", instructorID, "reason", domain.Message(err))
	}
}

// ParseCourse parses a single course line. It returns the course and the
// instructor id written on the line. When keepInstructor is false the course is
// built without an instructor so the caller can assign one.
func ParseCourse(line string, keepInstructor bool) (*domain.Course, string, error) {
	fields := strings.Split(line, ",")
	if len(fields) < arrangedCourseFields {
		return nil, "", ErrMalformedLine
	}

	days := fields[6]
	want := timedCourseFields
	if days == domain.Arranged {
		want = arrangedCourseFields
	}
	if len(fields) != want {
		return nil, "", ErrMalformedLine
	}

	credits, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, "", ErrMalformedLine
	}
	enrollmentCap, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, "", ErrMalformedLine
	}
	start, end := 0, 0
	if want == timedCourseFields {
		if start, err = strconv.Atoi(fields[7]); err != nil {
			return nil, "", ErrMalformedLine
		}
		if end, err = strconv.Atoi(fields[8]); err != nil {
			return nil, "", ErrMalformedLine
		}
	}

	instructorID := fields[4]
	if instructorID == noInstructor {
		instructorID = ""
	}
	assigned := ""
	if keepInstructor {
		assigned = instructorID
	}

	c, err := domain.NewCourse(fields[0], fields[1], fields[2], credits, assigned, enrollmentCap, days, start, end)
	if err != nil {
		return nil, "", err
	}
	return c, instructorID, nil
}

// FormatCourse renders c as a record line.
func FormatCourse(c *domain.Course) string {
	instructor := c.InstructorID()
	if instructor == "" {
		instructor = noInstructor
	}
	fields := []string{
		c.Name(),
		c.Title(),
		c.Section(),
		strconv.Itoa(c.Credits()),
		instructor,
		strconv.Itoa(c.Roll().EnrollmentCap()),
		c.MeetingDays(),
	}
	if !c.IsArranged() {
		fields = append(fields, strconv.Itoa(c.StartTime()), strconv.Itoa(c.EndTime()))
	}
	return strings.Join(fields, ",")
}

// WriteCourses replaces the file at path with one line per course.
func WriteCourses(path string, courses []*domain.Course) error {
	lines := make([]string, len(courses))
	for i, c := range courses {
		lines[i] = FormatCourse(c)
	}
	if err := writeLines(path, lines); err != nil {
		return fmt.Errorf("writing course records: %w", err)
	}
	log.Info(log.CatIO, "Wrote course records", "file", path, "count", len(courses))
	return nil
}
