// Package testutil builds registration terms for tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/packscheduler/internal/domain"
)

// Term is a built term. Its field set matches sqlite.Term so the two convert.
type Term struct {
	Courses  []*domain.Course
	Students []*domain.Student
	Faculty  []*domain.Faculty
}

// Course returns the course with the given key, failing the test when absent.
func (tm Term) Course(t *testing.T, key string) *domain.Course {
	t.Helper()
	for _, c := range tm.Courses {
		if c.Key() == key {
			return c
		}
	}
	require.Failf(t, "course not found", "%s", key)
	return nil
}

// Student returns the student with id, failing the test when absent.
func (tm Term) Student(t *testing.T, id string) *domain.Student {
	t.Helper()
	for _, s := range tm.Students {
		if s.ID() == id {
			return s
		}
	}
	require.Failf(t, "student not found", "%s", id)
	return nil
}

type enrollData struct {
	course   string
	students []string
}

// Builder accumulates test data and wires it in the correct order.
type Builder struct {
	t           *testing.T
	faculty     []userData
	students    []userData
	courses     []courseData
	enrollments []enrollData
}

// NewBuilder creates an empty term builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithFaculty adds a faculty member. The default limit is 3 courses.
func (b *Builder) WithFaculty(id string, opts ...UserOption) *Builder {
	u := defaultUser(id, domain.MaxCourses)
	for _, opt := range opts {
		opt(&u)
	}
	b.faculty = append(b.faculty, u)
	return b
}

// WithStudent adds a student. The default limit is 18 credits.
func (b *Builder) WithStudent(id string, opts ...UserOption) *Builder {
	u := defaultUser(id, domain.DefaultStudentCredits)
	for _, opt := range opts {
		opt(&u)
	}
	b.students = append(b.students, u)
	return b
}

// WithCourse adds a course.
func (b *Builder) WithCourse(name, section string, opts ...CourseOption) *Builder {
	c := defaultCourse(name, section)
	for _, opt := range opts {
		opt(&c)
	}
	b.courses = append(b.courses, c)
	return b
}

// WithEnrollment enrolls students in the course, in order. Students past the
// cap land on the waitlist, as they would through registration.
func (b *Builder) WithEnrollment(courseKey string, studentIDs ...string) *Builder {
	b.enrollments = append(b.enrollments, enrollData{courseKey, studentIDs})
	return b
}

// Build constructs the term: faculty, students, courses (with instructor
// assignment), then enrollments.
func (b *Builder) Build() Term {
	b.t.Helper()
	var term Term

	faculty := make(map[string]*domain.Faculty)
	for _, u := range b.faculty {
		f, err := domain.NewFaculty(u.first, u.last, u.id, u.email, u.hash, u.limit)
		require.NoError(b.t, err, "faculty %s", u.id)
		term.Faculty = append(term.Faculty, f)
		faculty[u.id] = f
	}

	students := make(map[string]*domain.Student)
	for _, u := range b.students {
		s, err := domain.NewStudent(u.first, u.last, u.id, u.email, u.hash, u.limit)
		require.NoError(b.t, err, "student %s", u.id)
		term.Students = append(term.Students, s)
		students[u.id] = s
	}

	courses := make(map[string]*domain.Course)
	for _, cd := range b.courses {
		c, err := domain.NewCourse(cd.name, cd.title, cd.section, cd.credits, "", cd.enrollmentCap, cd.days, cd.start, cd.end)
		require.NoError(b.t, err, "course %s-%s", cd.name, cd.section)
		if cd.instructor != "" {
			f, ok := faculty[cd.instructor]
			require.True(b.t, ok, "unknown instructor %s", cd.instructor)
			require.NoError(b.t, f.Schedule().AddCourse(c))
		}
		term.Courses = append(term.Courses, c)
		courses[c.Key()] = c
	}

	for _, e := range b.enrollments {
		c, ok := courses[e.course]
		require.True(b.t, ok, "unknown course %s", e.course)
		for _, id := range e.students {
			s, ok := students[id]
			require.True(b.t, ok, "unknown student %s", id)
			Enroll(b.t, c, s)
		}
	}
	return term
}

// Enroll seats s when a seat is open, otherwise waitlists s.
func Enroll(t *testing.T, c *domain.Course, s *domain.Student) {
	t.Helper()
	if c.Roll().OpenSeats() > 0 {
		require.NoError(t, s.Schedule().AddCourse(c))
	}
	require.NoError(t, c.Roll().Enroll(s))
}
