package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/packscheduler/internal/domain"
)

func TestBuilder_StandardTerm(t *testing.T) {
	term := NewBuilder(t).WithStandardTerm().Build()

	require.Len(t, term.Faculty, 2)
	require.Len(t, term.Students, 12)
	require.Len(t, term.Courses, 4)

	sdf := term.Course(t, "CSC216-001")
	require.Equal(t, "sesmith5", sdf.InstructorID())
	require.Len(t, sdf.Roll().Roster(), 10)
	require.Equal(t, 2, sdf.Roll().NumberOnWaitlist())
	require.Equal(t, domain.Waitlisted, sdf.Roll().Status(term.Student(t, "student12")))

	first := term.Student(t, "student01")
	require.Equal(t, 2, first.Schedule().Len())
	require.Equal(t, 6, first.Schedule().Credits())
	require.True(t, term.Student(t, "student11").Schedule().Contains(sdf), "waitlisted students hold the slot")

	require.False(t, term.Course(t, "CSC216-601").HasInstructor())
	require.Equal(t, 2, term.Faculty[0].Schedule().NumScheduledCourses())
}

func TestBuilder_Options(t *testing.T) {
	term := NewBuilder(t).
		WithStudent("zking", Name("Zahir", "King"), Limit(12), PasswordHash("h")).
		WithCourse("CSC230", "001", Title("C and Software Tools"), Credits(4), Cap(20), Meets("TH", 1145, 1300)).
		Build()

	s := term.Students[0]
	require.Equal(t, "Zahir", s.FirstName())
	require.Equal(t, 12, s.MaxCredits())
	require.Equal(t, "h", s.PasswordHash())
	require.Equal(t, "zking@ncsu.edu", s.Email())

	c := term.Courses[0]
	require.Equal(t, 4, c.Credits())
	require.Equal(t, 20, c.Roll().EnrollmentCap())
	require.Equal(t, "TH", c.MeetingDays())
}
