package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCourseBuilder_Build_Success(t *testing.T) {
	c, err := NewCourseBuilder("CSC216").
		Title("Software Development Fundamentals").
		Section("001").
		Credits(3).
		Instructor("sesmith5").
		Cap(10).
		Meets("MW", 1330, 1445).
		Build()

	require.NoError(t, err)
	require.Equal(t, "CSC216", c.Name())
	require.Equal(t, "Software Development Fundamentals", c.Title())
	require.Equal(t, "001", c.Section())
	require.Equal(t, 3, c.Credits())
	require.Equal(t, "sesmith5", c.InstructorID())
	require.Equal(t, 10, c.Roll().EnrollmentCap())
	require.Equal(t, "CSC216-001", c.Key())
	require.Equal(t, []string{"CSC216", "001", "Software Development Fundamentals", "MW 1:30PM-2:45PM", "10"}, c.ShortDisplay())
	require.Equal(t, []string{"CSC216", "001", "Software Development Fundamentals", "3", "sesmith5", "MW 1:30PM-2:45PM", ""}, c.LongDisplay())
}

func TestNewCourse_Validation(t *testing.T) {
	base := func() *CourseBuilder {
		return NewCourseBuilder("CSC216").Title("SDF").Meets("MW", 1330, 1445)
	}

	tests := []struct {
		name    string
		builder *CourseBuilder
		wantMsg string
	}{
		{name: "valid", builder: base()},
		{name: "arranged", builder: base().Arranged()},
		{name: "invalid name", builder: NewCourseBuilder("CS1").Title("SDF"), wantMsg: "Invalid course name."},
		{name: "empty title", builder: base().Title(""), wantMsg: "Invalid title."},
		{name: "short section", builder: base().Section("01"), wantMsg: "Invalid section."},
		{name: "non-digit section", builder: base().Section("0A1"), wantMsg: "Invalid section."},
		{name: "zero credits", builder: base().Credits(0), wantMsg: "Invalid credits."},
		{name: "six credits", builder: base().Credits(6), wantMsg: "Invalid credits."},
		{name: "cap too low", builder: base().Cap(9), wantMsg: "Invalid enrollment capacity."},
		{name: "cap too high", builder: base().Cap(251), wantMsg: "Invalid enrollment capacity."},
		{name: "weekend course", builder: base().Meets("MS", 1330, 1445), wantMsg: "Invalid meeting days and times."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidArgument)
			require.Equal(t, tt.wantMsg, Message(err))
		})
	}
}

func TestCourse_Equality(t *testing.T) {
	a := mustCourse(t, NewCourseBuilder("CSC216").Title("SDF").Meets("MW", 1330, 1445))
	b := mustCourse(t, NewCourseBuilder("CSC216").Title("SDF").Meets("MW", 1330, 1445))
	other := mustCourse(t, NewCourseBuilder("CSC216").Title("SDF").Section("002").Meets("MW", 1330, 1445))

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(other))
	require.True(t, a.IsDuplicate(other), "same name in another section is a duplicate")
	require.False(t, a.IsDuplicate(nil))

	b.SetInstructorID("jdyoung2")
	require.False(t, a.Equal(b))
}

func TestCompareCourses(t *testing.T) {
	a := mustCourse(t, NewCourseBuilder("CSC116").Title("Intro"))
	b := mustCourse(t, NewCourseBuilder("CSC216").Title("SDF"))
	b2 := mustCourse(t, NewCourseBuilder("CSC216").Title("SDF").Section("002"))

	require.Negative(t, CompareCourses(a, b))
	require.Negative(t, CompareCourses(b, b2))
	require.Positive(t, CompareCourses(b2, a))
	require.Zero(t, CompareCourses(b, b))
}
