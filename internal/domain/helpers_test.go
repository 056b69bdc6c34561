package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustCourse(t testing.TB, b *CourseBuilder) *Course {
	t.Helper()
	c, err := b.Build()
	require.NoError(t, err)
	return c
}

func mustStudent(t testing.TB, i int) *Student {
	t.Helper()
	s, err := NewStudent(
		fmt.Sprintf("First%d", i),
		fmt.Sprintf("Last%d", i),
		fmt.Sprintf("student%d", i),
		fmt.Sprintf("student%d@ncsu.edu", i),
		"hash",
		DefaultStudentCredits,
	)
	require.NoError(t, err)
	return s
}

func mustStudents(t testing.TB, n int) []*Student {
	t.Helper()
	students := make([]*Student, n)
	for i := range students {
		students[i] = mustStudent(t, i)
	}
	return students
}
