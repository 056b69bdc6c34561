package testutil

import "fmt"

// WithStandardTerm adds a small term drawn from the sample records:
//
//	sesmith5 teaches CSC216-001 (MW 13:30-14:45, cap 10) and CSC226-001 (MWF 9:35-10:25)
//	jdyoung2 teaches CSC116-001 (MW 9:10-11:00)
//	CSC216-601 (arranged) has no instructor
//	student01..student12 are enrolled in CSC216-001; 11 and 12 are waitlisted
//	student01 is also seated in CSC116-001
func (b *Builder) WithStandardTerm() *Builder {
	b.
		WithFaculty("sesmith5", Name("Sarah", "Heckman"), Limit(2)).
		WithFaculty("jdyoung2", Name("Jason", "Young"), Limit(3)).
		WithCourse("CSC116", "001", Title("Intro to Programming - Java"), Meets("MW", 910, 1100), TaughtBy("jdyoung2")).
		WithCourse("CSC216", "001", Title("Software Development Fundamentals"), Meets("MW", 1330, 1445), TaughtBy("sesmith5")).
		WithCourse("CSC216", "601", Title("Software Development Fundamentals")).
		WithCourse("CSC226", "001", Title("Discrete Mathematics for Computer Scientists"), Meets("MWF", 935, 1025), TaughtBy("sesmith5"))

	ids := make([]string, 12)
	for i := range ids {
		ids[i] = fmt.Sprintf("student%02d", i+1)
		b.WithStudent(ids[i], Name("Stu", fmt.Sprintf("Dent%02d", i+1)))
	}
	return b.
		WithEnrollment("CSC216-001", ids...).
		WithEnrollment("CSC116-001", ids[0])
}
