package domain

// CourseBuilder provides a fluent API for creating courses
type CourseBuilder struct {
	name          string
	title         string
	section       string
	credits       int
	instructorID  string
	enrollmentCap int
	meetingDays   string
	startTime     int
	endTime       int
}

// NewCourseBuilder creates a builder for the named course.
// Defaults: section "001", 3 credits, cap MinEnrollment, Arranged.
func NewCourseBuilder(name string) *CourseBuilder {
	return &CourseBuilder{
		name:          name,
		section:       "001",
		credits:       3,
		enrollmentCap: MinEnrollment,
		meetingDays:   Arranged,
	}
}

// Title sets the course title
func (b *CourseBuilder) Title(t string) *CourseBuilder {
	b.title = t
	return b
}

// Section sets the three-digit section
func (b *CourseBuilder) Section(s string) *CourseBuilder {
	b.section = s
	return b
}

// Credits sets the credit hours
func (b *CourseBuilder) Credits(n int) *CourseBuilder {
	b.credits = n
	return b
}

// Instructor sets the instructor id
func (b *CourseBuilder) Instructor(id string) *CourseBuilder {
	b.instructorID = id
	return b
}

// Cap sets the enrollment cap
func (b *CourseBuilder) Cap(n int) *CourseBuilder {
	b.enrollmentCap = n
	return b
}

// Meets sets the meeting days and times
func (b *CourseBuilder) Meets(days string, start, end int) *CourseBuilder {
	b.meetingDays = days
	b.startTime = start
	b.endTime = end
	return b
}

// Arranged clears the meeting time
func (b *CourseBuilder) Arranged() *CourseBuilder {
	return b.Meets(Arranged, 0, 0)
}

// Build creates the course, validating all fields
func (b *CourseBuilder) Build() (*Course, error) {
	return NewCourse(b.name, b.title, b.section, b.credits, b.instructorID,
		b.enrollmentCap, b.meetingDays, b.startTime, b.endTime)
}
