package domain

// FacultySchedule is the list of courses a faculty member teaches.
// Adding a course assigns the faculty member as its instructor; removing it
// clears the assignment.
type FacultySchedule struct {
	facultyID string
	schedule  *Schedule
}

func newFacultySchedule(facultyID string) *FacultySchedule {
	return &FacultySchedule{facultyID: facultyID, schedule: NewSchedule()}
}

// AddCourse schedules c and assigns the instructor. Same checks as Schedule.AddCourse.
func (f *FacultySchedule) AddCourse(c *Course) error {
	if err := f.schedule.AddCourse(c); err != nil {
		return err
	}
	c.SetInstructorID(f.facultyID)
	return nil
}

// RemoveCourse unschedules c and clears its instructor.
func (f *FacultySchedule) RemoveCourse(c *Course) bool {
	if !f.schedule.RemoveCourse(c) {
		return false
	}
	c.SetInstructorID("")
	return true
}

func (f *FacultySchedule) CanAdd(c *Course) bool {
	return f.schedule.CanAdd(c)
}

// Reset clears every instructor assignment and empties the schedule.
func (f *FacultySchedule) Reset() {
	for _, c := range f.schedule.Courses() {
		c.SetInstructorID("")
	}
	f.schedule.Reset()
}

// NumScheduledCourses returns how many courses are assigned.
func (f *FacultySchedule) NumScheduledCourses() int {
	return f.schedule.Len()
}

func (f *FacultySchedule) Courses() []*Course {
	return f.schedule.Courses()
}

func (f *FacultySchedule) ScheduledCourses() [][]string {
	return f.schedule.ScheduledCourses()
}

func (f *FacultySchedule) Title() string { return f.schedule.Title() }
