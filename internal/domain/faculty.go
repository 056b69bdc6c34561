package domain

// Faculty course-load limits.
const (
	MinCourses = 1
	MaxCourses = 3
)

// Faculty is an account that teaches courses.
type Faculty struct {
	User
	maxCourses int
	schedule   *FacultySchedule
}

func NewFaculty(firstName, lastName, id, email, passwordHash string, maxCourses int) (*Faculty, error) {
	u, err := newUser(firstName, lastName, id, email, passwordHash)
	if err != nil {
		return nil, err
	}
	f := &Faculty{User: u, schedule: newFacultySchedule(id)}
	if err := f.SetMaxCourses(maxCourses); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Faculty) Role() Role { return RoleFaculty }

func (f *Faculty) MaxCourses() int { return f.maxCourses }

func (f *Faculty) SetMaxCourses(n int) error {
	if n < MinCourses || n > MaxCourses {
		return invalid("Invalid max courses")
	}
	f.maxCourses = n
	return nil
}

func (f *Faculty) Schedule() *FacultySchedule { return f.schedule }

// IsOverloaded reports whether more courses are assigned than the limit allows.
func (f *Faculty) IsOverloaded() bool {
	return f.schedule.NumScheduledCourses() > f.maxCourses
}

func (f *Faculty) Equal(o *Faculty) bool {
	if f == o {
		return true
	}
	if f == nil || o == nil {
		return false
	}
	return f.User.equal(&o.User) && f.maxCourses == o.maxCourses
}
