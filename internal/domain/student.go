package domain

// Student credit limits.
const (
	MinStudentCredits     = 3
	DefaultStudentCredits = 18
)

// Student is an account that registers for courses.
type Student struct {
	User
	maxCredits int
	schedule   *Schedule
}

// NewStudent validates the fields and creates a student with an empty schedule.
func NewStudent(firstName, lastName, id, email, passwordHash string, maxCredits int) (*Student, error) {
	u, err := newUser(firstName, lastName, id, email, passwordHash)
	if err != nil {
		return nil, err
	}
	s := &Student{User: u, schedule: NewSchedule()}
	if err := s.SetMaxCredits(maxCredits); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Student) Role() Role { return RoleStudent }

func (s *Student) MaxCredits() int { return s.maxCredits }

// SetMaxCredits accepts values in [MinStudentCredits, DefaultStudentCredits].
func (s *Student) SetMaxCredits(n int) error {
	if n < MinStudentCredits || n > DefaultStudentCredits {
		return invalid("Invalid max credits")
	}
	s.maxCredits = n
	return nil
}

func (s *Student) Schedule() *Schedule { return s.schedule }

// CanAdd reports whether c fits the schedule and the credit limit.
func (s *Student) CanAdd(c *Course) bool {
	return s.schedule.CanAdd(c) && c.Credits()+s.schedule.Credits() <= s.maxCredits
}

// Equal compares identity fields and the credit limit.
func (s *Student) Equal(o *Student) bool {
	return studentsEqual(s, o)
}

func studentsEqual(a, b *Student) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.User.equal(&b.User) && a.maxCredits == b.maxCredits
}

// CompareStudents orders students by last name, first name, then id.
func CompareStudents(a, b *Student) int {
	return compareUsers(&a.User, &b.User)
}
