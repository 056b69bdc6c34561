package sqlite

import (
	"time"

	"github.com/zjrosen/packscheduler/internal/domain"
)

// Enrollment status values stored in enrollments.status.
const (
	statusRoster   = "roster"
	statusWaitlist = "waitlist"
)

// CourseModel represents a row of the courses table.
type CourseModel struct {
	Name          string
	Section       string
	Title         string
	Credits       int
	InstructorID  *string // nullable
	EnrollmentCap int
	MeetingDays   string
	StartTime     int
	EndTime       int
}

func toCourseModel(c *domain.Course) *CourseModel {
	m := &CourseModel{
		Name:          c.Name(),
		Section:       c.Section(),
		Title:         c.Title(),
		Credits:       c.Credits(),
		EnrollmentCap: c.Roll().EnrollmentCap(),
		MeetingDays:   c.MeetingDays(),
		StartTime:     c.StartTime(),
		EndTime:       c.EndTime(),
	}
	if c.HasInstructor() {
		id := c.InstructorID()
		m.InstructorID = &id
	}
	return m
}

// toDomain builds the course without an instructor; the store assigns
// instructors through the faculty schedule so both sides agree.
func (m *CourseModel) toDomain() (*domain.Course, error) {
	return domain.NewCourse(m.Name, m.Title, m.Section, m.Credits, "", m.EnrollmentCap, m.MeetingDays, m.StartTime, m.EndTime)
}

// UserModel represents a row of the students or faculty table. Limit is
// max_credits for students and max_courses for faculty.
type UserModel struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Limit        int
	Position     int // faculty only
}

func toStudentModel(s *domain.Student) *UserModel {
	return &UserModel{
		ID:           s.ID(),
		FirstName:    s.FirstName(),
		LastName:     s.LastName(),
		Email:        s.Email(),
		PasswordHash: s.PasswordHash(),
		Limit:        s.MaxCredits(),
	}
}

func toFacultyModel(f *domain.Faculty, position int) *UserModel {
	return &UserModel{
		ID:           f.ID(),
		FirstName:    f.FirstName(),
		LastName:     f.LastName(),
		Email:        f.Email(),
		PasswordHash: f.PasswordHash(),
		Limit:        f.MaxCourses(),
		Position:     position,
	}
}

func (m *UserModel) toStudent() (*domain.Student, error) {
	return domain.NewStudent(m.FirstName, m.LastName, m.ID, m.Email, m.PasswordHash, m.Limit)
}

func (m *UserModel) toFaculty() (*domain.Faculty, error) {
	return domain.NewFaculty(m.FirstName, m.LastName, m.ID, m.Email, m.PasswordHash, m.Limit)
}

// EnrollmentModel represents a row of the enrollments table.
type EnrollmentModel struct {
	CourseName    string
	CourseSection string
	StudentID     string
	Status        string
	Position      int
}

// enrollmentModels lists a course's roll, roster first, each in order.
func enrollmentModels(c *domain.Course) []*EnrollmentModel {
	roster, waitlist := c.Roll().Roster(), c.Roll().Waitlist()
	models := make([]*EnrollmentModel, 0, len(roster)+len(waitlist))
	for i, s := range roster {
		models = append(models, &EnrollmentModel{c.Name(), c.Section(), s.ID(), statusRoster, i})
	}
	for i, s := range waitlist {
		models = append(models, &EnrollmentModel{c.Name(), c.Section(), s.ID(), statusWaitlist, i})
	}
	return models
}

// SnapshotModel represents a row of the snapshots table.
type SnapshotModel struct {
	ID          string
	SavedAt     int64 // Unix timestamp
	Courses     int
	Students    int
	Faculty     int
	Enrollments int
}

// Snapshot describes one saved term.
type Snapshot struct {
	ID          string
	SavedAt     time.Time
	Courses     int
	Students    int
	Faculty     int
	Enrollments int
}

func (m *SnapshotModel) toSnapshot() Snapshot {
	return Snapshot{
		ID:          m.ID,
		SavedAt:     time.Unix(m.SavedAt, 0),
		Courses:     m.Courses,
		Students:    m.Students,
		Faculty:     m.Faculty,
		Enrollments: m.Enrollments,
	}
}
