package presentation

import (
	"time"

	"github.com/zjrosen/packscheduler/internal/domain"
)

// CourseDTO represents a catalog course for presentation
type CourseDTO struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Section    string `json:"section"`
	Title      string `json:"title"`
	Credits    int    `json:"credits"`
	Instructor string `json:"instructor,omitempty"`
	Meeting    string `json:"meeting"`
	Cap        int    `json:"cap"`
	OpenSeats  int    `json:"open_seats"`
	Waitlist   int    `json:"waitlist"`
}

// RollDTO lists who holds a seat and who is waiting, in order.
type RollDTO struct {
	Course   string   `json:"course"`
	Cap      int      `json:"cap"`
	Roster   []string `json:"roster"`
	Waitlist []string `json:"waitlist"`
}

// UserDTO represents a student or faculty member with their schedule
type UserDTO struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	Limit    int      `json:"limit"` // max credits for students, max courses for faculty
	Load     int      `json:"load"`  // scheduled credits or courses
	Courses  []string `json:"courses"`
	Overload bool     `json:"overloaded,omitempty"`
}

// SnapshotDTO describes one term saved to the store
type SnapshotDTO struct {
	ID          string    `json:"id"`
	SavedAt     time.Time `json:"saved_at"`
	Courses     int       `json:"courses"`
	Students    int       `json:"students"`
	Faculty     int       `json:"faculty"`
	Enrollments int       `json:"enrollments"`
}

// StepResultDTO reports one scenario step
type StepResultDTO struct {
	Index  int        `json:"index"`
	Action string     `json:"action"`
	User   string     `json:"user,omitempty"`
	Target string     `json:"target,omitempty"`
	OK     bool       `json:"ok"`
	Error  string     `json:"error,omitempty"`
	Events []EventDTO `json:"events,omitempty"`
}

// EventDTO is one enrollment change caused by a step
type EventDTO struct {
	Type      string `json:"type"`
	Student   string `json:"student"`
	Course    string `json:"course"`
	OpenSeats int    `json:"open_seats"`
	Waitlist  int    `json:"waitlist"`
}

// FromDomainCourse converts a course to a DTO
func FromDomainCourse(c *domain.Course) CourseDTO {
	return CourseDTO{
		Key:        c.Key(),
		Name:       c.Name(),
		Section:    c.Section(),
		Title:      c.Title(),
		Credits:    c.Credits(),
		Instructor: c.InstructorID(),
		Meeting:    c.MeetingString(),
		Cap:        c.Roll().EnrollmentCap(),
		OpenSeats:  c.Roll().OpenSeats(),
		Waitlist:   c.Roll().NumberOnWaitlist(),
	}
}

// FromDomainCourses converts a slice of courses to DTOs
func FromDomainCourses(courses []*domain.Course) []CourseDTO {
	dtos := make([]CourseDTO, len(courses))
	for i, c := range courses {
		dtos[i] = FromDomainCourse(c)
	}
	return dtos
}

// FromDomainRoll converts a course's roll to a DTO
func FromDomainRoll(c *domain.Course) RollDTO {
	return RollDTO{
		Course:   c.Key(),
		Cap:      c.Roll().EnrollmentCap(),
		Roster:   studentIDs(c.Roll().Roster()),
		Waitlist: studentIDs(c.Roll().Waitlist()),
	}
}

// FromDomainStudent converts a student and their schedule to a DTO
func FromDomainStudent(s *domain.Student) UserDTO {
	return UserDTO{
		ID:      s.ID(),
		Name:    s.FirstName() + " " + s.LastName(),
		Email:   s.Email(),
		Role:    s.Role().String(),
		Limit:   s.MaxCredits(),
		Load:    s.Schedule().Credits(),
		Courses: courseKeys(s.Schedule().Courses()),
	}
}

// FromDomainFaculty converts a faculty member and their schedule to a DTO
func FromDomainFaculty(f *domain.Faculty) UserDTO {
	return UserDTO{
		ID:       f.ID(),
		Name:     f.FirstName() + " " + f.LastName(),
		Email:    f.Email(),
		Role:     f.Role().String(),
		Limit:    f.MaxCourses(),
		Load:     f.Schedule().NumScheduledCourses(),
		Courses:  courseKeys(f.Schedule().Courses()),
		Overload: f.IsOverloaded(),
	}
}

func studentIDs(students []*domain.Student) []string {
	ids := make([]string, len(students))
	for i, s := range students {
		ids[i] = s.ID()
	}
	return ids
}

func courseKeys(courses []*domain.Course) []string {
	keys := make([]string, len(courses))
	for i, c := range courses {
		keys[i] = c.Key()
	}
	return keys
}
