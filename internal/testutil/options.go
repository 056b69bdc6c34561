package testutil

import "github.com/zjrosen/packscheduler/internal/domain"

// courseData holds everything needed to build a course.
type courseData struct {
	name, section, title string
	credits              int
	enrollmentCap        int
	days                 string
	start, end           int
	instructor           string
}

func defaultCourse(name, section string) courseData {
	return courseData{
		name:          name,
		section:       section,
		title:         name, // Default title is the name
		credits:       3,
		enrollmentCap: domain.MinEnrollment,
		days:          domain.Arranged,
	}
}

// CourseOption configures a course during builder setup.
type CourseOption func(*courseData)

// Title sets the course title.
func Title(title string) CourseOption {
	return func(c *courseData) { c.title = title }
}

// Credits sets the credit hours.
func Credits(n int) CourseOption {
	return func(c *courseData) { c.credits = n }
}

// Cap sets the enrollment cap.
func Cap(n int) CourseOption {
	return func(c *courseData) { c.enrollmentCap = n }
}

// Meets sets meeting days and times (hhmm).
func Meets(days string, start, end int) CourseOption {
	return func(c *courseData) {
		c.days = days
		c.start = start
		c.end = end
	}
}

// TaughtBy assigns the course to a faculty member added with WithFaculty.
func TaughtBy(id string) CourseOption {
	return func(c *courseData) { c.instructor = id }
}

// userData holds everything needed to build a student or faculty member.
type userData struct {
	id, first, last, email, hash string
	limit                        int
}

func defaultUser(id string, limit int) userData {
	return userData{
		id:    id,
		first: "Test",
		last:  id,
		email: id + "@ncsu.edu",
		hash:  "hash-" + id,
		limit: limit,
	}
}

// UserOption configures a student or faculty member.
type UserOption func(*userData)

// Name sets first and last name.
func Name(first, last string) UserOption {
	return func(u *userData) {
		u.first = first
		u.last = last
	}
}

// PasswordHash sets the stored hash.
func PasswordHash(hash string) UserOption {
	return func(u *userData) { u.hash = hash }
}

// Limit sets max credits for a student or max courses for faculty.
func Limit(n int) UserOption {
	return func(u *userData) { u.limit = n }
}
