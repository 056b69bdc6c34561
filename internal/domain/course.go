package domain

import (
	"cmp"
	"strconv"
)

// Course limits.
const (
	SectionLength = 3
	MinCredits    = 1
	MaxCredits    = 5
	MinEnrollment = 10
	MaxEnrollment = 250
)

// Course is a catalog offering. It embeds Activity, restricting meeting days to
// CourseDays, and owns exactly one Roll.
type Course struct {
	Activity
	name         string
	section      string
	credits      int
	instructorID string
	roll         *Roll
}

// NewCourse validates every field and creates a course with an empty roll.
// An empty instructorID means no instructor is assigned. Arranged courses pass
// meetingDays "A" with zero start and end times.
func NewCourse(name, title, section string, credits int, instructorID string, enrollmentCap int, meetingDays string, startTime, endTime int) (*Course, error) {
	if enrollmentCap < MinEnrollment || enrollmentCap > MaxEnrollment {
		return nil, invalid("Invalid enrollment capacity.")
	}

	c := &Course{Activity: Activity{allowedDays: CourseDays}}
	if err := c.init(title, meetingDays, startTime, endTime); err != nil {
		return nil, err
	}
	if err := c.setName(name); err != nil {
		return nil, err
	}
	if err := c.SetSection(section); err != nil {
		return nil, err
	}
	if err := c.SetCredits(credits); err != nil {
		return nil, err
	}
	c.SetInstructorID(instructorID)

	roll, err := newRoll(enrollmentCap, c)
	if err != nil {
		return nil, err
	}
	c.roll = roll
	return c, nil
}

func (c *Course) Name() string         { return c.name }
func (c *Course) Section() string      { return c.section }
func (c *Course) Credits() int         { return c.credits }
func (c *Course) InstructorID() string { return c.instructorID }

// HasInstructor reports whether an instructor is assigned.
func (c *Course) HasInstructor() bool { return c.instructorID != "" }

// Roll returns the course's enrollment state.
func (c *Course) Roll() *Roll { return c.roll }

func (c *Course) setName(name string) error {
	if err := ValidateCourseName(name); err != nil {
		return invalid("Invalid course name.")
	}
	c.name = name
	return nil
}

// SetSection sets the section. It must be exactly three digits.
func (c *Course) SetSection(section string) error {
	if len(section) != SectionLength {
		return invalid("Invalid section.")
	}
	for _, ch := range section {
		if ch < '0' || ch > '9' {
			return invalid("Invalid section.")
		}
	}
	c.section = section
	return nil
}

func (c *Course) SetCredits(credits int) error {
	if credits < MinCredits || credits > MaxCredits {
		return invalid("Invalid credits.")
	}
	c.credits = credits
	return nil
}

// SetInstructorID assigns an instructor. Empty clears the assignment.
func (c *Course) SetInstructorID(id string) {
	c.instructorID = id
}

// Key identifies a course within the catalog.
func (c *Course) Key() string {
	return CourseKey(c.name, c.section)
}

// CourseKey builds the catalog key for name and section.
func CourseKey(name, section string) string {
	return name + "-" + section
}

// IsDuplicate reports whether other is a course with the same name.
// Sections are ignored: a student takes one section of a course.
func (c *Course) IsDuplicate(other *Course) bool {
	return other != nil && c.name == other.name
}

// Equal compares every field except the roll.
func (c *Course) Equal(other *Course) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	return c.Activity.equal(&other.Activity) &&
		c.name == other.name &&
		c.section == other.section &&
		c.credits == other.credits &&
		c.instructorID == other.instructorID
}

// CompareCourses orders courses by name, then section.
func CompareCourses(a, b *Course) int {
	if n := cmp.Compare(a.name, b.name); n != 0 {
		return n
	}
	return cmp.Compare(a.section, b.section)
}

// ShortDisplay returns name, section, title, meeting string and open seats.
func (c *Course) ShortDisplay() []string {
	return []string{
		c.name,
		c.section,
		c.Title(),
		c.MeetingString(),
		strconv.Itoa(c.roll.OpenSeats()),
	}
}

// LongDisplay returns name, section, title, credits, instructor and meeting string.
func (c *Course) LongDisplay() []string {
	return []string{
		c.name,
		c.section,
		c.Title(),
		strconv.Itoa(c.credits),
		c.instructorID,
		c.MeetingString(),
		"",
	}
}

func (c *Course) String() string {
	return c.Key()
}
