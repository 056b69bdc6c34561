package domain

import (
	"github.com/zjrosen/packscheduler/internal/collections"
)

// WaitlistSize is the fixed waitlist capacity of every roll.
const WaitlistSize = 10

// EnrollmentStatus is a student's state relative to one course.
type EnrollmentStatus int

const (
	Unenrolled EnrollmentStatus = iota
	Enrolled
	Waitlisted
)

func (s EnrollmentStatus) String() string {
	switch s {
	case Enrolled:
		return "enrolled"
	case Waitlisted:
		return "waitlisted"
	default:
		return "unenrolled"
	}
}

// Roll is a course's roster and waitlist.
//
// Invariants: roster size never exceeds the enrollment cap, the waitlist never
// holds more than WaitlistSize students, and a student is never on both.
type Roll struct {
	course        *Course
	enrollmentCap int
	roster        *collections.LinkedList[*Student]
	waitlist      *collections.Queue[*Student]
}

func newRoll(enrollmentCap int, course *Course) (*Roll, error) {
	if course == nil {
		return nil, invalid("Invalid course.")
	}
	byValue := collections.WithEqual(studentsEqual)
	roster, err := collections.NewLinkedList(MaxEnrollment, byValue)
	if err != nil {
		return nil, err
	}
	waitlist, err := collections.NewQueue(WaitlistSize, byValue)
	if err != nil {
		return nil, err
	}

	r := &Roll{course: course, roster: roster, waitlist: waitlist}
	if err := r.SetEnrollmentCap(enrollmentCap); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Roll) EnrollmentCap() int { return r.enrollmentCap }

// SetEnrollmentCap changes the cap. It fails when enrollmentCap is outside
// [MinEnrollment, MaxEnrollment] or below the current roster size. Raising the
// cap does not promote waitlisted students.
func (r *Roll) SetEnrollmentCap(enrollmentCap int) error {
	if enrollmentCap < MinEnrollment || enrollmentCap > MaxEnrollment {
		return invalid("Invalid enrollment capacity.")
	}
	if enrollmentCap < r.roster.Size() {
		return invalid("Cannot decrease enrollment capacity below the current number of students in the class.")
	}
	if err := r.roster.SetCapacity(enrollmentCap); err != nil {
		return invalid("Invalid enrollment capacity.")
	}
	r.enrollmentCap = enrollmentCap
	return nil
}

// OpenSeats returns the number of free roster seats.
func (r *Roll) OpenSeats() int {
	return r.enrollmentCap - r.roster.Size()
}

func (r *Roll) NumberOnWaitlist() int {
	return r.waitlist.Size()
}

// Enroll seats s when a roster seat is free. Otherwise s joins the waitlist and
// the course is added to s's schedule, so a waitlisted student holds the time slot.
//
// Seating does not touch the schedule; callers pair it with Schedule.AddCourse.
func (r *Roll) Enroll(s *Student) error {
	if s == nil {
		return invalid("Invalid student.")
	}
	if r.roster.Contains(s) || r.waitlist.Contains(s) {
		return invalid("Error adding the student.")
	}
	if r.roster.Size() < r.enrollmentCap {
		if err := r.roster.Add(s); err != nil {
			return invalid("Error adding the student.")
		}
		return nil
	}

	if r.waitlist.Size() >= WaitlistSize {
		return invalid("The waitlist is full.")
	}
	if err := s.Schedule().AddCourse(r.course); err != nil {
		return err
	}
	if err := r.waitlist.Enqueue(s); err != nil {
		s.Schedule().RemoveCourse(r.course)
		return invalid("Error adding the student.")
	}
	return nil
}

// Drop removes s from the roll and the course from s's schedule.
//
// When s held a roster seat and the waitlist is non-empty, the waitlist head is
// seated and returned. The promoted student's schedule already lists the course.
func (r *Roll) Drop(s *Student) (*Student, error) {
	if s == nil {
		return nil, invalid("Error removing the student.")
	}

	if i := r.roster.IndexOf(s); i >= 0 {
		if _, err := r.roster.RemoveAt(i); err != nil {
			return nil, invalid("Error removing the student.")
		}
		s.Schedule().RemoveCourse(r.course)
		return r.promote()
	}

	r.purgeWaitlist(s)
	return nil, nil
}

func (r *Roll) promote() (*Student, error) {
	if r.waitlist.IsEmpty() || r.roster.Size() >= r.enrollmentCap {
		return nil, nil
	}
	next, err := r.waitlist.Dequeue()
	if err != nil {
		return nil, invalid("Error removing the student.")
	}
	if err := r.roster.Add(next); err != nil {
		return nil, invalid("Error removing the student.")
	}
	return next, nil
}

// purgeWaitlist rebuilds the waitlist without s.
func (r *Roll) purgeWaitlist(s *Student) {
	if !r.waitlist.Contains(s) {
		return
	}
	for _, w := range r.waitlist.Drain() {
		if !studentsEqual(w, s) {
			_ = r.waitlist.Enqueue(w)
		}
	}
	s.Schedule().RemoveCourse(r.course)
}

// CanEnroll reports whether s could be seated or waitlisted. It never mutates.
func (r *Roll) CanEnroll(s *Student) bool {
	if s == nil {
		return false
	}
	if r.OpenSeats() == 0 && r.waitlist.Size() >= WaitlistSize {
		return false
	}
	if r.roster.Contains(s) {
		return false
	}
	return !r.waitlist.Contains(s)
}

// Status reports where s stands on this roll.
func (r *Roll) Status(s *Student) EnrollmentStatus {
	switch {
	case s == nil:
		return Unenrolled
	case r.roster.Contains(s):
		return Enrolled
	case r.waitlist.Contains(s):
		return Waitlisted
	default:
		return Unenrolled
	}
}

// Roster returns the seated students in enrollment order.
func (r *Roll) Roster() []*Student {
	return r.roster.Values()
}

// Waitlist returns the waitlisted students, head first.
func (r *Roll) Waitlist() []*Student {
	return r.waitlist.Values()
}

// Restore replaces the roll's contents with a previously saved roster and
// waitlist without touching any schedule. Stores use it to rebuild a term.
func (r *Roll) Restore(roster, waitlist []*Student) error {
	if len(roster) > r.enrollmentCap || len(waitlist) > WaitlistSize {
		return invalid("Invalid enrollment capacity.")
	}
	r.roster.Clear()
	r.waitlist.Drain()
	for _, s := range roster {
		if err := r.roster.Add(s); err != nil {
			return invalid("Error adding the student.")
		}
	}
	for _, s := range waitlist {
		if r.roster.Contains(s) {
			return invalid("Error adding the student.")
		}
		if err := r.waitlist.Enqueue(s); err != nil {
			return invalid("Error adding the student.")
		}
	}
	return nil
}
