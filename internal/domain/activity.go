package domain

import (
	"fmt"
	"strings"
)

// Arranged is the meeting-days marker for an activity with no fixed day or time.
const Arranged = "A"

const (
	// ActivityDays are the day letters a generic activity may meet on.
	ActivityDays = "MTWHFSU"
	// CourseDays are the day letters a course may meet on.
	CourseDays = "MTWHF"

	hoursPerDay    = 24
	minutesPerHour = 60
)

const errMeeting = "Invalid meeting days and times."

// Schedulable is anything with a meeting pattern.
type Schedulable interface {
	MeetingDays() string
	StartTime() int
	EndTime() int
}

// Conflicter detects time overlaps with another schedulable activity.
type Conflicter interface {
	// CheckConflict returns an error wrapping ErrScheduleConflict when the two
	// activities meet on a shared day at overlapping times.
	CheckConflict(other Schedulable) error
}

// Activity is a titled, schedulable block of time.
type Activity struct {
	title       string
	meetingDays string
	startTime   int
	endTime     int
	allowedDays string
}

// Ensure Activity implements Conflicter.
var _ Conflicter = (*Activity)(nil)

// NewActivity creates an activity that may meet on any day of the week.
func NewActivity(title, meetingDays string, startTime, endTime int) (*Activity, error) {
	a := &Activity{allowedDays: ActivityDays}
	if err := a.init(title, meetingDays, startTime, endTime); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Activity) init(title, meetingDays string, startTime, endTime int) error {
	if err := a.SetTitle(title); err != nil {
		return err
	}
	return a.SetMeetingDaysAndTime(meetingDays, startTime, endTime)
}

func (a *Activity) Title() string       { return a.title }
func (a *Activity) MeetingDays() string { return a.meetingDays }
func (a *Activity) StartTime() int      { return a.startTime }
func (a *Activity) EndTime() int        { return a.endTime }

// IsArranged reports whether the activity has no fixed meeting time.
func (a *Activity) IsArranged() bool {
	return a.meetingDays == Arranged
}

// SetTitle sets the title. Returns ErrInvalidArgument if title is empty.
func (a *Activity) SetTitle(title string) error {
	if title == "" {
		return invalid("Invalid title.")
	}
	a.title = title
	return nil
}

// SetMeetingDaysAndTime validates and sets days, start and end together.
// Nothing changes unless all three are valid.
func (a *Activity) SetMeetingDaysAndTime(meetingDays string, startTime, endTime int) error {
	if meetingDays == "" {
		return invalid(errMeeting)
	}
	if meetingDays == Arranged {
		if startTime != 0 || endTime != 0 {
			return invalid(errMeeting)
		}
	} else {
		if !validDays(meetingDays, a.allowedDays) {
			return invalid(errMeeting)
		}
		if !validTime(startTime) || !validTime(endTime) || endTime < startTime {
			return invalid(errMeeting)
		}
	}

	a.meetingDays = meetingDays
	a.startTime = startTime
	a.endTime = endTime
	return nil
}

// validDays reports whether every letter of days is in allowed and none repeats.
func validDays(days, allowed string) bool {
	seen := make(map[rune]bool, len(days))
	for _, d := range days {
		if !strings.ContainsRune(allowed, d) || seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}

func validTime(t int) bool {
	return t >= 0 && t/100 < hoursPerDay && t%100 < minutesPerHour
}

// CheckConflict implements Conflicter. Only the first shared day is compared:
// an activity applies one time range to all of its days.
// A nil other, including a nil *Course, never conflicts.
func (a *Activity) CheckConflict(other Schedulable) error {
	if c, ok := other.(*Course); ok && c == nil {
		return nil
	}
	if other == nil || a.IsArranged() || other.MeetingDays() == Arranged {
		return nil
	}
	for _, d := range a.meetingDays {
		if !strings.ContainsRune(other.MeetingDays(), d) {
			continue
		}
		if a.startTime <= other.EndTime() && a.endTime >= other.StartTime() {
			return &Error{Kind: ErrScheduleConflict, Msg: "Schedule conflict."}
		}
		break
	}
	return nil
}

// MeetingString renders the meeting pattern, e.g. "MW 1:30PM-2:45PM" or "Arranged".
func (a *Activity) MeetingString() string {
	if a.IsArranged() {
		return "Arranged"
	}
	return a.meetingDays + " " + formatTime(a.startTime) + "-" + formatTime(a.endTime)
}

// formatTime renders an hour*100+minute value on a 12-hour clock.
func formatTime(t int) string {
	hours, minutes := t/100, t%100
	suffix := "AM"
	if hours >= 12 {
		suffix = "PM"
	}
	switch {
	case hours == 0:
		hours = 12
	case hours > 12:
		hours -= 12
	}
	return fmt.Sprintf("%d:%02d%s", hours, minutes, suffix)
}

func (a *Activity) equal(o *Activity) bool {
	return a.title == o.title &&
		a.meetingDays == o.meetingDays &&
		a.startTime == o.startTime &&
		a.endTime == o.endTime
}
