package domain

import "unicode"

const (
	maxNameLetters = 4
	nameDigits     = 3
)

type nameState int

const (
	stateInitial nameState = iota
	stateLetter
	stateNumber
	stateSuffix
)

// courseNameFSM accepts 1-4 letters, exactly 3 digits and an optional 1-letter suffix.
type courseNameFSM struct {
	state   nameState
	letters int
	digits  int
}

func transitionErr(msg string) error {
	return &Error{Kind: ErrInvalidTransition, Msg: msg}
}

func (m *courseNameFSM) onLetter() error {
	switch m.state {
	case stateInitial:
		m.state = stateLetter
		m.letters++
	case stateLetter:
		if m.letters >= maxNameLetters {
			return transitionErr("Course name cannot start with more than 4 letters.")
		}
		m.letters++
	case stateNumber:
		if m.digits != nameDigits {
			return transitionErr("Course name must have 3 digits.")
		}
		m.state = stateSuffix
	case stateSuffix:
		return transitionErr("Course name can only have a 1 letter suffix.")
	}
	return nil
}

func (m *courseNameFSM) onDigit() error {
	switch m.state {
	case stateInitial:
		return transitionErr("Course name must start with a letter.")
	case stateLetter:
		m.state = stateNumber
		m.digits++
	case stateNumber:
		if m.digits >= nameDigits {
			return transitionErr("Course name can only have 3 digits.")
		}
		m.digits++
	case stateSuffix:
		return transitionErr("Course name cannot contain digits after the suffix.")
	}
	return nil
}

// ValidateCourseName runs the course-name state machine over name.
//
// A rejected transition returns an error wrapping ErrInvalidTransition with the
// reason. A name that ends in a non-accepting state (too few digits, empty)
// returns ErrInvalidArgument.
func ValidateCourseName(name string) error {
	m := &courseNameFSM{}
	for _, c := range name {
		var err error
		switch {
		case unicode.IsLetter(c):
			err = m.onLetter()
		case unicode.IsDigit(c):
			err = m.onDigit()
		default:
			err = transitionErr("Course name can only contain letters and digits.")
		}
		if err != nil {
			return err
		}
	}

	if (m.state == stateNumber && m.digits == nameDigits) || m.state == stateSuffix {
		return nil
	}
	return invalid("Invalid course name.")
}
