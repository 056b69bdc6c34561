// Package scenario describes scripted registration sessions: a YAML list of
// login, enroll, drop and faculty assignment steps replayed against a term.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Action names a step kind.
type Action string

const (
	ActionLogin        Action = "login"
	ActionLogout       Action = "logout"
	ActionEnroll       Action = "enroll"
	ActionDrop         Action = "drop"
	ActionReset        Action = "reset"
	ActionAssign       Action = "assign"
	ActionUnassign     Action = "unassign"
	ActionResetFaculty Action = "reset-faculty"
)

// ErrInvalidScenario is wrapped by every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Step is one scripted action. Which fields are required depends on Action.
type Step struct {
	Action   Action `yaml:"action"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Course   string `yaml:"course,omitempty"`
	Section  string `yaml:"section,omitempty"`
	Faculty  string `yaml:"faculty,omitempty"`
}

// Target returns the course key or faculty id the step acts on.
func (s Step) Target() string {
	switch {
	case s.Course != "":
		return s.Course + "-" + s.Section
	case s.Faculty != "":
		return s.Faculty
	}
	return ""
}

// Scenario is a named list of steps.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// Persist asks the caller to save the resulting term to the store.
	Persist bool   `yaml:"persist,omitempty"`
	Steps   []Step `yaml:"steps"`
}

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the --scenario flag
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a scenario, rejecting unknown keys, and validates it.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate reports every malformed step.
func (sc *Scenario) Validate() error {
	if len(sc.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}

	var errs []error
	for i, step := range sc.Steps {
		if err := step.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: step %d (%s): %w", ErrInvalidScenario, i+1, step.Action, err))
		}
	}
	return errors.Join(errs...)
}

func (s Step) validate() error {
	switch s.Action {
	case ActionLogin:
		if s.User == "" || s.Password == "" {
			return errors.New("user and password are required")
		}
	case ActionLogout, ActionReset:
	case ActionEnroll, ActionDrop:
		if s.Course == "" || s.Section == "" {
			return errors.New("course and section are required")
		}
	case ActionAssign, ActionUnassign:
		if s.Course == "" || s.Section == "" || s.Faculty == "" {
			return errors.New("course, section and faculty are required")
		}
	case ActionResetFaculty:
		if s.Faculty == "" {
			return errors.New("faculty is required")
		}
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
	return nil
}
