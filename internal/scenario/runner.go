package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/zjrosen/packscheduler/internal/collections"
	"github.com/zjrosen/packscheduler/internal/domain"
	"github.com/zjrosen/packscheduler/internal/log"
	"github.com/zjrosen/packscheduler/internal/pubsub"
	"github.com/zjrosen/packscheduler/internal/registration"
)

// Result is the outcome of one step. OK is false both for rejected actions
// (Err nil) and failed ones. Events holds the enrollment changes the step
// caused, in publish order.
type Result struct {
	Index  int
	Step   Step
	OK     bool
	Err    error
	Events []pubsub.Event[registration.Enrollment]
}

// Message returns the user-facing error text, or "".
func (r Result) Message() string {
	return domain.Message(r.Err)
}

// Runner replays scenarios against a registration manager.
type Runner struct {
	manager *registration.Manager
}

func NewRunner(manager *registration.Manager) *Runner {
	return &Runner{manager: manager}
}

// Run executes every step in order. A failing step does not stop the run;
// only a cancelled context does. Whoever is logged in at the end is logged out.
func (r *Runner) Run(ctx context.Context, sc *Scenario) ([]Result, error) {
	pending, err := collections.NewQueue[*Step](len(sc.Steps))
	if err != nil {
		return nil, err
	}
	for i := range sc.Steps {
		if err := pending.Enqueue(&sc.Steps[i]); err != nil {
			return nil, err
		}
	}
	defer r.manager.Logout(ctx)

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := r.manager.Subscribe(subCtx)

	results := make([]Result, 0, len(sc.Steps))
	for index := 1; !pending.IsEmpty(); index++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		step, err := pending.Dequeue()
		if err != nil {
			return results, err
		}

		ok, err := r.apply(ctx, *step)
		results = append(results, Result{
			Index:  index,
			Step:   *step,
			OK:     ok && err == nil,
			Err:    err,
			Events: drain(events),
		})
		if err != nil {
			log.Debug(log.CatRegistration, "Scenario step failed", "scenario", sc.Name, "step", index, "action", step.Action, "error", err)
		}
	}

	log.Info(log.CatRegistration, "Scenario finished", "scenario", sc.Name, "steps", len(results))
	return results, nil
}

// drain takes whatever is already buffered. The manager publishes before its
// operations return, so a step's events are queued by the time apply is done.
func drain(events <-chan pubsub.Event[registration.Enrollment]) []pubsub.Event[registration.Enrollment] {
	var out []pubsub.Event[registration.Enrollment]
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

func (r *Runner) apply(ctx context.Context, step Step) (bool, error) {
	m := r.manager
	switch step.Action {
	case ActionLogin:
		return m.Login(ctx, step.User, step.Password)
	case ActionLogout:
		m.Logout(ctx)
		return true, nil
	case ActionReset:
		return true, m.ResetSchedule(ctx)
	case ActionEnroll, ActionDrop:
		course, err := m.Catalog().Get(ctx, step.Course, step.Section)
		if err != nil {
			return false, err
		}
		if step.Action == ActionEnroll {
			return m.EnrollStudentInCourse(ctx, course)
		}
		return m.DropStudentFromCourse(ctx, course)
	case ActionAssign, ActionUnassign:
		course, err := m.Catalog().Get(ctx, step.Course, step.Section)
		if err != nil {
			return false, err
		}
		faculty, err := m.Faculty().ByID(ctx, step.Faculty)
		if err != nil {
			return false, err
		}
		if step.Action == ActionAssign {
			return m.AddFacultyToCourse(ctx, course, faculty)
		}
		return m.RemoveFacultyFromCourse(ctx, course, faculty)
	case ActionResetFaculty:
		faculty, err := m.Faculty().ByID(ctx, step.Faculty)
		if err != nil {
			return false, err
		}
		return true, m.ResetFacultySchedule(ctx, faculty)
	}
	return false, fmt.Errorf("%w: unknown action %q", ErrInvalidScenario, step.Action)
}

// Failed counts results that did not succeed.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.OK {
			n++
		}
	}
	return n
}

// Errors joins the errors of failed steps, tagged with their index.
func Errors(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("step %d (%s): %w", r.Index, r.Step.Action, r.Err))
		}
	}
	return errors.Join(errs...)
}
