package registration

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/packscheduler/internal/domain"
	"github.com/zjrosen/packscheduler/internal/log"
	"github.com/zjrosen/packscheduler/internal/pubsub"
	"github.com/zjrosen/packscheduler/internal/tracing"
)

// EnrollStudentInCourse seats the current student in c, or waitlists them when
// the roster is full. It returns false when the student cannot take the course.
// The schedule and roll change together or not at all.
func (m *Manager) EnrollStudentInCourse(ctx context.Context, c *domain.Course) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.currentStudent(ctx)
	if err != nil {
		return false, err
	}

	var ok bool
	err = tracing.Run(ctx, m.tracer, tracing.SpanEnroll, func(ctx context.Context, span trace.Span) error {
		span.SetAttributes(attribute.String(tracing.AttrUserID, s.ID()))
		ok = m.enroll(span, s, c)
		span.SetAttributes(attribute.Bool(tracing.AttrOutcome, ok))
		return nil
	}, courseAttrs(c)...)
	return ok, err
}

func (m *Manager) enroll(span trace.Span, s *domain.Student, c *domain.Course) bool {
	if c == nil {
		return false
	}
	roll := c.Roll()
	if !s.CanAdd(c) || !roll.CanEnroll(s) {
		span.AddEvent(tracing.EventRejected)
		log.Info(log.CatRegistration, "Enrollment rejected", "student", s.ID(), "course", c.Key())
		return false
	}

	if roll.OpenSeats() > 0 {
		if err := s.Schedule().AddCourse(c); err != nil {
			log.Info(log.CatRegistration, "Enrollment rejected", "student", s.ID(), "course", c.Key(), "reason", domain.Message(err))
			return false
		}
		if err := roll.Enroll(s); err != nil {
			s.Schedule().RemoveCourse(c)
			log.Warn(log.CatRoll, "Roll refused student, schedule restored", "student", s.ID(), "course", c.Key(), "reason", domain.Message(err))
			return false
		}
		log.Info(log.CatRoll, "Student enrolled", "student", s.ID(), "course", c.Key(), "open_seats", roll.OpenSeats())
		m.publish(pubsub.EnrolledEvent, s, c)
		return true
	}

	// A full roster queues the student; the roll adds the course to the schedule.
	if err := roll.Enroll(s); err != nil {
		log.Info(log.CatRegistration, "Waitlist rejected", "student", s.ID(), "course", c.Key(), "reason", domain.Message(err))
		return false
	}
	span.AddEvent(tracing.EventWaitlisted, trace.WithAttributes(attribute.Int(tracing.AttrWaitlist, roll.NumberOnWaitlist())))
	log.Info(log.CatRoll, "Student waitlisted", "student", s.ID(), "course", c.Key(), "position", roll.NumberOnWaitlist())
	m.publish(pubsub.WaitlistedEvent, s, c)
	return true
}

// DropStudentFromCourse removes the current student from c's roster or
// waitlist. It returns true when the course left the student's schedule.
func (m *Manager) DropStudentFromCourse(ctx context.Context, c *domain.Course) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.currentStudent(ctx)
	if err != nil {
		return false, err
	}

	var ok bool
	err = tracing.Run(ctx, m.tracer, tracing.SpanDrop, func(ctx context.Context, span trace.Span) error {
		span.SetAttributes(attribute.String(tracing.AttrUserID, s.ID()))
		ok = m.drop(span, s, c)
		span.SetAttributes(attribute.Bool(tracing.AttrOutcome, ok))
		return nil
	}, courseAttrs(c)...)
	return ok, err
}

func (m *Manager) drop(span trace.Span, s *domain.Student, c *domain.Course) bool {
	if c == nil {
		return false
	}
	before := s.Schedule().Len()
	promoted, err := c.Roll().Drop(s)
	if err != nil {
		log.Warn(log.CatRoll, "Drop failed", "student", s.ID(), "course", c.Key(), "reason", domain.Message(err))
		return false
	}
	if s.Schedule().Len() != before-1 {
		return false
	}

	log.Info(log.CatRoll, "Student dropped", "student", s.ID(), "course", c.Key())
	m.publish(pubsub.DroppedEvent, s, c)
	if promoted != nil {
		span.AddEvent(tracing.EventPromoted, trace.WithAttributes(attribute.String(tracing.AttrPromotedID, promoted.ID())))
		log.Info(log.CatRoll, "Student promoted from waitlist", "student", promoted.ID(), "course", c.Key())
		m.publish(pubsub.PromotedEvent, promoted, c)
	}
	return true
}

// ResetSchedule drops the current student from every scheduled course, most
// recently added first, then empties the schedule.
func (m *Manager) ResetSchedule(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.currentStudent(ctx)
	if err != nil {
		return err
	}

	return tracing.Run(ctx, m.tracer, tracing.SpanResetSchedule, func(ctx context.Context, span trace.Span) error {
		courses := s.Schedule().Courses()
		stack := newDropStack(len(courses))
		for _, c := range courses {
			_ = stack.Push(c)
		}

		for !stack.IsEmpty() {
			scheduled, _ := stack.Pop()
			// Drop through the catalog's copy so a stale schedule entry is tolerated.
			c, err := m.catalog.Get(ctx, scheduled.Name(), scheduled.Section())
			if err != nil {
				log.Warn(log.CatSchedule, "Scheduled course not in catalog", "course", scheduled.Key())
				continue
			}
			m.drop(span, s, c)
		}
		s.Schedule().Reset()
		log.Info(log.CatSchedule, "Schedule reset", "student", s.ID())
		return nil
	}, attribute.String(tracing.AttrUserID, s.ID()))
}
