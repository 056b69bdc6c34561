package registration

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/packscheduler/internal/domain"
	"github.com/zjrosen/packscheduler/internal/log"
	"github.com/zjrosen/packscheduler/internal/tracing"
)

// AddFacultyToCourse assigns f to teach c. Only the registrar may do this.
func (m *Manager) AddFacultyToCourse(ctx context.Context, c *domain.Course, f *domain.Faculty) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireRegistrar(ctx); err != nil {
		return false, err
	}
	if c == nil || f == nil {
		return false, domain.Invalid("Invalid course or faculty.")
	}

	err := tracing.Run(ctx, m.tracer, tracing.SpanAssignFaculty, func(ctx context.Context, span trace.Span) error {
		if err := f.Schedule().AddCourse(c); err != nil {
			return err
		}
		if f.IsOverloaded() {
			log.Warn(log.CatSchedule, "Faculty overloaded", "faculty", f.ID(), "courses", f.Schedule().NumScheduledCourses(), "max", f.MaxCourses())
		}
		log.Info(log.CatSchedule, "Faculty assigned", "faculty", f.ID(), "course", c.Key())
		return nil
	}, append(courseAttrs(c), attribute.String(tracing.AttrFacultyID, f.ID()))...)
	if err != nil {
		return false, err
	}
	return true, nil
}

// RemoveFacultyFromCourse unassigns f from c. Only the registrar may do this.
func (m *Manager) RemoveFacultyFromCourse(ctx context.Context, c *domain.Course, f *domain.Faculty) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireRegistrar(ctx); err != nil {
		return false, err
	}
	if c == nil || f == nil {
		return false, nil
	}

	var ok bool
	err := tracing.Run(ctx, m.tracer, tracing.SpanRemoveFaculty, func(ctx context.Context, span trace.Span) error {
		ok = f.Schedule().RemoveCourse(c)
		span.SetAttributes(attribute.Bool(tracing.AttrOutcome, ok))
		if ok {
			log.Info(log.CatSchedule, "Faculty unassigned", "faculty", f.ID(), "course", c.Key())
		}
		return nil
	}, append(courseAttrs(c), attribute.String(tracing.AttrFacultyID, f.ID()))...)
	return ok, err
}

// ResetFacultySchedule unassigns f from every course. Only the registrar may do this.
func (m *Manager) ResetFacultySchedule(ctx context.Context, f *domain.Faculty) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireRegistrar(ctx); err != nil {
		return err
	}
	if f == nil {
		return domain.Invalid("Invalid faculty.")
	}

	return tracing.Run(ctx, m.tracer, tracing.SpanResetFaculty, func(ctx context.Context, _ trace.Span) error {
		f.Schedule().Reset()
		log.Info(log.CatSchedule, "Faculty schedule reset", "faculty", f.ID())
		return nil
	}, attribute.String(tracing.AttrFacultyID, f.ID()))
}
