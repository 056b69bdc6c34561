// Package registration coordinates logins, enrollment and faculty assignment.
//
// The Manager is the only component that mutates a course roll together with a
// student's schedule. Every operation runs under one mutex so the two stay in
// agreement even while a file watcher reloads records in the background.
package registration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/packscheduler/internal/auth"
	"github.com/zjrosen/packscheduler/internal/collections"
	"github.com/zjrosen/packscheduler/internal/directory"
	"github.com/zjrosen/packscheduler/internal/domain"
	"github.com/zjrosen/packscheduler/internal/log"
	"github.com/zjrosen/packscheduler/internal/pubsub"
	"github.com/zjrosen/packscheduler/internal/tracing"
)

var (
	// ErrIllegalAction is returned when the current user's role does not allow the operation.
	ErrIllegalAction = errors.New("illegal action")
	// ErrUserNotFound is returned by Login when no account has the id.
	ErrUserNotFound = errors.New("user doesn't exist")
)

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(hash, password string) bool
}

// PasswordRehasher upgrades stored hashes that no longer meet the current policy.
type PasswordRehasher interface {
	NeedsRehash(hash string) bool
	Hash(password string) (string, error)
}

// Enrollment is the payload of enrollment events.
type Enrollment struct {
	StudentID string
	Course    string
	Status    domain.EnrollmentStatus
	OpenSeats int
	Waitlist  int
}

// Config holds the Manager's collaborators. Rehasher, Tracer and Events are optional.
type Config struct {
	Registrar *domain.Registrar
	Verifier  PasswordVerifier
	Rehasher  PasswordRehasher
	Catalog   *directory.Catalog
	Students  *directory.StudentDirectory
	Faculty   *directory.FacultyDirectory
	Sessions  *auth.Sessions
	Tracer    trace.Tracer
	Events    *pubsub.Broker[Enrollment]
}

// Manager owns the registration state for one term.
type Manager struct {
	mu sync.Mutex

	registrar *domain.Registrar
	verifier  PasswordVerifier
	rehasher  PasswordRehasher
	catalog   *directory.Catalog
	students  *directory.StudentDirectory
	faculty   *directory.FacultyDirectory
	sessions  *auth.Sessions
	tracer    trace.Tracer
	events    *pubsub.Broker[Enrollment]

	current domain.Account
	token   auth.Token
}

func NewManager(cfg Config) (*Manager, error) {
	switch {
	case cfg.Registrar == nil:
		return nil, errors.New("registrar is required")
	case cfg.Verifier == nil:
		return nil, errors.New("password verifier is required")
	case cfg.Catalog == nil || cfg.Students == nil || cfg.Faculty == nil:
		return nil, errors.New("catalog and directories are required")
	}

	m := &Manager{
		registrar: cfg.Registrar,
		verifier:  cfg.Verifier,
		rehasher:  cfg.Rehasher,
		catalog:   cfg.Catalog,
		students:  cfg.Students,
		faculty:   cfg.Faculty,
		sessions:  cfg.Sessions,
		tracer:    cfg.Tracer,
		events:    cfg.Events,
	}
	if m.sessions == nil {
		m.sessions = auth.NewInMemorySessions(auth.DefaultSessionTTL)
	}
	if m.events == nil {
		m.events = pubsub.NewBroker[Enrollment]()
	}
	return m, nil
}

func (m *Manager) Catalog() *directory.Catalog           { return m.catalog }
func (m *Manager) Students() *directory.StudentDirectory { return m.students }
func (m *Manager) Faculty() *directory.FacultyDirectory  { return m.faculty }

// Subscribe returns a channel of enrollment events that closes when ctx ends.
func (m *Manager) Subscribe(ctx context.Context) <-chan pubsub.Event[Enrollment] {
	return m.events.Subscribe(ctx)
}

// Login authenticates id against the registrar, then faculty, then students.
// It returns false when someone is already logged in or the password is wrong.
func (m *Manager) Login(ctx context.Context, id, password string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ok bool
	err := tracing.Run(ctx, m.tracer, tracing.SpanLogin, func(ctx context.Context, span trace.Span) error {
		var err error
		ok, err = m.login(ctx, id, password)
		span.SetAttributes(attribute.Bool(tracing.AttrOutcome, ok))
		return err
	}, attribute.String(tracing.AttrUserID, id))
	return ok, err
}

func (m *Manager) login(ctx context.Context, id, password string) (bool, error) {
	if m.current != nil {
		log.Debug(log.CatAuth, "Login refused, session active", "id", id)
		return false, nil
	}

	if id == m.registrar.ID() {
		if !m.verifier.Verify(m.registrar.PasswordHash(), password) {
			return false, nil
		}
		m.open(ctx, m.registrar, password)
		return true, nil
	}

	f, ferr := m.faculty.ByID(ctx, id)
	if ferr == nil && m.verifier.Verify(f.PasswordHash(), password) {
		m.open(ctx, f, password)
		return true, nil
	}
	s, serr := m.students.ByID(ctx, id)
	if serr == nil && m.verifier.Verify(s.PasswordHash(), password) {
		m.open(ctx, s, password)
		return true, nil
	}
	if ferr != nil && serr != nil {
		return false, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	log.Info(log.CatAuth, "Login failed", "id", id)
	return false, nil
}

func (m *Manager) open(ctx context.Context, acct domain.Account, password string) {
	m.rehash(acct, password)
	m.current = acct
	m.token = m.sessions.Open(ctx, acct)
	log.Info(log.CatAuth, "Logged in", "id", acct.ID(), "role", acct.Role(), "trace", tracing.TraceID(ctx))
}

// rehash replaces a legacy or weak hash once the plaintext is known to be correct.
func (m *Manager) rehash(acct domain.Account, password string) {
	if m.rehasher == nil || !m.rehasher.NeedsRehash(acct.PasswordHash()) {
		return
	}
	setter, ok := acct.(interface{ SetPasswordHash(string) error })
	if !ok {
		return
	}
	hash, err := m.rehasher.Hash(password)
	if err == nil {
		err = setter.SetPasswordHash(hash)
	}
	if err != nil {
		log.Warn(log.CatAuth, "Password rehash failed", "id", acct.ID(), "error", err)
		return
	}
	log.Info(log.CatAuth, "Password rehashed", "id", acct.ID())
}

// Logout ends the current session. It is a no-op when nobody is logged in.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_ = tracing.Run(ctx, m.tracer, tracing.SpanLogout, func(ctx context.Context, _ trace.Span) error {
		m.logout(ctx)
		return nil
	})
}

func (m *Manager) logout(ctx context.Context) {
	if m.current != nil {
		log.Info(log.CatAuth, "Logged out", "id", m.current.ID())
	}
	_ = m.sessions.Close(ctx, m.token)
	m.current = nil
	m.token = ""
}

// CurrentUser returns the logged-in account, or nil. An expired session is
// logged out first.
func (m *Manager) CurrentUser(ctx context.Context) domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentUser(ctx)
}

func (m *Manager) currentUser(ctx context.Context) domain.Account {
	if m.current == nil {
		return nil
	}
	if _, err := m.sessions.Lookup(ctx, m.token); err != nil {
		log.Info(log.CatAuth, "Session expired", "id", m.current.ID())
		m.current = nil
		m.token = ""
		return nil
	}
	return m.current
}

func (m *Manager) currentStudent(ctx context.Context) (*domain.Student, error) {
	s, ok := m.currentUser(ctx).(*domain.Student)
	if !ok {
		return nil, ErrIllegalAction
	}
	return s, nil
}

func (m *Manager) requireRegistrar(ctx context.Context) error {
	if _, ok := m.currentUser(ctx).(*domain.Registrar); !ok {
		return ErrIllegalAction
	}
	return nil
}

func (m *Manager) publish(eventType pubsub.EventType, s *domain.Student, c *domain.Course) {
	roll := c.Roll()
	m.events.Publish(eventType, Enrollment{
		StudentID: s.ID(),
		Course:    c.Key(),
		Status:    roll.Status(s),
		OpenSeats: roll.OpenSeats(),
		Waitlist:  roll.NumberOnWaitlist(),
	})
}

func courseAttrs(c *domain.Course) []attribute.KeyValue {
	if c == nil {
		return nil
	}
	return []attribute.KeyValue{attribute.String(tracing.AttrCourse, c.Key())}
}

// ClearData empties the catalog and both directories and logs out.
func (m *Manager) ClearData(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_ = tracing.Run(ctx, m.tracer, tracing.SpanClearData, func(ctx context.Context, _ trace.Span) error {
		m.catalog.Reset(ctx)
		m.students.Reset(ctx)
		m.faculty.Reset(ctx)
		m.logout(ctx)
		log.Info(log.CatRegistration, "Cleared all data")
		return nil
	})
}

// Records names the record files read by LoadRecords.
type Records struct {
	Courses  string
	Students string
	Faculty  string
}

// LoadRecords reads faculty, then students, then courses so course
// instructors resolve against the freshly loaded faculty. Empty paths are skipped.
func (m *Manager) LoadRecords(ctx context.Context, rec Records) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.Faculty != "" {
		if err := m.faculty.Load(ctx, rec.Faculty); err != nil {
			return err
		}
	}
	if rec.Students != "" {
		if err := m.students.Load(ctx, rec.Students); err != nil {
			return err
		}
	}
	if rec.Courses != "" {
		if err := m.catalog.Load(ctx, rec.Courses, m.faculty); err != nil {
			return err
		}
	}
	return nil
}

// SaveRecords writes every non-empty path in rec.
func (m *Manager) SaveRecords(rec Records) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.Faculty != "" {
		if err := m.faculty.Save(rec.Faculty); err != nil {
			return err
		}
	}
	if rec.Students != "" {
		if err := m.students.Save(rec.Students); err != nil {
			return err
		}
	}
	if rec.Courses != "" {
		if err := m.catalog.Save(rec.Courses); err != nil {
			return err
		}
	}
	return nil
}

// Locked runs fn while holding the manager's lock, for callers such as the
// term store that read rolls and schedules together.
func (m *Manager) Locked(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}

// newDropStack returns a stack sized for the student's schedule.
func newDropStack(n int) *collections.Stack[*domain.Course] {
	stack, _ := collections.NewStack[*domain.Course](max(n, 0))
	return stack
}
