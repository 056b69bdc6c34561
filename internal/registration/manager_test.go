package registration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/crypto/bcrypt"

	"github.com/zjrosen/packscheduler/internal/auth"
	"github.com/zjrosen/packscheduler/internal/directory"
	"github.com/zjrosen/packscheduler/internal/domain"
	"github.com/zjrosen/packscheduler/internal/pubsub"
	"github.com/zjrosen/packscheduler/internal/tracing"
)

const (
	registrarID = "registrar"
	password    = "pw"
)

type fixture struct {
	m      *Manager
	hasher *auth.Hasher
}

func newFixture(t *testing.T, opts ...func(*Config)) *fixture {
	t.Helper()
	hasher := auth.NewHasher(bcrypt.MinCost)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	registrar, err := domain.NewRegistrar("Wolf", "Scheduler", registrarID, "registrar@ncsu.edu", hash)
	require.NoError(t, err)

	cfg := Config{
		Registrar: registrar,
		Verifier:  hasher,
		Catalog:   directory.NewCatalog(),
		Students:  directory.NewStudentDirectory(hasher),
		Faculty:   directory.NewFacultyDirectory(hasher),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	m, err := NewManager(cfg)
	require.NoError(t, err)
	return &fixture{m: m, hasher: hasher}
}

func (f *fixture) addStudents(t *testing.T, n int) []string {
	t.Helper()
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("student%02d", i)
		ok, err := f.m.Students().Add("Stu", fmt.Sprintf("Dent%02d", i), ids[i], ids[i]+"@ncsu.edu", password, password, 18)
		require.NoError(t, err)
		require.True(t, ok)
	}
	return ids
}

func (f *fixture) addCourse(t *testing.T, name, section string, credits int, days string, start, end int) *domain.Course {
	t.Helper()
	ok, err := f.m.Catalog().Add(name, "Title", section, credits, "", 10, days, start, end)
	require.NoError(t, err)
	require.True(t, ok)
	c, err := f.m.Catalog().Get(context.Background(), name, section)
	require.NoError(t, err)
	return c
}

func (f *fixture) as(t *testing.T, id string, fn func()) {
	t.Helper()
	ctx := context.Background()
	ok, err := f.m.Login(ctx, id, password)
	require.NoError(t, err)
	require.True(t, ok, "login %s", id)
	defer f.m.Logout(ctx)
	fn()
}

func (f *fixture) student(t *testing.T, id string) *domain.Student {
	t.Helper()
	s, err := f.m.Students().ByID(context.Background(), id)
	require.NoError(t, err)
	return s
}

func TestNewManager_RequiresCollaborators(t *testing.T) {
	_, err := NewManager(Config{})
	require.Error(t, err)
}

func TestManager_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addStudents(t, 1)
	ok, err := f.m.Faculty().Add("Sarah", "Heckman", "sesmith5", "sesmith5@ncsu.edu", password, password, 2)
	require.NoError(t, err)
	require.True(t, ok)

	tests := []struct {
		name     string
		id, pw   string
		wantOK   bool
		wantErr  error
		wantRole domain.Role
	}{
		{name: "registrar", id: registrarID, pw: password, wantOK: true, wantRole: domain.RoleRegistrar},
		{name: "registrar wrong password", id: registrarID, pw: "nope"},
		{name: "faculty", id: "sesmith5", pw: password, wantOK: true, wantRole: domain.RoleFaculty},
		{name: "student", id: "student00", pw: password, wantOK: true, wantRole: domain.RoleStudent},
		{name: "student wrong password", id: "student00", pw: "nope"},
		{name: "unknown id", id: "nobody", pw: password, wantErr: ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() { f.m.Logout(ctx) })

			ok, err := f.m.Login(ctx, tt.id, tt.pw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, f.m.CurrentUser(ctx))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				require.Nil(t, f.m.CurrentUser(ctx))
				return
			}
			require.Equal(t, tt.wantRole, f.m.CurrentUser(ctx).Role())
		})
	}
}

func TestManager_LoginWhileLoggedIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addStudents(t, 1)

	ok, err := f.m.Login(ctx, registrarID, password)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.m.Login(ctx, "student00", password)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, registrarID, f.m.CurrentUser(ctx).ID())

	f.m.Logout(ctx)
	f.m.Logout(ctx)
	require.Nil(t, f.m.CurrentUser(ctx))
}

func TestManager_SessionExpiryLogsOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func(cfg *Config) {
		cfg.Sessions = auth.NewInMemorySessions(10 * time.Millisecond)
	})

	ok, err := f.m.Login(ctx, registrarID, password)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)
	require.Nil(t, f.m.CurrentUser(ctx))

	ok, err = f.m.Login(ctx, registrarID, password)
	require.NoError(t, err)
	require.True(t, ok, "expired session does not block a new login")
}

func TestManager_StudentActionsRequireStudent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.addCourse(t, "CSC216", "001", 3, "MW", 1330, 1445)

	_, err := f.m.EnrollStudentInCourse(ctx, c)
	require.ErrorIs(t, err, ErrIllegalAction)

	f.as(t, registrarID, func() {
		_, err := f.m.EnrollStudentInCourse(ctx, c)
		require.ErrorIs(t, err, ErrIllegalAction)
		_, err = f.m.DropStudentFromCourse(ctx, c)
		require.ErrorIs(t, err, ErrIllegalAction)
		require.ErrorIs(t, f.m.ResetSchedule(ctx), ErrIllegalAction)
	})
}

func TestManager_EnrollElevenThenDrop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := newFixture(t)
	c := f.addCourse(t, "CSC216", "001", 3, "MW", 1330, 1445)
	ids := f.addStudents(t, 11)
	events := f.m.Subscribe(ctx)

	for _, id := range ids {
		f.as(t, id, func() {
			ok, err := f.m.EnrollStudentInCourse(ctx, c)
			require.NoError(t, err)
			require.True(t, ok, id)
		})
	}

	require.Equal(t, 0, c.Roll().OpenSeats())
	require.Equal(t, 1, c.Roll().NumberOnWaitlist())
	last := f.student(t, ids[10])
	require.Equal(t, domain.Waitlisted, c.Roll().Status(last))
	require.True(t, last.Schedule().Contains(c))

	f.as(t, ids[9], func() {
		ok, err := f.m.DropStudentFromCourse(ctx, c)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = f.m.DropStudentFromCourse(ctx, c)
		require.NoError(t, err)
		require.False(t, ok, "already dropped")
	})

	require.Equal(t, 0, c.Roll().OpenSeats())
	require.Equal(t, 0, c.Roll().NumberOnWaitlist())
	require.Equal(t, domain.Enrolled, c.Roll().Status(last))
	require.Equal(t, 1, last.Schedule().Len())
	require.False(t, f.student(t, ids[9]).Schedule().Contains(c))

	var got []pubsub.EventType
	for range 13 {
		select {
		case e := <-events:
			got = append(got, e.Type)
		case <-time.After(time.Second):
			t.Fatal("missing event")
		}
	}
	require.Equal(t, pubsub.EnrolledEvent, got[0])
	require.Equal(t, pubsub.WaitlistedEvent, got[10])
	require.Equal(t, pubsub.DroppedEvent, got[11])
	require.Equal(t, pubsub.PromotedEvent, got[12])
}

func TestManager_EnrollRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sdf := f.addCourse(t, "CSC216", "001", 3, "MW", 1330, 1445)
	sdf2 := f.addCourse(t, "CSC216", "002", 3, "TH", 1330, 1445)
	clash := f.addCourse(t, "MA141", "001", 4, "M", 1400, 1500)
	ids := f.addStudents(t, 1)

	ok, err := f.m.Students().Add("Min", "Credits", "minc", "minc@ncsu.edu", password, password, 3)
	require.NoError(t, err)
	require.True(t, ok)

	f.as(t, ids[0], func() {
		ok, err := f.m.EnrollStudentInCourse(ctx, sdf)
		require.NoError(t, err)
		require.True(t, ok)

		for _, c := range []*domain.Course{sdf, sdf2, clash, nil} {
			ok, err = f.m.EnrollStudentInCourse(ctx, c)
			require.NoError(t, err)
			require.False(t, ok)
		}
	})
	s := f.student(t, ids[0])
	require.Equal(t, 1, s.Schedule().Len())
	require.Len(t, clash.Roll().Roster(), 0)
	require.Len(t, sdf2.Roll().Roster(), 0)

	f.as(t, "minc", func() {
		ok, err := f.m.EnrollStudentInCourse(ctx, sdf2)
		require.NoError(t, err)
		require.True(t, ok)

		lab := f.addCourse(t, "CSC217", "001", 1, "F", 800, 900)
		ok, err = f.m.EnrollStudentInCourse(ctx, lab)
		require.NoError(t, err)
		require.False(t, ok, "over max credits")
	})
}

func TestManager_WaitlistFull(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.addCourse(t, "CSC216", "001", 3, "MW", 1330, 1445)
	ids := f.addStudents(t, 21)

	for i, id := range ids {
		f.as(t, id, func() {
			ok, err := f.m.EnrollStudentInCourse(ctx, c)
			require.NoError(t, err)
			require.Equal(t, i < 20, ok, id)
		})
	}
	require.Equal(t, domain.WaitlistSize, c.Roll().NumberOnWaitlist())
	require.Zero(t, f.student(t, ids[20]).Schedule().Len())
}

func TestManager_ResetSchedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sdf := f.addCourse(t, "CSC216", "001", 3, "MW", 1330, 1445)
	discrete := f.addCourse(t, "CSC226", "001", 3, "TH", 935, 1025)
	ids := f.addStudents(t, 12)

	// Fill discrete so the last two students are waitlisted.
	for _, id := range ids {
		f.as(t, id, func() {
			ok, err := f.m.EnrollStudentInCourse(ctx, discrete)
			require.NoError(t, err)
			require.True(t, ok)
		})
	}
	last := ids[11]
	f.as(t, last, func() {
		ok, err := f.m.EnrollStudentInCourse(ctx, sdf)
		require.NoError(t, err)
		require.True(t, ok)
		f.student(t, last).Schedule().SetTitle("Spring")

		require.NoError(t, f.m.ResetSchedule(ctx))
	})

	s := f.student(t, last)
	require.Zero(t, s.Schedule().Len())
	require.Equal(t, domain.DefaultScheduleTitle, s.Schedule().Title())
	require.Equal(t, domain.Unenrolled, sdf.Roll().Status(s))
	require.Equal(t, domain.Unenrolled, discrete.Roll().Status(s))
	require.Equal(t, 1, discrete.Roll().NumberOnWaitlist())

	// Resetting a seated student promotes the waitlist head.
	f.as(t, ids[0], func() {
		require.NoError(t, f.m.ResetSchedule(ctx))
	})
	require.Equal(t, domain.Enrolled, discrete.Roll().Status(f.student(t, ids[10])))
	require.Zero(t, discrete.Roll().NumberOnWaitlist())
}

func TestManager_FacultyAssignment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sdf := f.addCourse(t, "CSC216", "001", 3, "MW", 1330, 1445)
	clash := f.addCourse(t, "CSC226", "001", 3, "M", 1400, 1500)
	ok, err := f.m.Faculty().Add("Sarah", "Heckman", "sesmith5", "sesmith5@ncsu.edu", password, password, 2)
	require.NoError(t, err)
	require.True(t, ok)
	fac, err := f.m.Faculty().ByID(ctx, "sesmith5")
	require.NoError(t, err)

	_, err = f.m.AddFacultyToCourse(ctx, sdf, fac)
	require.ErrorIs(t, err, ErrIllegalAction)

	f.as(t, "sesmith5", func() {
		_, err := f.m.AddFacultyToCourse(ctx, sdf, fac)
		require.ErrorIs(t, err, ErrIllegalAction)
		require.ErrorIs(t, f.m.ResetFacultySchedule(ctx, fac), ErrIllegalAction)
	})

	f.as(t, registrarID, func() {
		ok, err := f.m.AddFacultyToCourse(ctx, sdf, fac)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "sesmith5", sdf.InstructorID())

		ok, err = f.m.AddFacultyToCourse(ctx, clash, fac)
		require.ErrorIs(t, err, domain.ErrScheduleConflict)
		require.False(t, ok)
		require.False(t, clash.HasInstructor())

		ok, err = f.m.RemoveFacultyFromCourse(ctx, sdf, fac)
		require.NoError(t, err)
		require.True(t, ok)
		require.False(t, sdf.HasInstructor())

		ok, err = f.m.RemoveFacultyFromCourse(ctx, sdf, fac)
		require.NoError(t, err)
		require.False(t, ok)

		_, err = f.m.AddFacultyToCourse(ctx, sdf, fac)
		require.NoError(t, err)
		require.NoError(t, f.m.ResetFacultySchedule(ctx, fac))
		require.Zero(t, fac.Schedule().NumScheduledCourses())
		require.False(t, sdf.HasInstructor())
	})
}

func TestManager_ClearData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addCourse(t, "CSC216", "001", 3, "MW", 1330, 1445)
	f.addStudents(t, 2)

	ok, err := f.m.Login(ctx, registrarID, password)
	require.NoError(t, err)
	require.True(t, ok)

	f.m.ClearData(ctx)
	require.Zero(t, f.m.Catalog().Len())
	require.Zero(t, f.m.Students().Len())
	require.Zero(t, f.m.Faculty().Len())
	require.Nil(t, f.m.CurrentUser(ctx))
}

func TestManager_LoadAndSaveRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.m.LoadRecords(ctx, Records{
		Courses:  filepath.Join("testdata", "course_records.txt"),
		Students: filepath.Join("testdata", "student_records.txt"),
		Faculty:  filepath.Join("testdata", "faculty_records.txt"),
	})
	require.NoError(t, err)
	require.Equal(t, 9, f.m.Catalog().Len())
	require.Equal(t, 10, f.m.Students().Len())
	require.Equal(t, 8, f.m.Faculty().Len())

	err = f.m.LoadRecords(ctx, Records{Courses: filepath.Join("testdata", "missing.txt")})
	require.Error(t, err)
	require.Equal(t, 9, f.m.Catalog().Len(), "failed load keeps the old catalog")

	dir := t.TempDir()
	out := Records{
		Courses:  filepath.Join(dir, "courses.txt"),
		Students: filepath.Join(dir, "students.txt"),
		Faculty:  filepath.Join(dir, "faculty.txt"),
	}
	require.NoError(t, f.m.SaveRecords(out))

	again := newFixture(t)
	require.NoError(t, again.m.LoadRecords(ctx, out))
	require.Equal(t, f.m.Catalog().Rows(), again.m.Catalog().Rows())
	require.Equal(t, f.m.Students().Rows(), again.m.Students().Rows())
}

func TestManager_TracesOperations(t *testing.T) {
	ctx := context.Background()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	f := newFixture(t, func(cfg *Config) { cfg.Tracer = tp.Tracer("test") })
	c := f.addCourse(t, "CSC216", "001", 3, "MW", 1330, 1445)
	ids := f.addStudents(t, 1)

	f.as(t, ids[0], func() {
		ok, err := f.m.EnrollStudentInCourse(ctx, c)
		require.NoError(t, err)
		require.True(t, ok)
	})

	var enroll *tracetest.SpanStub
	for _, s := range exporter.GetSpans() {
		if s.Name == tracing.SpanEnroll {
			enroll = &s
		}
	}
	require.NotNil(t, enroll)
	require.Contains(t, enroll.Attributes, attribute.String(tracing.AttrCourse, "CSC216-001"))
	require.Contains(t, enroll.Attributes, attribute.String(tracing.AttrUserID, ids[0]))
	require.Contains(t, enroll.Attributes, attribute.Bool(tracing.AttrOutcome, true))
}

func TestManager_LoginRehashesLegacyDigest(t *testing.T) {
	ctx := context.Background()
	legacy, err := domain.NewRegistrar("Wolf", "Scheduler", registrarID, "registrar@ncsu.edu", auth.LegacyDigest(password))
	require.NoError(t, err)

	f := newFixture(t, func(cfg *Config) {
		cfg.Registrar = legacy
		cfg.Rehasher = auth.NewHasher(bcrypt.MinCost)
	})

	ok, err := f.m.Login(ctx, registrarID, "wrong")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, auth.LegacyDigest(password), legacy.PasswordHash(), "failed login leaves the hash alone")

	ok, err = f.m.Login(ctx, registrarID, password)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, f.hasher.NeedsRehash(legacy.PasswordHash()))
	require.True(t, f.hasher.Verify(legacy.PasswordHash(), password))
}
