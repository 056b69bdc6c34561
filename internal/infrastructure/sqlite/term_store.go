package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/packscheduler/internal/domain"
	"github.com/zjrosen/packscheduler/internal/log"
)

// Term is everything a registration term holds: the catalog with its rolls,
// the students with their schedules and the faculty with their assignments.
type Term struct {
	Courses  []*domain.Course
	Students []*domain.Student
	Faculty  []*domain.Faculty
}

// TermStore saves and loads whole terms.
type TermStore struct {
	conn *sql.DB
	now  func() time.Time
}

func newTermStore(conn *sql.DB) *TermStore {
	return &TermStore{conn: conn, now: time.Now}
}

// Save replaces the stored term with term inside one transaction and returns
// the id of the snapshot it recorded.
func (s *TermStore) Save(ctx context.Context, term Term) (string, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := clearTerm(ctx, tx); err != nil {
		return "", err
	}

	faculty := facultyRepository(tx)
	known := make(map[string]bool, len(term.Faculty))
	for i, f := range term.Faculty {
		if err := faculty.Insert(ctx, toFacultyModel(f, i)); err != nil {
			return "", err
		}
		known[f.ID()] = true
	}

	students := studentRepository(tx)
	for _, st := range term.Students {
		if err := students.Insert(ctx, toStudentModel(st)); err != nil {
			return "", err
		}
	}

	courses := courseRepository{tx}
	enrollments := enrollmentRepository{tx}
	count := 0
	for _, c := range term.Courses {
		m := toCourseModel(c)
		if m.InstructorID != nil && !known[*m.InstructorID] {
			log.Warn(log.CatDB, "Instructor not in term, saving course unassigned", "course", c.Key(), "instructor", *m.InstructorID)
			m.InstructorID = nil
		}
		if err := courses.Insert(ctx, m); err != nil {
			return "", err
		}
		for _, e := range enrollmentModels(c) {
			if err := enrollments.Insert(ctx, e); err != nil {
				return "", err
			}
			count++
		}
	}

	snap := &SnapshotModel{
		ID:          uuid.NewString(),
		SavedAt:     s.now().Unix(),
		Courses:     len(term.Courses),
		Students:    len(term.Students),
		Faculty:     len(term.Faculty),
		Enrollments: count,
	}
	if err := (snapshotRepository{tx}).Insert(ctx, snap); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit save: %w", err)
	}
	log.Info(log.CatDB, "Term saved", "snapshot", snap.ID, "courses", snap.Courses,
		"students", snap.Students, "faculty", snap.Faculty, "enrollments", count)
	return snap.ID, nil
}

// Load rebuilds the stored term. Instructors are assigned through each
// faculty schedule and rolls are restored in their saved order, with every
// enrolled or waitlisted student holding the course in their schedule.
func (s *TermStore) Load(ctx context.Context) (*Term, error) {
	tx, err := s.conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin load: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	facultyModels, err := facultyRepository(tx).All(ctx)
	if err != nil {
		return nil, err
	}
	studentModels, err := studentRepository(tx).All(ctx)
	if err != nil {
		return nil, err
	}
	courseModels, err := courseRepository{tx}.All(ctx)
	if err != nil {
		return nil, err
	}
	enrolled, err := enrollmentRepository{tx}.All(ctx)
	if err != nil {
		return nil, err
	}

	term := &Term{}
	facultyByID := make(map[string]*domain.Faculty, len(facultyModels))
	for _, m := range facultyModels {
		f, err := m.toFaculty()
		if err != nil {
			return nil, fmt.Errorf("faculty %s: %w", m.ID, err)
		}
		term.Faculty = append(term.Faculty, f)
		facultyByID[f.ID()] = f
	}

	studentByID := make(map[string]*domain.Student, len(studentModels))
	for _, m := range studentModels {
		st, err := m.toStudent()
		if err != nil {
			return nil, fmt.Errorf("student %s: %w", m.ID, err)
		}
		term.Students = append(term.Students, st)
		studentByID[st.ID()] = st
	}

	courseByKey := make(map[string]*domain.Course, len(courseModels))
	for _, m := range courseModels {
		c, err := m.toDomain()
		if err != nil {
			return nil, fmt.Errorf("course %s-%s: %w", m.Name, m.Section, err)
		}
		if m.InstructorID != nil {
			if f, ok := facultyByID[*m.InstructorID]; ok {
				if err := f.Schedule().AddCourse(c); err != nil {
					log.Warn(log.CatDB, "Instructor assignment skipped", "course", c.Key(), "instructor", f.ID(), "error", err)
				}
			}
		}
		term.Courses = append(term.Courses, c)
		courseByKey[c.Key()] = c
	}

	type roll struct{ roster, waitlist []*domain.Student }
	rolls := make(map[string]*roll)
	for _, e := range enrolled {
		key := domain.CourseKey(e.CourseName, e.CourseSection)
		c, st := courseByKey[key], studentByID[e.StudentID]
		if c == nil || st == nil {
			return nil, fmt.Errorf("enrollment %s in %s references a missing row", e.StudentID, key)
		}
		if err := st.Schedule().AddCourse(c); err != nil {
			return nil, fmt.Errorf("restoring %s in %s: %w", st.ID(), key, err)
		}
		r := rolls[key]
		if r == nil {
			r = &roll{}
			rolls[key] = r
		}
		if e.Status == statusRoster {
			r.roster = append(r.roster, st)
		} else {
			r.waitlist = append(r.waitlist, st)
		}
	}
	for key, r := range rolls {
		if err := courseByKey[key].Roll().Restore(r.roster, r.waitlist); err != nil {
			return nil, fmt.Errorf("restoring roll %s: %w", key, err)
		}
	}

	log.Info(log.CatDB, "Term loaded", "courses", len(term.Courses), "students", len(term.Students),
		"faculty", len(term.Faculty), "enrollments", len(enrolled))
	return term, nil
}

// Snapshots lists saved snapshots, newest first.
func (s *TermStore) Snapshots(ctx context.Context) ([]Snapshot, error) {
	models, err := snapshotRepository{s.conn}.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Snapshot, len(models))
	for i, m := range models {
		out[i] = m.toSnapshot()
	}
	return out, nil
}
