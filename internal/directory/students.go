package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/zjrosen/packscheduler/internal/cachemanager"
	"github.com/zjrosen/packscheduler/internal/collections"
	"github.com/zjrosen/packscheduler/internal/domain"
	"github.com/zjrosen/packscheduler/internal/log"
	"github.com/zjrosen/packscheduler/internal/recordio"
)

// StudentDirectory holds students ordered by last name, first name and id.
type StudentDirectory struct {
	students *collections.ArrayList[*domain.Student]
	hasher   PasswordHasher
	lookup   *cachemanager.ReadThroughCache[string, *domain.Student, string]
	ttl      time.Duration
}

func NewStudentDirectory(hasher PasswordHasher, opts ...Option) *StudentDirectory {
	o := buildOptions(opts)
	d := &StudentDirectory{students: newStudentList(), hasher: hasher, ttl: o.ttl}
	d.lookup = newLookup("students", o, d.find)
	return d
}

func newStudentList() *collections.ArrayList[*domain.Student] {
	return collections.NewArrayList(collections.WithEqual(func(a, b *domain.Student) bool {
		return a.ID() == b.ID()
	}))
}

// Reset empties the directory.
func (d *StudentDirectory) Reset(ctx context.Context) {
	d.students = newStudentList()
	_ = d.lookup.Reset(ctx)
}

// Load replaces the directory with the students in path.
func (d *StudentDirectory) Load(ctx context.Context, path string) error {
	students, err := recordio.ReadStudents(path)
	if err != nil {
		return fmt.Errorf("unable to read file %s: %w", path, err)
	}

	list := newStudentList()
	for _, s := range students {
		if err := insertSorted(list, s, domain.CompareStudents); err != nil {
			log.Debug(log.CatDirectory, "Skipped student", "id", s.ID(), "error", err)
		}
	}
	d.students = list
	_ = d.lookup.Reset(ctx)

	log.Info(log.CatDirectory, "Students loaded", "file", path, "students", list.Size())
	return nil
}

// Save writes the directory to path.
func (d *StudentDirectory) Save(path string) error {
	if err := recordio.WriteStudents(path, d.students.Values()); err != nil {
		return fmt.Errorf("unable to write to file %s: %w", path, err)
	}
	return nil
}

// Add hashes password and creates a student. A maxCredits outside the allowed
// range falls back to domain.DefaultStudentCredits. It returns false when the
// id is taken.
func (d *StudentDirectory) Add(firstName, lastName, id, email, password, repeatPassword string, maxCredits int) (bool, error) {
	hash, err := hashPair(d.hasher, password, repeatPassword)
	if err != nil {
		return false, err
	}
	if maxCredits < domain.MinStudentCredits || maxCredits > domain.DefaultStudentCredits {
		maxCredits = domain.DefaultStudentCredits
	}
	s, err := domain.NewStudent(firstName, lastName, id, email, hash, maxCredits)
	if err != nil {
		return false, err
	}
	return d.AddStudent(s)
}

// AddStudent inserts an already built student.
func (d *StudentDirectory) AddStudent(s *domain.Student) (bool, error) {
	if s == nil {
		return false, domain.Invalid("Invalid student.")
	}
	if d.students.Contains(s) {
		return false, nil
	}
	if err := insertSorted(d.students, s, domain.CompareStudents); err != nil {
		return false, err
	}
	log.Debug(log.CatDirectory, "Student added", "id", s.ID())
	return true, nil
}

// Remove deletes the student with id.
func (d *StudentDirectory) Remove(ctx context.Context, id string) bool {
	for i, s := range d.students.All() {
		if s.ID() == id {
			_, _ = d.students.RemoveAt(i)
			_ = d.lookup.Invalidate(ctx, id)
			log.Debug(log.CatDirectory, "Student removed", "id", id)
			return true
		}
	}
	return false
}

// ByID returns the student with id.
func (d *StudentDirectory) ByID(ctx context.Context, id string) (*domain.Student, error) {
	return d.lookup.Get(ctx, id, id, d.ttl)
}

func (d *StudentDirectory) find(_ context.Context, id string) (*domain.Student, error) {
	for _, s := range d.students.All() {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
}

// Students returns the directory in order.
func (d *StudentDirectory) Students() []*domain.Student {
	return d.students.Values()
}

// Rows returns first name, last name and id for every student.
func (d *StudentDirectory) Rows() [][]string {
	return userRows(d.students.Values())
}

func (d *StudentDirectory) Len() int {
	return d.students.Size()
}

// hashPair checks that both passwords are present and equal, then hashes one.
func hashPair(hasher PasswordHasher, password, repeatPassword string) (string, error) {
	if password == "" || repeatPassword == "" {
		return "", domain.Invalid(msgInvalidPassword)
	}
	if password != repeatPassword {
		return "", domain.Invalid(msgPasswordsMismatch)
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		log.ErrorErr(log.CatAuth, "Hashing password failed", err)
		return "", domain.Invalid(msgInvalidPassword)
	}
	return hash, nil
}

func userRows[U domain.Account](users []U) [][]string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.FirstName(), u.LastName(), u.ID()})
	}
	return rows
}
