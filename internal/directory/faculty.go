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

// MaxFaculty bounds the faculty directory.
const MaxFaculty = 500

// FacultyDirectory holds faculty in the order they were added.
type FacultyDirectory struct {
	faculty *collections.LinkedList[*domain.Faculty]
	hasher  PasswordHasher
	lookup  *cachemanager.ReadThroughCache[string, *domain.Faculty, string]
	ttl     time.Duration
}

// Ensure FacultyDirectory resolves instructors for the record reader.
var _ recordio.InstructorResolver = (*FacultyDirectory)(nil)

func NewFacultyDirectory(hasher PasswordHasher, opts ...Option) *FacultyDirectory {
	o := buildOptions(opts)
	d := &FacultyDirectory{faculty: newFacultyList(), hasher: hasher, ttl: o.ttl}
	d.lookup = newLookup("faculty", o, d.find)
	return d
}

func newFacultyList() *collections.LinkedList[*domain.Faculty] {
	list, _ := collections.NewLinkedList(MaxFaculty, collections.WithEqual(func(a, b *domain.Faculty) bool {
		return a.ID() == b.ID()
	}))
	return list
}

// Reset empties the directory.
func (d *FacultyDirectory) Reset(ctx context.Context) {
	d.faculty = newFacultyList()
	_ = d.lookup.Reset(ctx)
}

// Load replaces the directory with the faculty in path.
func (d *FacultyDirectory) Load(ctx context.Context, path string) error {
	faculty, err := recordio.ReadFaculty(path)
	if err != nil {
		return fmt.Errorf("unable to read file %s: %w", path, err)
	}

	list := newFacultyList()
	for _, f := range faculty {
		if err := list.Add(f); err != nil {
			log.Warn(log.CatDirectory, "Skipped faculty", "id", f.ID(), "error", err)
		}
	}
	d.faculty = list
	_ = d.lookup.Reset(ctx)

	log.Info(log.CatDirectory, "Faculty loaded", "file", path, "faculty", list.Size())
	return nil
}

// Save writes the directory to path.
func (d *FacultyDirectory) Save(path string) error {
	if err := recordio.WriteFaculty(path, d.faculty.Values()); err != nil {
		return fmt.Errorf("unable to write to file %s: %w", path, err)
	}
	return nil
}

// Add hashes password and creates a faculty member. It returns false when the
// id is taken.
func (d *FacultyDirectory) Add(firstName, lastName, id, email, password, repeatPassword string, maxCourses int) (bool, error) {
	hash, err := hashPair(d.hasher, password, repeatPassword)
	if err != nil {
		return false, err
	}
	f, err := domain.NewFaculty(firstName, lastName, id, email, hash, maxCourses)
	if err != nil {
		return false, err
	}
	return d.AddFaculty(f)
}

// AddFaculty appends an already built faculty member.
func (d *FacultyDirectory) AddFaculty(f *domain.Faculty) (bool, error) {
	if f == nil {
		return false, domain.Invalid("Invalid faculty.")
	}
	if d.faculty.Contains(f) {
		return false, nil
	}
	if err := d.faculty.Add(f); err != nil {
		return false, err
	}
	log.Debug(log.CatDirectory, "Faculty added", "id", f.ID())
	return true, nil
}

// Remove deletes the faculty member with id.
func (d *FacultyDirectory) Remove(ctx context.Context, id string) bool {
	for i, f := range d.faculty.All() {
		if f.ID() == id {
			_, _ = d.faculty.RemoveAt(i)
			_ = d.lookup.Invalidate(ctx, id)
			log.Debug(log.CatDirectory, "Faculty removed", "id", id)
			return true
		}
	}
	return false
}

// ByID returns the faculty member with id.
func (d *FacultyDirectory) ByID(ctx context.Context, id string) (*domain.Faculty, error) {
	return d.lookup.Get(ctx, id, id, d.ttl)
}

// FacultyByID looks id up for the course reader.
func (d *FacultyDirectory) FacultyByID(id string) (*domain.Faculty, bool) {
	f, err := d.ByID(context.Background(), id)
	return f, err == nil
}

func (d *FacultyDirectory) find(_ context.Context, id string) (*domain.Faculty, error) {
	for _, f := range d.faculty.All() {
		if f.ID() == id {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
}

// Faculty returns the directory in insertion order.
func (d *FacultyDirectory) Faculty() []*domain.Faculty {
	return d.faculty.Values()
}

// Rows returns first name, last name and id for every faculty member.
func (d *FacultyDirectory) Rows() [][]string {
	return userRows(d.faculty.Values())
}

func (d *FacultyDirectory) Len() int {
	return d.faculty.Size()
}
