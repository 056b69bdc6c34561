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

type courseRef struct {
	name    string
	section string
}

// Catalog is the set of offered courses ordered by name then section.
type Catalog struct {
	courses *collections.ArrayList[*domain.Course]
	lookup  *cachemanager.ReadThroughCache[string, *domain.Course, courseRef]
	ttl     time.Duration
}

func NewCatalog(opts ...Option) *Catalog {
	o := buildOptions(opts)
	c := &Catalog{courses: newCourseList(), ttl: o.ttl}
	c.lookup = newLookup("catalog", o, c.find)
	return c
}

func newCourseList() *collections.ArrayList[*domain.Course] {
	return collections.NewArrayList(collections.WithEqual(func(a, b *domain.Course) bool {
		return a.Key() == b.Key()
	}))
}

// Reset empties the catalog.
func (c *Catalog) Reset(ctx context.Context) {
	c.courses = newCourseList()
	_ = c.lookup.Reset(ctx)
}

// Load replaces the catalog with the courses in path. Instructor ids are
// resolved through resolver when it is non-nil.
func (c *Catalog) Load(ctx context.Context, path string, resolver recordio.InstructorResolver) error {
	courses, err := recordio.ReadCourses(path, resolver)
	if err != nil {
		return fmt.Errorf("unable to read file %s: %w", path, err)
	}

	list := newCourseList()
	for _, course := range courses {
		if err := insertSorted(list, course, domain.CompareCourses); err != nil {
			log.Debug(log.CatCatalog, "Skipped course", "course", course.Key(), "error", err)
		}
	}
	c.courses = list
	_ = c.lookup.Reset(ctx)

	log.Info(log.CatCatalog, "Catalog loaded", "file", path, "courses", list.Size())
	return nil
}

// Save writes the catalog to path.
func (c *Catalog) Save(path string) error {
	if err := recordio.WriteCourses(path, c.courses.Values()); err != nil {
		return fmt.Errorf("unable to write to file %s: %w", path, err)
	}
	log.Info(log.CatCatalog, "Catalog saved", "file", path, "courses", c.courses.Size())
	return nil
}

// Add builds a course from the fields and inserts it. It returns false when a
// course with the same name and section is already offered.
func (c *Catalog) Add(name, title, section string, credits int, instructorID string, enrollmentCap int, meetingDays string, startTime, endTime int) (bool, error) {
	course, err := domain.NewCourse(name, title, section, credits, instructorID, enrollmentCap, meetingDays, startTime, endTime)
	if err != nil {
		return false, err
	}
	return c.AddCourse(course)
}

// AddCourse inserts an already built course.
func (c *Catalog) AddCourse(course *domain.Course) (bool, error) {
	if course == nil {
		return false, domain.Invalid("Invalid course.")
	}
	if c.courses.Contains(course) {
		return false, nil
	}
	if err := insertSorted(c.courses, course, domain.CompareCourses); err != nil {
		return false, err
	}
	log.Debug(log.CatCatalog, "Course added", "course", course.Key())
	return true, nil
}

// Remove deletes the course with name and section.
func (c *Catalog) Remove(ctx context.Context, name, section string) bool {
	for i, course := range c.courses.All() {
		if course.Name() == name && course.Section() == section {
			_, _ = c.courses.RemoveAt(i)
			_ = c.lookup.Invalidate(ctx, domain.CourseKey(name, section))
			log.Debug(log.CatCatalog, "Course removed", "course", course.Key())
			return true
		}
	}
	return false
}

// Get returns the course with name and section.
func (c *Catalog) Get(ctx context.Context, name, section string) (*domain.Course, error) {
	return c.lookup.Get(ctx, domain.CourseKey(name, section), courseRef{name: name, section: section}, c.ttl)
}

func (c *Catalog) find(_ context.Context, ref courseRef) (*domain.Course, error) {
	for _, course := range c.courses.All() {
		if course.Name() == ref.name && course.Section() == ref.section {
			return course, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, domain.CourseKey(ref.name, ref.section))
}

// Courses returns the catalog in order.
func (c *Catalog) Courses() []*domain.Course {
	return c.courses.Values()
}

// Rows returns the short display of every course.
func (c *Catalog) Rows() [][]string {
	rows := make([][]string, 0, c.courses.Size())
	for _, course := range c.courses.All() {
		rows = append(rows, course.ShortDisplay())
	}
	return rows
}

func (c *Catalog) Len() int {
	return c.courses.Size()
}
