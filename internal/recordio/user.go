package recordio

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zjrosen/packscheduler/internal/domain"
	"github.com/zjrosen/packscheduler/internal/log"
)

const userFields = 6

// ReadStudents reads the student file at path, skipping invalid lines and
// repeated ids.
func ReadStudents(path string) ([]*domain.Student, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from config
	if err != nil {
		return nil, fmt.Errorf("opening student records: %w", err)
	}
	defer func() { _ = f.Close() }()

	students, err := ReadStudentsFrom(f)
	if err != nil {
		return nil, fmt.Errorf("reading student records %s: %w", path, err)
	}
	log.Info(log.CatIO, "Read student records", "file", path, "count", len(students))
	return students, nil
}

func ReadStudentsFrom(src io.Reader) ([]*domain.Student, error) {
	return readUsers(src, "student", ParseStudent)
}

// ReadFaculty reads the faculty file at path, skipping invalid lines and
// repeated ids.
func ReadFaculty(path string) ([]*domain.Faculty, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from config
	if err != nil {
		return nil, fmt.Errorf("opening faculty records: %w", err)
	}
	defer func() { _ = f.Close() }()

	faculty, err := ReadFacultyFrom(f)
	if err != nil {
		return nil, fmt.Errorf("reading faculty records %s: %w", path, err)
	}
	log.Info(log.CatIO, "Read faculty records", "file", path, "count", len(faculty))
	return faculty, nil
}

func ReadFacultyFrom(src io.Reader) ([]*domain.Faculty, error) {
	return readUsers(src, "faculty", ParseFaculty)
}

func readUsers[U domain.Account](src io.Reader, kind string, parse func(string) (U, error)) ([]U, error) {
	var users []U
	seen := make(map[string]bool)

	err := eachLine(src, func(n int, line string) {
		u, err := parse(line)
		if err != nil {
			log.Debug(log.CatIO, "Skipping "+kind+" line", "line", n, "reason", domain.Message(err))
			return
		}
		if seen[u.ID()] {
			log.Debug(log.CatIO, "Skipping duplicate "+kind, "line", n, "id", u.ID())
			return
		}
		seen[u.ID()] = true
		users = append(users, u)
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// splitUser splits a user line and parses its trailing limit field.
func splitUser(line string) ([]string, int, error) {
	fields := strings.Split(line, ",")
	if len(fields) != userFields {
		return nil, 0, ErrMalformedLine
	}
	limit, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, 0, ErrMalformedLine
	}
	return fields, limit, nil
}

// ParseStudent parses first,last,id,email,hash,maxCredits.
func ParseStudent(line string) (*domain.Student, error) {
	f, maxCredits, err := splitUser(line)
	if err != nil {
		return nil, err
	}
	return domain.NewStudent(f[0], f[1], f[2], f[3], f[4], maxCredits)
}

// ParseFaculty parses first,last,id,email,hash,maxCourses.
func ParseFaculty(line string) (*domain.Faculty, error) {
	f, maxCourses, err := splitUser(line)
	if err != nil {
		return nil, err
	}
	return domain.NewFaculty(f[0], f[1], f[2], f[3], f[4], maxCourses)
}

func formatUser(u domain.Account, limit int) string {
	return strings.Join([]string{
		u.FirstName(),
		u.LastName(),
		u.ID(),
		u.Email(),
		u.PasswordHash(),
		strconv.Itoa(limit),
	}, ",")
}

func FormatStudent(s *domain.Student) string {
	return formatUser(s, s.MaxCredits())
}

func FormatFaculty(f *domain.Faculty) string {
	return formatUser(f, f.MaxCourses())
}

// WriteStudents replaces the file at path with one line per student.
func WriteStudents(path string, students []*domain.Student) error {
	lines := make([]string, len(students))
	for i, s := range students {
		lines[i] = FormatStudent(s)
	}
	if err := writeLines(path, lines); err != nil {
		return fmt.Errorf("writing student records: %w", err)
	}
	log.Info(log.CatIO, "Wrote student records", "file", path, "count", len(students))
	return nil
}

// WriteFaculty replaces the file at path with one line per faculty member.
func WriteFaculty(path string, faculty []*domain.Faculty) error {
	lines := make([]string, len(faculty))
	for i, f := range faculty {
		lines[i] = FormatFaculty(f)
	}
	if err := writeLines(path, lines); err != nil {
		return fmt.Errorf("writing faculty records: %w", err)
	}
	log.Info(log.CatIO, "Wrote faculty records", "file", path, "count", len(faculty))
	return nil
}
