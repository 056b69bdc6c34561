package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// queryAll runs query and scans every row with scan.
func queryAll[M any](ctx context.Context, q querier, query string, scan func(*sql.Rows) (*M, error), args ...any) ([]*M, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*M
	for rows.Next() {
		m, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type courseRepository struct{ q querier }

func (r courseRepository) Insert(ctx context.Context, m *CourseModel) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO courses (name, section, title, credits, instructor_id, enrollment_cap, meeting_days, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Section, m.Title, m.Credits, m.InstructorID, m.EnrollmentCap, m.MeetingDays, m.StartTime, m.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert course %s-%s: %w", m.Name, m.Section, err)
	}
	return nil
}

func (r courseRepository) All(ctx context.Context) ([]*CourseModel, error) {
	models, err := queryAll(ctx, r.q,
		`SELECT name, section, title, credits, instructor_id, enrollment_cap, meeting_days, start_time, end_time
		FROM courses ORDER BY name, section`,
		func(rows *sql.Rows) (*CourseModel, error) {
			var m CourseModel
			err := rows.Scan(&m.Name, &m.Section, &m.Title, &m.Credits, &m.InstructorID,
				&m.EnrollmentCap, &m.MeetingDays, &m.StartTime, &m.EndTime)
			return &m, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return models, nil
}

// userRepository serves both the students and faculty tables.
type userRepository struct {
	q       querier
	table   string
	limit   string
	orderBy string
}

func studentRepository(q querier) userRepository {
	return userRepository{q: q, table: "students", limit: "max_credits", orderBy: "last_name, first_name, id"}
}

func facultyRepository(q querier) userRepository {
	return userRepository{q: q, table: "faculty", limit: "max_courses", orderBy: "position"}
}

func (r userRepository) Insert(ctx context.Context, m *UserModel) error {
	query := `INSERT INTO ` + r.table + ` (id, first_name, last_name, email, password_hash, ` + r.limit + `) VALUES (?, ?, ?, ?, ?, ?)`
	args := []any{m.ID, m.FirstName, m.LastName, m.Email, m.PasswordHash, m.Limit}
	if r.table == "faculty" {
		query = `INSERT INTO faculty (id, first_name, last_name, email, password_hash, max_courses, position) VALUES (?, ?, ?, ?, ?, ?, ?)`
		args = append(args, m.Position)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert %s %s: %w", r.table, m.ID, err)
	}
	return nil
}

func (r userRepository) All(ctx context.Context) ([]*UserModel, error) {
	models, err := queryAll(ctx, r.q,
		`SELECT id, first_name, last_name, email, password_hash, `+r.limit+` FROM `+r.table+` ORDER BY `+r.orderBy,
		func(rows *sql.Rows) (*UserModel, error) {
			var m UserModel
			err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PasswordHash, &m.Limit)
			return &m, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table, err)
	}
	return models, nil
}

type enrollmentRepository struct{ q querier }

func (r enrollmentRepository) Insert(ctx context.Context, m *EnrollmentModel) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO enrollments (course_name, course_section, student_id, status, position) VALUES (?, ?, ?, ?, ?)`,
		m.CourseName, m.CourseSection, m.StudentID, m.Status, m.Position,
	)
	if err != nil {
		return fmt.Errorf("failed to insert enrollment %s in %s-%s: %w", m.StudentID, m.CourseName, m.CourseSection, err)
	}
	return nil
}

// All returns enrollments grouped by course with the roster ahead of the
// waitlist, each in position order.
func (r enrollmentRepository) All(ctx context.Context) ([]*EnrollmentModel, error) {
	models, err := queryAll(ctx, r.q,
		`SELECT course_name, course_section, student_id, status, position FROM enrollments
		ORDER BY course_name, course_section, CASE status WHEN 'roster' THEN 0 ELSE 1 END, position`,
		func(rows *sql.Rows) (*EnrollmentModel, error) {
			var m EnrollmentModel
			err := rows.Scan(&m.CourseName, &m.CourseSection, &m.StudentID, &m.Status, &m.Position)
			return &m, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return models, nil
}

type snapshotRepository struct{ q querier }

func (r snapshotRepository) Insert(ctx context.Context, m *SnapshotModel) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO snapshots (id, saved_at, courses, students, faculty, enrollments) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.SavedAt, m.Courses, m.Students, m.Faculty, m.Enrollments,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

func (r snapshotRepository) All(ctx context.Context) ([]*SnapshotModel, error) {
	models, err := queryAll(ctx, r.q,
		`SELECT id, saved_at, courses, students, faculty, enrollments FROM snapshots ORDER BY saved_at DESC, rowid DESC`,
		func(rows *sql.Rows) (*SnapshotModel, error) {
			var m SnapshotModel
			err := rows.Scan(&m.ID, &m.SavedAt, &m.Courses, &m.Students, &m.Faculty, &m.Enrollments)
			return &m, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return models, nil
}

// clearTerm deletes the current term, children first.
func clearTerm(ctx context.Context, q querier) error {
	for _, table := range []string{"enrollments", "courses", "students", "faculty"} {
		if _, err := q.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
