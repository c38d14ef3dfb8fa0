package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"student-etl/internal/etl"
	"student-etl/internal/model"
)

// Students persists normalized student records into Postgres. Upserts are
// keyed by email, so reloading the same batch is idempotent.
type Students struct {
	db   *sql.DB
	psql sq.StatementBuilderType
}

var _ etl.StudentLoader = (*Students)(nil)

// StudentRecord is one persisted row joined with its department name.
type StudentRecord struct {
	ID          int64    `json:"student_id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	YearLevel   *int     `json:"year_level,omitempty"`
	Department  *string  `json:"department,omitempty"`
	Status      string   `json:"status"`
	Phone       *string  `json:"phone,omitempty"`
	DateOfBirth *string  `json:"dob,omitempty"`
	GPA         *float64 `json:"gpa,omitempty"`
}

// OpenStudents connects to the student database.
func OpenStudents(dsn string) (*Students, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open students db: %w", err)
	}
	return NewStudents(db), nil
}

// NewStudents wires an existing sql.DB connection.
func NewStudents(db *sql.DB) *Students {
	return &Students{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Close releases the underlying database handle.
func (s *Students) Close() error {
	return s.db.Close()
}

// Load upserts the accepted record set inside one transaction:
// departments first, then students keyed by email. Each student runs
// under its own savepoint, so a failing row is rolled back, recorded in
// the stats, and does not block the rest of the batch. Transient
// connection failures retry the whole batch; the upsert is idempotent so
// a replay is safe.
func (s *Students) Load(ctx context.Context, students []model.NormalizedStudent) (model.LoadStats, error) {
	var stats model.LoadStats

	err := withRetry(ctx, func() error {
		stats = model.LoadStats{}
		return s.loadOnce(ctx, students, &stats)
	})
	return stats, err
}

func (s *Students) loadOnce(ctx context.Context, students []model.NormalizedStudent, stats *model.LoadStats) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	defer tx.Rollback()

	if err := s.ensureDepartments(ctx, tx, students, stats); err != nil {
		return err
	}

	for _, student := range students {
		// A failed statement aborts the enclosing transaction, so each
		// row gets its own savepoint to roll back to.
		if _, err := tx.ExecContext(ctx, `SAVEPOINT student_row`); err != nil {
			return fmt.Errorf("savepoint: %w", err)
		}

		created, err := s.upsertTx(ctx, tx, student)
		if err != nil {
			if _, rbErr := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT student_row`); rbErr != nil {
				return fmt.Errorf("rollback row savepoint: %w", rbErr)
			}
			stats.Errors = append(stats.Errors,
				fmt.Sprintf("student %s: %v", student.Email, err))
		} else if created {
			stats.StudentsInserted++
		} else {
			stats.StudentsUpdated++
		}

		if _, err := tx.ExecContext(ctx, `RELEASE SAVEPOINT student_row`); err != nil {
			return fmt.Errorf("release row savepoint: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit load: %w", err)
	}
	return nil
}

// ensureDepartments inserts any department names the batch references.
func (s *Students) ensureDepartments(ctx context.Context, tx *sql.Tx, students []model.NormalizedStudent, stats *model.LoadStats) error {
	seen := make(map[string]bool)
	for _, student := range students {
		if student.Department == nil || seen[*student.Department] {
			continue
		}
		seen[*student.Department] = true

		res, err := tx.ExecContext(ctx,
			`INSERT INTO departments (department_name) VALUES ($1)
			 ON CONFLICT (department_name) DO NOTHING`,
			*student.Department)
		if err != nil {
			return fmt.Errorf("insert department %q: %w", *student.Department, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			stats.DepartmentsInserted++
		}
	}
	return nil
}

func (s *Students) upsertTx(ctx context.Context, tx *sql.Tx, student model.NormalizedStudent) (created bool, err error) {
	var deptID *int64
	if student.Department != nil {
		var id int64
		err := tx.QueryRowContext(ctx,
			`SELECT department_id FROM departments WHERE department_name = $1`,
			*student.Department).Scan(&id)
		if err != nil {
			return false, fmt.Errorf("resolve department %q: %w", *student.Department, err)
		}
		deptID = &id
	}

	var existingID int64
	err = tx.QueryRowContext(ctx,
		`SELECT student_id FROM students WHERE student_email = $1`,
		student.Email).Scan(&existingID)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO students (
				student_email, first_name, last_name, year_level,
				department_id, enrollment_status, phone_number, date_of_birth, gpa
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			student.Email, student.FirstName, student.LastName, student.YearLevel,
			deptID, student.Status, student.Phone, student.DateOfBirth, student.GPA)
		if err != nil {
			return false, fmt.Errorf("insert: %w", err)
		}
		return true, nil

	case err != nil:
		return false, fmt.Errorf("lookup: %w", err)

	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE students SET
				first_name = $1,
				last_name = $2,
				year_level = $3,
				department_id = $4,
				enrollment_status = $5,
				phone_number = $6,
				date_of_birth = $7,
				gpa = $8,
				updated_at = CURRENT_TIMESTAMP
			WHERE student_email = $9`,
			student.FirstName, student.LastName, student.YearLevel, deptID,
			student.Status, student.Phone, student.DateOfBirth, student.GPA,
			student.Email)
		if err != nil {
			return false, fmt.Errorf("update: %w", err)
		}
		return false, nil
	}
}

// Upsert applies one record outside a batch (the registration endpoint)
// and returns the assigned identifier.
func (s *Students) Upsert(ctx context.Context, student model.NormalizedStudent) (id int64, created bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	if student.Department != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO departments (department_name) VALUES ($1)
			 ON CONFLICT (department_name) DO NOTHING`,
			*student.Department)
		if err != nil {
			return 0, false, fmt.Errorf("insert department: %w", err)
		}
	}

	created, err = s.upsertTx(ctx, tx, student)
	if err != nil {
		return 0, false, err
	}

	err = tx.QueryRowContext(ctx,
		`SELECT student_id FROM students WHERE student_email = $1`,
		student.Email).Scan(&id)
	if err != nil {
		return 0, false, fmt.Errorf("resolve student id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("commit upsert: %w", err)
	}
	return id, created, nil
}

// List returns all students joined with department names.
func (s *Students) List(ctx context.Context) ([]StudentRecord, error) {
	query, args, err := s.psql.
		Select("s.student_id", "s.student_email", "s.first_name", "s.last_name",
			"s.year_level", "d.department_name", "s.enrollment_status",
			"s.phone_number", "s.date_of_birth", "s.gpa").
		From("students s").
		LeftJoin("departments d ON s.department_id = d.department_id").
		OrderBy("s.student_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []StudentRecord
	for rows.Next() {
		rec, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, rec)
	}
	return students, rows.Err()
}

// Get fetches one student by assigned identifier.
func (s *Students) Get(ctx context.Context, id int64) (StudentRecord, error) {
	query, args, err := s.psql.
		Select("s.student_id", "s.student_email", "s.first_name", "s.last_name",
			"s.year_level", "d.department_name", "s.enrollment_status",
			"s.phone_number", "s.date_of_birth", "s.gpa").
		From("students s").
		LeftJoin("departments d ON s.department_id = d.department_id").
		Where(sq.Eq{"s.student_id": id}).
		ToSql()
	if err != nil {
		return StudentRecord{}, fmt.Errorf("build get query: %w", err)
	}

	row := s.db.QueryRowContext(ctx, query, args...)
	rec, err := scanStudent(row)
	if err != nil {
		return StudentRecord{}, fmt.Errorf("student %d: %w", id, err)
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStudent(row rowScanner) (StudentRecord, error) {
	var rec StudentRecord
	var dob sql.NullTime
	err := row.Scan(&rec.ID, &rec.Email, &rec.FirstName, &rec.LastName,
		&rec.YearLevel, &rec.Department, &rec.Status, &rec.Phone, &dob, &rec.GPA)
	if err != nil {
		return StudentRecord{}, err
	}
	if dob.Valid {
		iso := dob.Time.Format("2006-01-02")
		rec.DateOfBirth = &iso
	}
	return rec, nil
}

// --- retry ---

const (
	retryAttempts     = 3
	retryInitialDelay = 1 * time.Second
)

// withRetry replays transient connection failures with doubling delay.
// Constraint or data errors surface immediately.
func withRetry(ctx context.Context, op func() error) error {
	delay := retryInitialDelay

	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if !retryable(err) || attempt == retryAttempts {
			return err
		}

		fmt.Printf("🔁 Load attempt %d failed (%v), retrying in %v\n", attempt, err, delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

// retryable reports whether the error looks like a transient connection
// problem rather than a data or constraint error.
func retryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08 = connection exceptions, 57P01 = admin shutdown.
		return pqErr.Code.Class() == "08" || pqErr.Code == "57P01"
	}
	return false
}
