package model

// RawRow is a schema-agnostic row exactly as extracted from the source.
// Keys are canonical field names after column mapping; values are the
// untyped scalars the extractor produced. Line points back at the source
// row for error reporting and is never persisted.
type RawRow struct {
	Line   int                    `json:"line"`
	Fields map[string]interface{} `json:"fields"`
}

// Canonical field names used as RawRow keys and column-mapping targets.
const (
	FieldStudentID   = "student_id"
	FieldEmail       = "email"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldYearLevel   = "year_level"
	FieldDepartment  = "department"
	FieldStatus      = "status"
	FieldPhone       = "phone"
	FieldDateOfBirth = "date_of_birth"
	FieldGPA         = "gpa"
)

// Enrollment statuses accepted by the status normalizer.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusGraduated = "graduated"
	StatusSuspended = "suspended"
)

// NormalizedStudent is the canonical output of a successful transform,
// ready for idempotent upsert keyed by email.
type NormalizedStudent struct {
	StudentID   string   `json:"student_id,omitempty"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	YearLevel   *int     `json:"year_level,omitempty"`
	Department  *string  `json:"department,omitempty"`
	Status      string   `json:"status"`
	Phone       *string  `json:"phone,omitempty"`
	DateOfBirth *string  `json:"date_of_birth,omitempty"` // ISO 8601 (yyyy-mm-dd)
	GPA         *float64 `json:"gpa,omitempty"`

	// SourceLine references the RawRow this record came from.
	// Diagnostics only; never used for identity or persistence.
	SourceLine int `json:"-"`
}
