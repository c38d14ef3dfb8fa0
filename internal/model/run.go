package model

import "time"

// Run statuses stored in the runs table.
const (
	RunPending   = "pending"
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Run is one ETL invocation tracked in the run store.
type Run struct {
	ID                string    `json:"id"`
	Source            string    `json:"source"`
	Status            string    `json:"status"`
	InputRows         int       `json:"input_rows"`
	Accepted          int       `json:"accepted"`
	Rejected          int       `json:"rejected"`
	DuplicatesRemoved int       `json:"duplicates_removed"`
	Inserted          int       `json:"inserted"`
	Updated           int       `json:"updated"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// LoadStats summarizes what the load adapter did with the accepted set.
type LoadStats struct {
	DepartmentsInserted int      `json:"departments_inserted"`
	StudentsInserted    int      `json:"students_inserted"`
	StudentsUpdated     int      `json:"students_updated"`
	Errors              []string `json:"errors,omitempty"`
}

// AuditSummary is a pure summary over one TransformResult, computed for
// the run report.
type AuditSummary struct {
	ByDepartment map[string]int       `json:"by_department"`
	ByStatus     map[string]int       `json:"by_status"`
	ByErrorKind  map[ErrorKind]int    `json:"by_error_kind"`
	FieldFill    map[string]FillStats `json:"field_fill"`
}

// FillStats reports how often an optional field carried a value.
type FillStats struct {
	Present int `json:"present"`
	Missing int `json:"missing"`
}

// RunReport is the JSON artifact written per run.
type RunReport struct {
	RunID             string       `json:"run_id"`
	Source            string       `json:"source"`
	StartedAt         time.Time    `json:"started_at"`
	FinishedAt        time.Time    `json:"finished_at"`
	InputRows         int          `json:"input_rows"`
	Accepted          int          `json:"accepted"`
	Rejected          int          `json:"rejected"`
	DuplicatesRemoved int          `json:"duplicates_removed"`
	Load              *LoadStats   `json:"load,omitempty"`
	Audit             AuditSummary `json:"audit"`
}
