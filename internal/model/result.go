package model

// ValidationOutcome is the result of validating one raw row. A row is
// valid iff every field check passed; partial validity does not exist.
type ValidationOutcome struct {
	Line    int
	Student *NormalizedStudent // set when the row is valid
	Errors  []FieldError       // non-empty when the row is invalid
}

// Valid reports whether the row passed every check.
func (o ValidationOutcome) Valid() bool {
	return len(o.Errors) == 0
}

// RejectedRow pairs a source row reference with the full list of problems
// found in it, ordered the way the validator ran.
type RejectedRow struct {
	Line   int          `json:"line"`
	Errors []FieldError `json:"errors"`
}

// Messages flattens the errors into human-readable strings for the
// row-status feedback surface.
func (r RejectedRow) Messages() []string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return msgs
}

// TransformResult is the orchestrator's output: two disjoint,
// order-preserving sequences plus dedupe counters. Constructed fresh per
// run and never mutated after return.
type TransformResult struct {
	Accepted          []NormalizedStudent `json:"accepted"`
	Rejected          []RejectedRow       `json:"rejected"`
	InputRows         int                 `json:"input_rows"`
	DuplicatesRemoved int                 `json:"duplicates_removed"`
}
