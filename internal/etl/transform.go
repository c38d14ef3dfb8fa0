package etl

import "student-etl/internal/model"

// Transformer is the pure core of the pipeline: column mapping →
// deduplication → per-row validation → partition into accepted and
// rejected. Given the same raw batch it produces the same result; it
// never touches the source or the store.
type Transformer struct {
	columnMapping map[string]string
	validator     *Validator
}

// Options carries the immutable rule tables the transform stage needs.
// Both tables have defaults in internal/config; tests substitute their
// own.
type Options struct {
	// ColumnMapping renames source headers to canonical field names.
	// Headers without an entry pass through unchanged.
	ColumnMapping map[string]string
	// DepartmentSynonyms maps lowercased department spellings to their
	// canonical names.
	DepartmentSynonyms map[string]string
}

// NewTransformer builds the transform stage from explicit options.
func NewTransformer(opts Options) *Transformer {
	return &Transformer{
		columnMapping: opts.ColumnMapping,
		validator:     NewValidator(NewNormalizer(opts.DepartmentSynonyms)),
	}
}

// Transform processes one batch to completion. Order is preserved: both
// accepted and rejected follow the survivors' original relative order.
func (t *Transformer) Transform(batch []model.RawRow) model.TransformResult {
	result := model.TransformResult{InputRows: len(batch)}

	mapped := make([]model.RawRow, len(batch))
	for i, row := range batch {
		mapped[i] = t.mapColumns(row)
	}

	survivors, removed := Deduplicate(mapped)
	result.DuplicatesRemoved = removed

	for _, row := range survivors {
		outcome := t.validator.ValidateRow(row)
		if outcome.Valid() {
			result.Accepted = append(result.Accepted, *outcome.Student)
		} else {
			result.Rejected = append(result.Rejected, model.RejectedRow{
				Line:   outcome.Line,
				Errors: outcome.Errors,
			})
		}
	}

	return result
}

// mapColumns renames source headers to canonical field names without
// mutating the input row.
func (t *Transformer) mapColumns(row model.RawRow) model.RawRow {
	mapped := model.RawRow{Line: row.Line, Fields: make(map[string]interface{}, len(row.Fields))}
	for key, value := range row.Fields {
		if canonical, ok := t.columnMapping[key]; ok {
			key = canonical
		}
		mapped.Fields[key] = value
	}
	return mapped
}
