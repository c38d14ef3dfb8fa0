package etl

import "student-etl/internal/model"

// Deduplicate collapses a batch to at most one row per identity key,
// keeping the last row in original order ("latest edit wins"). Rows
// without an identity key pass through untouched. Survivors keep their
// original relative order. Runs before validation, so a later valid row
// can override an earlier invalid one and vice versa.
func Deduplicate(batch []model.RawRow) (survivors []model.RawRow, removed int) {
	lastIndex := make(map[string]int, len(batch))
	for i, row := range batch {
		if key, ok := IdentityKey(row); ok {
			lastIndex[key] = i
		}
	}

	survivors = make([]model.RawRow, 0, len(batch))
	for i, row := range batch {
		if key, ok := IdentityKey(row); ok && lastIndex[key] != i {
			removed++
			continue
		}
		survivors = append(survivors, row)
	}
	return survivors, removed
}
