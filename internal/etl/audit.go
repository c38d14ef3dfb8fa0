package etl

import (
	"student-etl/internal/model"
)

// Audit computes a data-quality summary over one transform result:
// accepted records grouped by department and status, rejections grouped
// by error kind, and fill rates for the optional fields. Pure; feeds the
// run report.
func Audit(result model.TransformResult) model.AuditSummary {
	summary := model.AuditSummary{
		ByDepartment: make(map[string]int),
		ByStatus:     make(map[string]int),
		ByErrorKind:  make(map[model.ErrorKind]int),
		FieldFill:    make(map[string]model.FillStats),
	}

	for _, s := range result.Accepted {
		if s.Department != nil {
			summary.ByDepartment[*s.Department]++
		} else {
			summary.ByDepartment["(none)"]++
		}
		summary.ByStatus[s.Status]++

		recordFill(summary.FieldFill, model.FieldYearLevel, s.YearLevel != nil)
		recordFill(summary.FieldFill, model.FieldDepartment, s.Department != nil)
		recordFill(summary.FieldFill, model.FieldPhone, s.Phone != nil)
		recordFill(summary.FieldFill, model.FieldDateOfBirth, s.DateOfBirth != nil)
		recordFill(summary.FieldFill, model.FieldGPA, s.GPA != nil)
	}

	for _, r := range result.Rejected {
		for _, e := range r.Errors {
			summary.ByErrorKind[e.Kind]++
		}
	}
	if result.DuplicatesRemoved > 0 {
		summary.ByErrorKind[model.ErrDuplicateDiscarded] = result.DuplicatesRemoved
	}

	return summary
}

func recordFill(fill map[string]model.FillStats, field string, present bool) {
	stats := fill[field]
	if present {
		stats.Present++
	} else {
		stats.Missing++
	}
	fill[field] = stats
}
