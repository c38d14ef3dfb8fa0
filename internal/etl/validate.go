package etl

import (
	"student-etl/internal/model"
	"student-etl/pkg/utils"
)

// Validator applies every field normalizer to one raw row and aggregates
// the outcomes. It never short-circuits: all problems in a row are
// reported together so a human fixes the row once.
type Validator struct {
	normalizer *Normalizer
}

// NewValidator wires a validator around a field normalizer.
func NewValidator(n *Normalizer) *Validator {
	return &Validator{normalizer: n}
}

// ValidateRow produces either a fully assembled NormalizedStudent or the
// ordered list of everything wrong with the row. Required fields are
// email, first_name and last_name; a failing optional field also
// invalidates the row rather than degrading to null.
func (v *Validator) ValidateRow(row model.RawRow) model.ValidationOutcome {
	outcome := model.ValidationOutcome{Line: row.Line}
	student := model.NormalizedStudent{SourceLine: row.Line}

	collect := func(err *model.FieldError) {
		if err != nil {
			outcome.Errors = append(outcome.Errors, *err)
		}
	}

	var err *model.FieldError

	student.Email, err = v.normalizer.Email(row.Fields[model.FieldEmail])
	collect(err)

	student.FirstName, err = v.normalizer.Name(model.FieldFirstName, row.Fields[model.FieldFirstName])
	collect(err)

	student.LastName, err = v.normalizer.Name(model.FieldLastName, row.Fields[model.FieldLastName])
	collect(err)

	student.YearLevel, err = v.normalizer.YearLevel(row.Fields[model.FieldYearLevel])
	collect(err)

	student.Department, err = v.normalizer.Department(row.Fields[model.FieldDepartment])
	collect(err)

	student.Status, err = v.normalizer.Status(row.Fields[model.FieldStatus])
	collect(err)

	student.Phone, err = v.normalizer.Phone(row.Fields[model.FieldPhone])
	collect(err)

	student.DateOfBirth, err = v.normalizer.DateOfBirth(row.Fields[model.FieldDateOfBirth])
	collect(err)

	student.GPA, err = v.normalizer.GPA(row.Fields[model.FieldGPA])
	collect(err)

	if len(outcome.Errors) > 0 {
		return outcome
	}

	student.StudentID = utils.CellString(row.Fields[model.FieldStudentID])
	outcome.Student = &student
	return outcome
}
