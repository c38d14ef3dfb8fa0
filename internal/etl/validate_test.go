package etl

import (
	"testing"

	"student-etl/internal/config"
	"student-etl/internal/model"
)

func newTestValidator() *Validator {
	return NewValidator(newTestNormalizer())
}

func row(line int, fields map[string]interface{}) model.RawRow {
	return model.RawRow{Line: line, Fields: fields}
}

func errorKinds(errs []model.FieldError) map[string]model.ErrorKind {
	kinds := make(map[string]model.ErrorKind, len(errs))
	for _, e := range errs {
		kinds[e.Field] = e.Kind
	}
	return kinds
}

func TestValidateRow_FullyValid(t *testing.T) {
	v := newTestValidator()

	outcome := v.ValidateRow(row(2, map[string]interface{}{
		model.FieldStudentID:   "S001",
		model.FieldEmail:       " Jane.Doe@University.EDU ",
		model.FieldFirstName:   " Jane ",
		model.FieldLastName:    "Doe",
		model.FieldYearLevel:   "2",
		model.FieldDepartment:  "CompSci",
		model.FieldStatus:      "ACTIVE",
		model.FieldPhone:       "(555) 010-1234",
		model.FieldDateOfBirth: "08/22/2004",
		model.FieldGPA:         "3.852",
	}))

	if !outcome.Valid() {
		t.Fatalf("expected valid outcome, got errors: %v", outcome.Errors)
	}

	s := outcome.Student
	if s.StudentID != "S001" {
		t.Errorf("StudentID = %q", s.StudentID)
	}
	if s.Email != "jane.doe@university.edu" {
		t.Errorf("Email = %q", s.Email)
	}
	if s.FirstName != "Jane" || s.LastName != "Doe" {
		t.Errorf("Name = %q %q", s.FirstName, s.LastName)
	}
	if s.YearLevel == nil || *s.YearLevel != 2 {
		t.Errorf("YearLevel = %v", s.YearLevel)
	}
	if s.Department == nil || *s.Department != "Computer Science" {
		t.Errorf("Department = %v", s.Department)
	}
	if s.Status != model.StatusActive {
		t.Errorf("Status = %q", s.Status)
	}
	if s.Phone == nil || *s.Phone != "5550101234" {
		t.Errorf("Phone = %v", s.Phone)
	}
	if s.DateOfBirth == nil || *s.DateOfBirth != "2004-08-22" {
		t.Errorf("DateOfBirth = %v", s.DateOfBirth)
	}
	if s.GPA == nil || *s.GPA != 3.85 {
		t.Errorf("GPA = %v", s.GPA)
	}
	if s.SourceLine != 2 {
		t.Errorf("SourceLine = %d", s.SourceLine)
	}
}

func TestValidateRow_BlankRequiredFields(t *testing.T) {
	v := newTestValidator()

	outcome := v.ValidateRow(row(3, map[string]interface{}{
		model.FieldEmail:     "   ",
		model.FieldFirstName: "",
		model.FieldLastName:  "Doe",
	}))

	if outcome.Valid() {
		t.Fatal("expected invalid outcome")
	}
	kinds := errorKinds(outcome.Errors)
	if kinds[model.FieldEmail] != model.ErrEmptyField {
		t.Errorf("email error = %v, want empty_field", kinds[model.FieldEmail])
	}
	if kinds[model.FieldFirstName] != model.ErrEmptyField {
		t.Errorf("first_name error = %v, want empty_field", kinds[model.FieldFirstName])
	}
	if _, ok := kinds[model.FieldLastName]; ok {
		t.Error("last_name should not carry an error")
	}
}

func TestValidateRow_CollectsAllErrors(t *testing.T) {
	v := newTestValidator()

	outcome := v.ValidateRow(row(4, map[string]interface{}{
		model.FieldEmail:      "not-an-email",
		model.FieldFirstName:  "A",
		model.FieldLastName:   "B",
		model.FieldYearLevel:  "7",
		model.FieldDepartment: "Alchemy",
		model.FieldStatus:     "paused",
		model.FieldGPA:        "9.9",
	}))

	if outcome.Valid() {
		t.Fatal("expected invalid outcome")
	}
	if len(outcome.Errors) != 5 {
		t.Fatalf("expected 5 collected errors, got %d: %v", len(outcome.Errors), outcome.Errors)
	}

	kinds := errorKinds(outcome.Errors)
	want := map[string]model.ErrorKind{
		model.FieldEmail:      model.ErrInvalidFormat,
		model.FieldYearLevel:  model.ErrOutOfRange,
		model.FieldDepartment: model.ErrUnknownValue,
		model.FieldStatus:     model.ErrInvalidValue,
		model.FieldGPA:        model.ErrOutOfRange,
	}
	for field, kind := range want {
		if kinds[field] != kind {
			t.Errorf("%s error = %v, want %v", field, kinds[field], kind)
		}
	}
}

// A broken optional field rejects the whole row instead of silently
// degrading it to null.
func TestValidateRow_OptionalFailureInvalidatesRow(t *testing.T) {
	v := newTestValidator()

	outcome := v.ValidateRow(row(5, map[string]interface{}{
		model.FieldEmail:       "ok@example.com",
		model.FieldFirstName:   "Ok",
		model.FieldLastName:    "Row",
		model.FieldDateOfBirth: "13/40/2020",
	}))

	if outcome.Valid() {
		t.Fatal("malformed optional field should invalidate the row")
	}
	if outcome.Student != nil {
		t.Error("invalid outcome must not carry a student")
	}
	kinds := errorKinds(outcome.Errors)
	if kinds[model.FieldDateOfBirth] != model.ErrInvalidFormat {
		t.Errorf("date_of_birth error = %v, want invalid_format", kinds[model.FieldDateOfBirth])
	}
}

func TestValidateRow_OptionalBlanksStayNil(t *testing.T) {
	v := NewValidator(NewNormalizer(config.DefaultDepartmentSynonyms()))

	outcome := v.ValidateRow(row(6, map[string]interface{}{
		model.FieldEmail:     "min@example.com",
		model.FieldFirstName: "Min",
		model.FieldLastName:  "Imal",
	}))

	if !outcome.Valid() {
		t.Fatalf("minimal row should be valid, got: %v", outcome.Errors)
	}
	s := outcome.Student
	if s.YearLevel != nil || s.Department != nil || s.Phone != nil || s.DateOfBirth != nil || s.GPA != nil {
		t.Errorf("optional blanks should stay nil: %+v", s)
	}
	if s.Status != model.StatusActive {
		t.Errorf("Status = %q, want default active", s.Status)
	}
}
