package etl

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"student-etl/internal/model"
	"student-etl/pkg/utils"
)

var (
	emailPattern    = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// dobLayouts is the ordered list of accepted date formats. The first
// layout that parses to a real calendar date wins, so month-first
// readings take precedence over day-first ones.
var dobLayouts = []string{
	"2006-01-02", // ISO
	"01/02/2006", // US
	"01-02-2006",
	"02/01/2006",
	"02-01-2006",
}

// Normalizer converts raw cell values into canonical field values. The
// lookup tables are injected and never mutated, so tests can substitute
// alternate tables and instances are safe to share.
type Normalizer struct {
	departments map[string]string
	statuses    map[string]bool
}

// NewNormalizer builds a normalizer around a department synonym table.
// Keys must be lowercase; values are the canonical department names.
func NewNormalizer(departments map[string]string) *Normalizer {
	statuses := map[string]bool{
		model.StatusActive:    true,
		model.StatusInactive:  true,
		model.StatusGraduated: true,
		model.StatusSuspended: true,
	}
	return &Normalizer{departments: departments, statuses: statuses}
}

func fieldErr(field string, kind model.ErrorKind, value, msg string) *model.FieldError {
	return &model.FieldError{Field: field, Kind: kind, Value: value, Message: msg}
}

// Email trims and lowercases, requiring a local@domain.tld shape.
func (n *Normalizer) Email(raw interface{}) (string, *model.FieldError) {
	s := strings.ToLower(utils.CellString(raw))
	if s == "" {
		return "", fieldErr(model.FieldEmail, model.ErrEmptyField, s, "email is required")
	}
	if !emailPattern.MatchString(s) {
		return "", fieldErr(model.FieldEmail, model.ErrInvalidFormat, s,
			fmt.Sprintf("invalid email format: %q", s))
	}
	return s, nil
}

// Name trims without touching the author's capitalization. The field
// argument distinguishes first_name from last_name in errors.
func (n *Normalizer) Name(field string, raw interface{}) (string, *model.FieldError) {
	s := utils.CellString(raw)
	if s == "" {
		return "", fieldErr(field, model.ErrEmptyField, s,
			fmt.Sprintf("%s is required", strings.ReplaceAll(field, "_", " ")))
	}
	return s, nil
}

// YearLevel parses numeric or numeric-string input into [1,4]. Blank
// input passes through as nil; only out-of-range or non-numeric values
// are rejected.
func (n *Normalizer) YearLevel(raw interface{}) (*int, *model.FieldError) {
	s := utils.CellString(raw)
	if s == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fieldErr(model.FieldYearLevel, model.ErrInvalidFormat, s,
			fmt.Sprintf("invalid year level: %q (not a number)", s))
	}

	year := int(f)
	if year < 1 || year > 4 {
		return nil, fieldErr(model.FieldYearLevel, model.ErrOutOfRange, s,
			fmt.Sprintf("invalid year level: %d (must be 1-4)", year))
	}
	return &year, nil
}

// Department maps free-text input through the synonym table. Blank input
// is not an error; department is optional at intake.
func (n *Normalizer) Department(raw interface{}) (*string, *model.FieldError) {
	s := utils.CellString(raw)
	if s == "" {
		return nil, nil
	}

	if canonical, ok := n.departments[strings.ToLower(s)]; ok {
		return &canonical, nil
	}
	return nil, fieldErr(model.FieldDepartment, model.ErrUnknownValue, s,
		fmt.Sprintf("unknown department: %q", s))
}

// Status lowercases and defaults to active when blank.
func (n *Normalizer) Status(raw interface{}) (string, *model.FieldError) {
	s := strings.ToLower(utils.CellString(raw))
	if s == "" {
		return model.StatusActive, nil
	}
	if !n.statuses[s] {
		return "", fieldErr(model.FieldStatus, model.ErrInvalidValue, s,
			fmt.Sprintf("invalid status: %q (must be one of active, inactive, graduated, suspended)", s))
	}
	return s, nil
}

// Phone strips everything but digits and accepts 7-15 of them, a loose
// international-capable range. Blank input yields nil.
func (n *Normalizer) Phone(raw interface{}) (*string, *model.FieldError) {
	s := utils.CellString(raw)
	if s == "" {
		return nil, nil
	}

	digits := nonDigitPattern.ReplaceAllString(s, "")
	if len(digits) < 7 || len(digits) > 15 {
		return nil, fieldErr(model.FieldPhone, model.ErrInvalidFormat, s,
			fmt.Sprintf("invalid phone number: %q (expected 7-15 digits, got %d)", s, len(digits)))
	}
	return &digits, nil
}

// DateOfBirth tries each accepted layout in order and standardizes the
// first real calendar date to ISO yyyy-mm-dd. Blank input yields nil.
func (n *Normalizer) DateOfBirth(raw interface{}) (*string, *model.FieldError) {
	s := utils.CellString(raw)
	if s == "" {
		return nil, nil
	}

	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			iso := t.Format("2006-01-02")
			return &iso, nil
		}
	}
	return nil, fieldErr(model.FieldDateOfBirth, model.ErrInvalidFormat, s,
		fmt.Sprintf("unable to parse date of birth: %q", s))
}

// GPA parses a float in [0.0,4.0], rounded to two decimals. Blank input
// and the sheet's "##" overflow marker yield nil.
func (n *Normalizer) GPA(raw interface{}) (*float64, *model.FieldError) {
	s := utils.CellString(raw)
	if s == "" || s == "##" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fieldErr(model.FieldGPA, model.ErrInvalidFormat, s,
			fmt.Sprintf("invalid GPA: %q (not a number)", s))
	}
	if f < 0.0 || f > 4.0 {
		return nil, fieldErr(model.FieldGPA, model.ErrOutOfRange, s,
			fmt.Sprintf("invalid GPA: %v (must be 0.0-4.0)", f))
	}

	rounded := math.Round(f*100) / 100
	return &rounded, nil
}

// IdentityKey derives the dedupe identity for a raw row: the
// lowercase-trimmed email when present, else the declared student
// identifier. Rows with neither have no identity and are never
// deduplicated against each other.
func IdentityKey(row model.RawRow) (string, bool) {
	if email := strings.ToLower(utils.CellString(row.Fields[model.FieldEmail])); email != "" {
		return "email:" + email, true
	}
	if id := utils.CellString(row.Fields[model.FieldStudentID]); id != "" {
		return "id:" + id, true
	}
	return "", false
}
