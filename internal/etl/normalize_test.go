package etl

import (
	"strings"
	"testing"

	"student-etl/internal/config"
	"student-etl/internal/model"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(config.DefaultDepartmentSynonyms())
}

func TestNormalizer_Email(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name     string
		input    interface{}
		want     string
		wantKind model.ErrorKind
	}{
		{name: "Valid", input: "test@example.com", want: "test@example.com"},
		{name: "Uppercase and padding", input: "  TEST@EXAMPLE.COM  ", want: "test@example.com"},
		{name: "Missing", input: "", wantKind: model.ErrEmptyField},
		{name: "Nil cell", input: nil, wantKind: model.ErrEmptyField},
		{name: "No at sign", input: "invalid-email", wantKind: model.ErrInvalidFormat},
		{name: "No domain dot", input: "user@localhost", wantKind: model.ErrInvalidFormat},
		{name: "Embedded whitespace", input: "a b@example.com", wantKind: model.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Email(tt.input)
			if tt.wantKind != "" {
				if err == nil {
					t.Fatalf("Email(%v) = %q, want error kind %s", tt.input, got, tt.wantKind)
				}
				if err.Kind != tt.wantKind {
					t.Errorf("error kind = %s, want %s", err.Kind, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Email(%v) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Email(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizer_EmailCaseInsensitive(t *testing.T) {
	n := newTestNormalizer()

	for _, email := range []string{"Jane.Doe@University.EDU", "mixed.Case@Example.com"} {
		lower, err := n.Email(email)
		if err != nil {
			t.Fatalf("Email(%q) unexpected error: %v", email, err)
		}
		upper, err := n.Email(strings.ToUpper(email))
		if err != nil {
			t.Fatalf("Email(upper %q) unexpected error: %v", email, err)
		}
		if lower != upper {
			t.Errorf("case-sensitivity leak: %q vs %q", lower, upper)
		}
	}
}

func TestNormalizer_Name(t *testing.T) {
	n := newTestNormalizer()

	if got, err := n.Name(model.FieldFirstName, "  John  "); err != nil || got != "John" {
		t.Errorf("Name = %q, %v; want John, nil", got, err)
	}

	// Capitalization is the author's, not ours.
	if got, _ := n.Name(model.FieldFirstName, "mcLOVIN"); got != "mcLOVIN" {
		t.Errorf("Name rewrote capitalization: %q", got)
	}

	if _, err := n.Name(model.FieldLastName, "   "); err == nil || err.Kind != model.ErrEmptyField {
		t.Errorf("blank last name: got %v, want EmptyField", err)
	}
}

func TestNormalizer_YearLevel(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name     string
		input    interface{}
		want     int
		wantNil  bool
		wantKind model.ErrorKind
	}{
		{name: "Low boundary", input: 1, want: 1},
		{name: "High boundary", input: "4", want: 4},
		{name: "Float string", input: "4.0", want: 4},
		{name: "Numeric cell", input: 3, want: 3},
		{name: "Blank is unspecified", input: "", wantNil: true},
		{name: "Zero", input: 0, wantKind: model.ErrOutOfRange},
		{name: "Five", input: "5", wantKind: model.ErrOutOfRange},
		{name: "Not a number", input: "abc", wantKind: model.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.YearLevel(tt.input)
			if tt.wantKind != "" {
				if err == nil || err.Kind != tt.wantKind {
					t.Fatalf("YearLevel(%v) error = %v, want kind %s", tt.input, err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("YearLevel(%v) unexpected error: %v", tt.input, err)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("YearLevel(%v) = %d, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("YearLevel(%v) = %v, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizer_Department(t *testing.T) {
	n := newTestNormalizer()

	// All spellings collapse to the same canonical string.
	for _, spelling := range []string{"CS", "CompSci", "Computer Science", "  computer science  "} {
		got, err := n.Department(spelling)
		if err != nil {
			t.Fatalf("Department(%q) unexpected error: %v", spelling, err)
		}
		if got == nil || *got != "Computer Science" {
			t.Errorf("Department(%q) = %v, want Computer Science", spelling, got)
		}
	}

	if got, err := n.Department(""); err != nil || got != nil {
		t.Errorf("blank department: got %v, %v; want nil, nil", got, err)
	}

	if _, err := n.Department("Underwater Basket Weaving"); err == nil || err.Kind != model.ErrUnknownValue {
		t.Errorf("unknown department: got %v, want UnknownValue", err)
	}
}

func TestNormalizer_DepartmentSubstituteTable(t *testing.T) {
	n := NewNormalizer(map[string]string{"bio": "Biology"})

	if got, err := n.Department("BIO"); err != nil || got == nil || *got != "Biology" {
		t.Errorf("substitute table: got %v, %v", got, err)
	}
	if _, err := n.Department("cs"); err == nil {
		t.Error("default synonyms leaked into substitute table")
	}
}

func TestNormalizer_Status(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		input    interface{}
		want     string
		wantKind model.ErrorKind
	}{
		{input: "Active", want: "active"},
		{input: "GRADUATED", want: "graduated"},
		{input: " suspended ", want: "suspended"},
		{input: "", want: "active"}, // default
		{input: nil, want: "active"},
		{input: "enrolled", wantKind: model.ErrInvalidValue},
	}

	for _, tt := range tests {
		got, err := n.Status(tt.input)
		if tt.wantKind != "" {
			if err == nil || err.Kind != tt.wantKind {
				t.Errorf("Status(%v) error = %v, want kind %s", tt.input, err, tt.wantKind)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Status(%v) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}

func TestNormalizer_Phone(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		input    interface{}
		want     string
		wantNil  bool
		wantKind model.ErrorKind
	}{
		{input: "(555) 010-1234", want: "5550101234"},
		{input: "555.010.1234", want: "5550101234"},
		{input: "+1 555 010 1234", want: "15550101234"},
		{input: "0101234", want: "0101234"}, // 7 digits, lower bound
		{input: "", wantNil: true},
		{input: "12345", wantKind: model.ErrInvalidFormat},
		{input: "1234567890123456", wantKind: model.ErrInvalidFormat}, // 16 digits
	}

	for _, tt := range tests {
		got, err := n.Phone(tt.input)
		if tt.wantKind != "" {
			if err == nil || err.Kind != tt.wantKind {
				t.Errorf("Phone(%v) error = %v, want kind %s", tt.input, err, tt.wantKind)
			}
			continue
		}
		if err != nil {
			t.Errorf("Phone(%v) unexpected error: %v", tt.input, err)
			continue
		}
		if tt.wantNil {
			if got != nil {
				t.Errorf("Phone(%v) = %q, want nil", tt.input, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("Phone(%v) = %v, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizer_DateOfBirth(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		input    string
		want     string
		wantNil  bool
		wantKind model.ErrorKind
	}{
		{input: "2003-05-15", want: "2003-05-15"},
		{input: "08/22/2004", want: "2004-08-22"},
		{input: "05-15-2003", want: "2003-05-15"},
		{input: "11-30-2002", want: "2002-11-30"}, // month-first reading wins
		{input: "30-11-2002", want: "2002-11-30"}, // day-first fallback
		{input: "", wantNil: true},
		{input: "13/40/2020", wantKind: model.ErrInvalidFormat},
		{input: "02/30/2020", wantKind: model.ErrInvalidFormat}, // not a real date
		{input: "yesterday", wantKind: model.ErrInvalidFormat},
	}

	for _, tt := range tests {
		got, err := n.DateOfBirth(tt.input)
		if tt.wantKind != "" {
			if err == nil || err.Kind != tt.wantKind {
				t.Errorf("DateOfBirth(%q) error = %v, want kind %s", tt.input, err, tt.wantKind)
			}
			continue
		}
		if err != nil {
			t.Errorf("DateOfBirth(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if tt.wantNil {
			if got != nil {
				t.Errorf("DateOfBirth(%q) = %q, want nil", tt.input, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("DateOfBirth(%q) = %v, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizer_GPA(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		input    interface{}
		want     float64
		wantNil  bool
		wantKind model.ErrorKind
	}{
		{input: "3.85", want: 3.85},
		{input: 4.0, want: 4.0},
		{input: "0", want: 0.0},
		{input: "3.14159", want: 3.14}, // rounded to 2 decimals
		{input: "", wantNil: true},
		{input: "##", wantNil: true}, // sheet overflow marker
		{input: "4.5", wantKind: model.ErrOutOfRange},
		{input: "-1", wantKind: model.ErrOutOfRange},
		{input: "abc", wantKind: model.ErrInvalidFormat},
	}

	for _, tt := range tests {
		got, err := n.GPA(tt.input)
		if tt.wantKind != "" {
			if err == nil || err.Kind != tt.wantKind {
				t.Errorf("GPA(%v) error = %v, want kind %s", tt.input, err, tt.wantKind)
			}
			continue
		}
		if err != nil {
			t.Errorf("GPA(%v) unexpected error: %v", tt.input, err)
			continue
		}
		if tt.wantNil {
			if got != nil {
				t.Errorf("GPA(%v) = %v, want nil", tt.input, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("GPA(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
