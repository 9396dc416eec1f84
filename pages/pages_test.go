package pages

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		total int
		want  []int
	}{
		{"single range", "1-5", 10, []int{0, 1, 2, 3, 4}},
		{"overlapping tokens", "1-3,2", 10, []int{0, 1, 2}},
		{"out of range dropped", "1,3,5", 3, []int{0, 2}},
		{"mixed", "2,4-6,9", 10, []int{1, 3, 4, 5, 8}},
		{"unordered input", "9,1,4", 10, []int{0, 3, 8}},
		{"whitespace", " 1 , 3 - 4 ", 10, []int{0, 2, 3}},
		{"range past end", "8-20", 10, []int{7, 8, 9}},
		{"page zero dropped", "0,1", 5, []int{0}},
		{"single page range", "3-3", 5, []int{2}},
		{"everything out of range", "50", 5, []int{}},
		{"huge range end", "1-9223372036854775807", 3, []int{0, 1, 2}},
		{"huge range start", "9223372036854775806-9223372036854775807", 3, []int{}},
		{"range below first page", "0-2", 5, []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.expr, tt.total)
			if err != nil {
				t.Fatalf("Parse(%q, %d) error: %v", tt.expr, tt.total, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q, %d) = %v, want %v", tt.expr, tt.total, got, tt.want)
			}
		})
	}
}

func TestParseEmptySelectsAll(t *testing.T) {
	for _, expr := range []string{"", "   "} {
		got, err := Parse(expr, 4)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", expr, err)
		}
		if !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
			t.Errorf("Parse(%q, 4) = %v, want [0 1 2 3]", expr, got)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"a-b",
		"abc",
		"1,,2",
		"1,",
		"5-2",
		"-3",
		"1-",
		"1-2-3",
		"2.5",
	}

	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			got, err := Parse(expr, 10)
			if err == nil {
				t.Fatalf("Parse(%q) = %v, want error", expr, got)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q) error %T is not *ParseError", expr, err)
			}
			if got != nil {
				t.Errorf("Parse(%q) returned partial result %v", expr, got)
			}
		})
	}
}

func TestParseInvariants(t *testing.T) {
	exprs := []string{"1-100", "5,5,5", "3-7,1-4,10", "2,4-6,9", "1,2,3,50-60"}
	for _, expr := range exprs {
		for _, total := range []int{0, 1, 5, 12} {
			got, err := Parse(expr, total)
			if err != nil {
				t.Fatalf("Parse(%q, %d) error: %v", expr, total, err)
			}
			for i, idx := range got {
				if idx < 0 || idx >= total {
					t.Errorf("Parse(%q, %d) index %d out of bounds", expr, total, idx)
				}
				if i > 0 && got[i-1] >= idx {
					t.Errorf("Parse(%q, %d) = %v, not strictly ascending", expr, total, got)
				}
			}
		}
	}
}

func TestAll(t *testing.T) {
	if got := All(0); got != nil {
		t.Errorf("All(0) = %v, want nil", got)
	}
	if got := All(3); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("All(3) = %v, want [0 1 2]", got)
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Token: "a-b", Reason: "not a page number"}
	want := `invalid page selection "a-b": not a page number`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
