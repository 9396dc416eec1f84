package pages

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseError reports a malformed token in a page selection.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid page selection %q: %s", e.Token, e.Reason)
}

// All returns every zero-based index of a document with total pages.
func All(total int) []int {
	if total <= 0 {
		return nil
	}
	indices := make([]int, total)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// Parse resolves a selection expression against a document with total
// pages. An empty expression selects all pages.
func Parse(expr string, total int) ([]int, error) {
	if strings.TrimSpace(expr) == "" {
		return All(total), nil
	}

	selected := make(map[int]struct{})
	for _, raw := range strings.Split(expr, ",") {
		token := strings.TrimSpace(raw)
		start, end, err := parseToken(token)
		if err != nil {
			return nil, err
		}
		for n := max(start, 1); n <= min(end, total); n++ {
			selected[n-1] = struct{}{}
		}
	}

	indices := make([]int, 0, len(selected))
	for i := range selected {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices, nil
}

// parseToken parses "n" or "a-b" into an inclusive 1-based range.
func parseToken(token string) (start, end int, err error) {
	if token == "" {
		return 0, 0, &ParseError{Token: token, Reason: "empty token"}
	}

	lo, hi, isRange := strings.Cut(token, "-")
	if !isRange {
		n, err := parseNumber(token, token)
		return n, n, err
	}

	if start, err = parseNumber(token, lo); err != nil {
		return 0, 0, err
	}
	if end, err = parseNumber(token, hi); err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, &ParseError{Token: token, Reason: "range end precedes start"}
	}
	return start, end, nil
}

func parseNumber(token, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ParseError{Token: token, Reason: "not a page number"}
	}
	return n, nil
}
