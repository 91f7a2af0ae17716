package records

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the records whose display text contains query, compared
// case-insensitively. It never modifies or aliases its input. An empty or
// blank query returns every record.
func Filter[T any](records []T, query string, text func(T) []string) []T {
	q := strings.TrimSpace(query)
	if q == "" || text == nil {
		out := make([]T, len(records))
		copy(out, records)
		return out
	}

	folder := cases.Fold()
	needle := folder.String(q)

	out := make([]T, 0, len(records))
	for _, r := range records {
		for _, s := range text(r) {
			if strings.Contains(folder.String(s), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Matches reports whether any of texts contains query case-insensitively
func Matches(query string, texts ...string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	folder := cases.Fold()
	needle := folder.String(q)
	for _, s := range texts {
		if strings.Contains(folder.String(s), needle) {
			return true
		}
	}
	return false
}
