// internal/catalog/filter.go
package catalog

import "strings"

// NormalizeTerm trims and lowercases a search term.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Matches reports whether the project's description or its space-joined
// titles contain the normalized term.
func Matches(p Project, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(p.Titles, " ")), term)
}

// FilterProjects returns the projects matching term, in their original
// order. The result never aliases all.
func FilterProjects(all []Project, term string) []Project {
	term = NormalizeTerm(term)
	out := make([]Project, 0, len(all))
	for _, p := range all {
		if Matches(p, term) {
			out = append(out, p)
		}
	}
	return out
}
