// internal/catalog/search.go
package catalog

import "strings"

// MaxSuggestions caps the autocomplete list.
const MaxSuggestions = 5

// SearchIndex is the deduplicated suggestion corpus built from the catalog.
// Entries keep first-insertion order.
type SearchIndex struct {
	entries []string
}

// BuildSearchIndex collects descriptions and non-blank titles of all
// projects. A description loses a period that ends it and is then trimmed,
// so "Tool. " keeps its period.
func BuildSearchIndex(projects []Project) SearchIndex {
	seen := make(map[string]struct{})
	var entries []string
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		entries = append(entries, s)
	}
	for _, p := range projects {
		add(strings.TrimSpace(strings.TrimSuffix(p.Description, ".")))
		for _, title := range p.Titles {
			add(strings.TrimSpace(title))
		}
	}
	return SearchIndex{entries: entries}
}

// Entries returns a copy of the corpus.
func (ix SearchIndex) Entries() []string {
	return append([]string(nil), ix.entries...)
}

// Suggest returns up to MaxSuggestions entries containing term, in corpus
// order. An empty term suggests nothing.
func (ix SearchIndex) Suggest(term string) []string {
	term = NormalizeTerm(term)
	if term == "" {
		return nil
	}
	var out []string
	for _, entry := range ix.entries {
		if strings.Contains(strings.ToLower(entry), term) {
			out = append(out, entry)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}
