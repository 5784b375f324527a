// internal/catalog/store.go
package catalog

import (
	"context"
	"errors"
	"sync"

	"folio/internal/logging"
	"folio/internal/task"

	"github.com/rs/zerolog"
)

// ErrNotConfigured is reported when the store has no source to load from.
var ErrNotConfigured = errors.New("catalog source not configured")

// Source fetches every catalog row, newest first.
type Source interface {
	FetchProjects(ctx context.Context) ([]RawRow, error)
}

// Store is the catalog state of one session.
type Store struct {
	src   Source
	log   zerolog.Logger
	guard task.Guard

	mu          sync.Mutex
	all         []Project
	filtered    []Project
	index       SearchIndex
	suggestions []string
	term        string
	page        int
	selectedID  string
	lastErr     string
}

// NewStore returns an empty store reading from src. A nil src makes every
// load fail with ErrNotConfigured.
func NewStore(src Source, logger zerolog.Logger) *Store {
	return &Store{
		src:  src,
		log:  logging.For(logger, "catalog"),
		page: 1,
	}
}

// Load fetches and installs the catalog. At most one load runs at a time and
// nothing is fetched again after a successful load.
func (s *Store) Load(ctx context.Context) task.Outcome {
	ok, outcome := s.guard.Begin()
	if !ok {
		return outcome
	}

	projects, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = LoadErrorMessage
		if errors.Is(err, ErrNotConfigured) {
			s.lastErr = NotConfiguredMessage
		}
		s.log.Error().Err(err).Msg("could not load projects")
		return s.guard.End(false)
	}

	s.all = projects
	s.filtered = append([]Project(nil), projects...)
	s.index = BuildSearchIndex(projects)
	s.suggestions = nil
	s.term = ""
	s.page = 1
	s.selectedID = ""
	s.lastErr = ""
	s.log.Info().Int("projects", len(projects)).Msg("catalog loaded")
	return s.guard.End(true)
}

func (s *Store) fetch(ctx context.Context) ([]Project, error) {
	if s.src == nil {
		return nil, ErrNotConfigured
	}
	rows, err := s.src.FetchProjects(ctx)
	if err != nil {
		return nil, err
	}
	return NormalizeAll(rows), nil
}

// Filter narrows the catalog to projects matching term, returns to the
// first page, clears the selection and returns the new suggestions.
func (s *Store) Filter(term string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	normalized := NormalizeTerm(term)
	if normalized == "" {
		s.filtered = append([]Project(nil), s.all...)
	} else {
		s.filtered = FilterProjects(s.all, normalized)
	}
	s.term = term
	s.page = 1
	s.selectedID = ""
	s.suggestions = s.index.Suggest(normalized)
	return append([]string(nil), s.suggestions...)
}

// Select makes the project with id the selection. The lookup covers the
// whole catalog, not only the filtered view. Unknown ids are ignored.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := find(s.all, id); !ok {
		return false
	}
	s.selectedID = id
	return true
}

// Clear drops the selection.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}

// SetPage moves to page n, clamped to the available pages. Filter and
// selection are kept.
func (s *Store) SetPage(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := TotalPages(len(s.filtered))
	switch {
	case n < 1:
		n = 1
	case n > total:
		n = total
	}
	s.page = n
	return n
}

// Loaded reports whether a load has succeeded.
func (s *Store) Loaded() bool { return s.guard.Done() }

// Loading reports whether a load is in flight.
func (s *Store) Loading() bool { return s.guard.Running() }

// SelectedID returns the current selection, "" when none.
func (s *Store) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// Projects returns the full catalog in source order.
func (s *Store) Projects() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Project(nil), s.all...)
}

// Filtered returns the current filtered view.
func (s *Store) Filtered() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Project(nil), s.filtered...)
}

// Snapshot copies the store state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		All:         s.all,
		Filtered:    s.filtered,
		Page:        s.page,
		SelectedID:  s.selectedID,
		Loaded:      s.guard.Done(),
		Loading:     s.guard.Running(),
		Err:         s.lastErr,
		Term:        s.term,
		Suggestions: append([]string(nil), s.suggestions...),
	}
}

// View renders the current state.
func (s *Store) View() View {
	return Render(s.Snapshot())
}
