// internal/session/session.go

// Package session groups the state one visitor accumulates while browsing:
// the catalog, the repository feed, the radio widget and the active section.
package session

import (
	"context"
	"sync"
	"time"

	"folio/internal/catalog"
	"folio/internal/feed"
	"folio/internal/radio"
	"folio/internal/task"
)

// Section identifiers.
const (
	Home     = "home"
	Projects = "projects"
	Repos    = "repos"
	About    = "about"
)

// Sections lists the top-level sections in navigation order.
var Sections = []string{Home, Projects, Repos, About}

// Resolve maps a section id to a known one, falling back to Home.
func Resolve(id string) string {
	for _, s := range Sections {
		if s == id {
			return s
		}
	}
	return Home
}

// Session is the state of one visitor.
type Session struct {
	ID      string
	Catalog *catalog.Store
	Feed    *feed.Loader
	Radio   *radio.Widget
	Created time.Time

	mu      sync.Mutex
	section string
}

// New assembles a session on the landing section.
func New(id string, store *catalog.Store, loader *feed.Loader, widget *radio.Widget) *Session {
	return &Session{
		ID:      id,
		Catalog: store,
		Feed:    loader,
		Radio:   widget,
		Created: time.Now(),
		section: Home,
	}
}

// Section returns the active section.
func (s *Session) Section() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.section
}

// Navigation reports what Navigate did.
type Navigation struct {
	Section string
	// Load is the outcome of the lazy load the section triggered, if any.
	Load      task.Outcome
	Triggered bool
}

// Navigate activates exactly one section and runs its lazy load. The load
// is a no-op once it has succeeded.
func (s *Session) Navigate(ctx context.Context, id string) Navigation {
	section := Resolve(id)
	s.mu.Lock()
	s.section = section
	s.mu.Unlock()

	nav := Navigation{Section: section}
	switch section {
	case Projects:
		nav.Load, nav.Triggered = s.Catalog.Load(ctx), true
	case Repos:
		nav.Load, nav.Triggered = s.Feed.Load(ctx), true
	}
	return nav
}
