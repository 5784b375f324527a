// internal/builder/models.go
package builder

import (
	"html/template"

	"folio/internal/catalog"
	"folio/internal/config"
	"folio/internal/feed"
	"folio/internal/radio"
)

// BuildOptions control rendering and generation.
type BuildOptions struct {
	CleanDestination bool
	Unsafe           bool
	Debug            bool
}

// PageMeta holds metadata from front matter, including a map for
// arbitrary parameters.
type PageMeta struct {
	Title       string                 `yaml:"title"`
	Draft       bool                   `yaml:"draft"`
	Description string                 `yaml:"description"`
	Params      map[string]interface{} `yaml:",inline"`
}

// Page is a rendered content file (content/<slug>.md).
type Page struct {
	Slug        string
	Title       string
	Description string
	Body        template.HTML
	Params      map[string]interface{}
}

// SectionLink is one navigation entry.
type SectionLink struct {
	ID     string
	Label  string
	Href   string
	Active bool
}

// ProjectsData is the catalog view plus what templates cannot compute.
type ProjectsData struct {
	catalog.View
	Notes    template.HTML
	Static   bool
	BaseHref string
}

// PageData is the struct passed to templates.
type PageData struct {
	Site        config.SiteConfig
	Title       string
	Description string
	BaseHref    string
	Section     string
	Sections    []SectionLink
	Content     map[string]Page
	Page        *Page
	Projects    ProjectsData
	Repos       feed.View
	Radio       radio.State
	Static      bool
}

// SectionPage returns the content file backing a section, nil if absent.
func (d PageData) SectionPage(id string) *Page {
	p, ok := d.Content[id]
	if !ok {
		return nil
	}
	return &p
}
