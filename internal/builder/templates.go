// internal/builder/templates.go
package builder

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"folio/internal/catalog"
	"folio/internal/config"
	"folio/internal/session"
	"folio/internal/util"
)

// Theme holds the built-in theme: templates under theme/<name>/ and the
// default static assets under theme/static/.
//
//go:embed theme
var Theme embed.FS

// ThemeStatic returns the built-in static assets.
func ThemeStatic() fs.FS {
	sub, err := fs.Sub(Theme, "theme/static")
	if err != nil {
		panic(err)
	}
	return sub
}

// LoadTemplates parses every *.html file of templateDir/templateName. When
// that directory does not exist the built-in theme of the same name is used.
func LoadTemplates(templateDir, templateName string) (*template.Template, error) {
	root := template.New(templateName)
	root.Funcs(funcMap(root))

	path := filepath.Join(templateDir, templateName)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		tmpl, err := root.ParseGlob(filepath.Join(path, "*.html"))
		if err != nil {
			return nil, err
		}
		return tmpl, nil
	}

	pattern := "theme/" + templateName + "/*.html"
	if matches, _ := fs.Glob(Theme, pattern); len(matches) == 0 {
		return nil, fmt.Errorf("template %q not found in %s or the built-in themes", templateName, templateDir)
	}
	return root.ParseFS(Theme, pattern)
}

func funcMap(root *template.Template) template.FuncMap {
	return template.FuncMap{
		// partial renders a named template, or nothing when the theme does
		// not define it.
		"partial": func(name string, data any) (template.HTML, error) {
			t := root.Lookup(name)
			if t == nil {
				return "", nil
			}
			var buf bytes.Buffer
			if err := t.Execute(&buf, data); err != nil {
				return "", err
			}
			return template.HTML(buf.String()), nil
		},
		"slug": util.IDSlug,
		"add":  func(a, b int) int { return a + b },
	}
}

// Renderer executes a parsed theme.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer wraps tmpl.
func NewRenderer(tmpl *template.Template) *Renderer {
	return &Renderer{tmpl: tmpl}
}

// Has reports whether the theme defines name.
func (r *Renderer) Has(name string) bool {
	return r.tmpl.Lookup(name) != nil
}

// Page renders a full document.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	// "main" is the name of the template defined within the layout file.
	return r.tmpl.ExecuteTemplate(w, "main", data)
}

// Partial renders one named template. Templates the theme does not define
// render nothing.
func (r *Renderer) Partial(w io.Writer, name string, data any) error {
	if !r.Has(name) {
		return nil
	}
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// NewProjectsData prepares the catalog view for the templates.
func NewProjectsData(v catalog.View, baseHref string, static bool, opts BuildOptions) ProjectsData {
	d := ProjectsData{View: v, Static: static, BaseHref: baseHref}
	if v.Detail != nil {
		d.Notes = RenderNotes(v.Detail.Additional, opts)
	}
	return d
}

// NewPageData fills the fields every page shares. Callers add the
// projects, repos and radio state.
func NewPageData(site config.SiteConfig, content map[string]Page, section, baseHref string, static bool) PageData {
	data := PageData{
		Site:        site,
		Title:       sectionLabel(section),
		Description: site.Description,
		BaseHref:    baseHref,
		Section:     section,
		Sections:    SectionLinks(section, baseHref, static),
		Content:     content,
		Static:      static,
	}
	if p := data.SectionPage(section); p != nil && p.Title != "" {
		data.Title = p.Title
	}
	return data
}

// SectionLinks builds the navigation with active marked.
func SectionLinks(active, baseHref string, static bool) []SectionLink {
	links := make([]SectionLink, 0, len(session.Sections))
	for _, id := range session.Sections {
		href := "#" + id
		if static {
			href = baseHref + staticSectionFile(id)
		}
		links = append(links, SectionLink{
			ID:     id,
			Label:  sectionLabel(id),
			Href:   href,
			Active: id == active,
		})
	}
	return links
}

func sectionLabel(id string) string {
	switch id {
	case session.Home:
		return "Home"
	case session.Projects:
		return "Projects"
	case session.Repos:
		return "Repositories"
	case session.About:
		return "About"
	}
	if id == "" {
		return ""
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

func staticSectionFile(id string) string {
	if id == session.Home {
		return "index.html"
	}
	return id + ".html"
}
