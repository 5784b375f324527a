// internal/builder/builder.go
package builder

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"folio/internal/catalog"
	"folio/internal/config"
	"folio/internal/feed"
	"folio/internal/radio"
	"folio/internal/session"
	"folio/internal/util"
)

// Snapshot is everything a static build renders.
type Snapshot struct {
	Site     config.SiteConfig
	Projects []catalog.Project
	// CatalogErr is the message shown when the catalog could not be loaded.
	CatalogErr string
	Repos      feed.View
	Radio      radio.State
	Content    map[string]Page
}

// BuildSite writes a static rendition of the site into outputDir and copies
// static assets. It returns the number of pages written.
func BuildSite(outputDir, staticDir string, snap Snapshot, r *Renderer, opts BuildOptions) (int, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, err
	}

	if opts.CleanDestination {
		entries, err := os.ReadDir(outputDir)
		if err != nil {
			return 0, err
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(outputDir, entry.Name())); err != nil {
				return 0, err
			}
		}
	}

	w := &siteWriter{outputDir: outputDir, snap: snap, r: r, opts: opts}

	for _, id := range session.Sections {
		if id == session.Projects {
			continue
		}
		if err := w.section(staticSectionFile(id), id, catalog.State{}); err != nil {
			return 0, err
		}
	}

	// The projects section: one file per page, plus one per project with
	// the detail pane filled in.
	base := catalog.State{
		All:      snap.Projects,
		Filtered: snap.Projects,
		Loaded:   snap.CatalogErr == "",
		Err:      snap.CatalogErr,
		Page:     1,
	}
	if err := w.section(staticSectionFile(session.Projects), session.Projects, base); err != nil {
		return 0, err
	}
	for page := 1; page <= catalog.TotalPages(len(snap.Projects)); page++ {
		st := base
		st.Page = page
		if err := w.section(filepath.Join("projects", fmt.Sprintf("page-%d.html", page)), session.Projects, st); err != nil {
			return 0, err
		}
	}
	for i, p := range snap.Projects {
		st := base
		st.Page = i/catalog.PageSize + 1
		st.SelectedID = p.ID
		if err := w.section(filepath.Join("projects", util.IDSlug(p.ID)+".html"), session.Projects, st); err != nil {
			return 0, err
		}
	}

	// Content files that do not back a section become standalone pages.
	slugs := make([]string, 0, len(snap.Content))
	for slug := range snap.Content {
		if !isSectionPage(slug) {
			slugs = append(slugs, slug)
		}
	}
	sort.Strings(slugs)
	for _, slug := range slugs {
		page := snap.Content[slug]
		if err := w.page(filepath.FromSlash(slug)+".html", &page); err != nil {
			return 0, err
		}
	}

	if err := copyStaticAssets(staticDir, filepath.Join(outputDir, "static")); err != nil {
		return 0, err
	}
	return w.written, nil
}

type siteWriter struct {
	outputDir string
	snap      Snapshot
	r         *Renderer
	opts      BuildOptions
	written   int
}

func (w *siteWriter) data(relPath, section string, st catalog.State) PageData {
	baseHref := util.ComputeBaseHref(relPath)
	data := NewPageData(w.snap.Site, w.snap.Content, section, baseHref, true)
	data.Projects = NewProjectsData(catalog.Render(st), baseHref, true, w.opts)
	data.Repos = w.snap.Repos
	data.Radio = w.snap.Radio
	return data
}

func (w *siteWriter) section(relPath, section string, st catalog.State) error {
	return w.write(relPath, w.data(relPath, section, st))
}

func (w *siteWriter) page(relPath string, page *Page) error {
	data := w.data(relPath, "", catalog.State{})
	data.Section = "page"
	data.Page = page
	data.Title = page.Title
	if page.Description != "" {
		data.Description = page.Description
	}
	return w.write(relPath, data)
}

// write executes the layout and writes the output to a file.
func (w *siteWriter) write(relPath string, data PageData) error {
	outPath := filepath.Join(w.outputDir, relPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	if err := w.r.Page(outFile, data); err != nil {
		return fmt.Errorf("failed to render page %s: %w", relPath, err)
	}
	w.written++
	return nil
}

// copyStaticAssets copies files from the static directory to the output
// directory. Without a static directory the built-in assets are copied.
func copyStaticAssets(staticDir, outputDir string) error {
	// File extensions considered static assets.
	allowedExts := map[string]bool{
		".css": true, ".js": true, ".txt": true, ".svg": true,
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".webp": true, ".ico": true,
	}
	var src fs.FS = os.DirFS(staticDir)
	if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
		src = ThemeStatic()
	}
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !allowedExts[filepath.Ext(d.Name())] {
			return nil
		}
		dest := filepath.Join(outputDir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		in, err := src.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(dest)
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = io.Copy(out, in)
		return err
	})
}
