// internal/builder/content.go
package builder

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"folio/internal/session"
)

// LoadContent renders every markdown or HTML file under contentDir, keyed
// by its slash-separated path without extension. Drafts are skipped, except
// for the pages backing a section. A missing directory yields no pages.
func LoadContent(contentDir string, opts BuildOptions) (map[string]Page, error) {
	pages := make(map[string]Page)
	err := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(d.Name())
		if ext != ".html" && ext != ".md" {
			return nil
		}

		contentBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		if !utf8.Valid(contentBytes) {
			return fmt.Errorf("content file is not valid UTF-8: %s", path)
		}

		meta, htmlOut, err := processContent(contentBytes, opts)
		if err != nil {
			return fmt.Errorf("failed to process content for %s: %w", path, err)
		}

		relPath, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		slug := filepath.ToSlash(strings.TrimSuffix(relPath, ext))
		if meta.Draft && !isSectionPage(slug) {
			return nil
		}
		pages[slug] = Page{
			Slug:        slug,
			Title:       meta.Title,
			Description: meta.Description,
			Body:        template.HTML(htmlOut),
			Params:      meta.Params,
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return pages, nil
	}
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// isSectionPage checks for pages that are never treated as drafts.
func isSectionPage(slug string) bool {
	for _, id := range session.Sections {
		if slug == id {
			return true
		}
	}
	return false
}
