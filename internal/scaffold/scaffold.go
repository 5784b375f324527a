// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"text/template"

	"folio/internal/builder"
	"folio/internal/config"
	"folio/internal/util"
)

// CreateNewSite lays out a new site in dir: the configuration, the section
// pages, an archetype, and a copy of the built-in theme and assets to edit.
func CreateNewSite(dir string, out io.Writer) error {
	if _, err := os.Stat(filepath.Join(dir, "site.yaml")); err == nil {
		return fmt.Errorf("%s already contains a site.yaml", dir)
	}
	fmt.Fprintln(out, "Scaffolding new site in:", dir)

	files := map[string]string{
		"site.yaml":             siteYamlContent,
		"content/home.md":       homeMdContent,
		"content/about.md":      aboutMdContent,
		"archetypes/default.md": archetypeDefaultMdContent,
	}
	for name, content := range files {
		if err := writeFile(filepath.Join(dir, name), []byte(content)); err != nil {
			return err
		}
	}

	themeDir := "theme/" + config.DefaultTemplate
	if err := copyTree(builder.Theme, themeDir, filepath.Join(dir, "templates", config.DefaultTemplate)); err != nil {
		return fmt.Errorf("failed to copy templates: %w", err)
	}
	if err := copyTree(builder.Theme, "theme/static", filepath.Join(dir, "static")); err != nil {
		return fmt.Errorf("failed to copy static assets: %w", err)
	}

	fmt.Fprintln(out, "Site scaffolded. You can now:")
	fmt.Fprintln(out, "  cd", dir)
	fmt.Fprintln(out, "  folio serve --watch")
	return nil
}

// CreateNewPage writes content/<slug>.md from the site's archetype. The
// page is built as a standalone page next to the sections.
func CreateNewPage(dir, title string, site config.SiteConfig) (string, error) {
	slug := util.Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("title %q has no usable characters", title)
	}
	target := filepath.Join(dir, "content", slug+".md")
	if _, err := os.Stat(target); err == nil {
		return "", fmt.Errorf("%s already exists", target)
	}

	archetype := archetypeDefaultMdContent
	archetypePath := filepath.Join(dir, "archetypes", "default.md")
	if b, err := os.ReadFile(archetypePath); err == nil {
		archetype = string(b)
	}
	tmpl, err := template.New("archetype").Parse(archetype)
	if err != nil {
		return "", fmt.Errorf("failed to parse archetype file %s: %w", archetypePath, err)
	}

	data := struct {
		Title  string
		Author string
	}{
		Title:  title,
		Author: site.Author,
	}
	var output bytes.Buffer
	if err := tmpl.Execute(&output, data); err != nil {
		return "", fmt.Errorf("failed to execute archetype template: %w", err)
	}
	if err := writeFile(target, output.Bytes()); err != nil {
		return "", err
	}
	return target, nil
}

func writeFile(name string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(name), err)
	}
	if err := os.WriteFile(name, content, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}
	return nil
}

// copyTree copies the files under root in fsys into dest.
func copyTree(fsys fs.FS, root, dest string) error {
	return fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		rel := p[len(root)+1:]
		return writeFile(filepath.Join(dest, filepath.FromSlash(path.Clean(rel))), b)
	})
}

const siteYamlContent = `title: My Portfolio
author: Your Name
baseurl: /
description: Things I have built.
template: simple

catalog:
  # The anon key is better kept in FOLIO_CATALOG_ANON_KEY.
  url: ""
  table: proyectos

feed:
  user: ""
  per_page: 30

radio:
  volume: 0.5
  stations:
    - name: Lofi
      url: https://example.com/lofi.mp3

keepalive:
  idle: 4m
  interval: 30s
`

const homeMdContent = `---
title: Welcome
---

This is my portfolio. Have a look at the **projects** I have built.
`

const aboutMdContent = `---
title: About
---

A few words about me.
`

const archetypeDefaultMdContent = `---
title: {{.Title}}
author: {{.Author}}
description:
---

Write something meaningful here.
`
