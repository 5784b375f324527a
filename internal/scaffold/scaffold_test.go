package scaffold

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"folio/internal/builder"
	"folio/internal/config"
)

func TestCreateNewSite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	if err := CreateNewSite(dir, io.Discard); err != nil {
		t.Fatalf("CreateNewSite: %v", err)
	}
	for _, name := range []string{
		"site.yaml",
		"content/home.md",
		"content/about.md",
		"archetypes/default.md",
		"templates/simple/layout.html",
		"templates/simple/projects.html",
		"static/css/style.css",
		"static/js/folio.js",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	cfg, err := config.LoadSiteConfig(filepath.Join(dir, "site.yaml"))
	if err != nil {
		t.Fatalf("scaffolded config does not load: %v", err)
	}
	if cfg.Title != "My Portfolio" || len(cfg.Radio.Stations) != 1 {
		t.Fatalf("config = %+v", cfg)
	}

	// The copied theme parses like the built-in one.
	if _, err := builder.LoadTemplates(filepath.Join(dir, "templates"), cfg.Template); err != nil {
		t.Fatalf("copied theme: %v", err)
	}

	if err := CreateNewSite(dir, io.Discard); err == nil {
		t.Fatal("scaffolding over an existing site should fail")
	}
}

func TestCreateNewPage(t *testing.T) {
	dir := t.TempDir()
	site := config.SiteConfig{Author: "Ana"}

	path, err := CreateNewPage(dir, "Uses & Tools", site)
	if err != nil {
		t.Fatalf("CreateNewPage: %v", err)
	}
	if filepath.Base(path) != "uses-tools.md" {
		t.Fatalf("path = %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "title: Uses & Tools") || !strings.Contains(string(b), "author: Ana") {
		t.Fatalf("page = %s", b)
	}

	if _, err := CreateNewPage(dir, "Uses & Tools", site); err == nil {
		t.Fatal("expected an error for an existing page")
	}
	if _, err := CreateNewPage(dir, "!!!", site); err == nil {
		t.Fatal("expected an error for an empty slug")
	}
}
