package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if _, err := run(t, "new", "site", "."); err != nil {
		t.Fatalf("new site: %v", err)
	}
	return dir
}

func TestGenWithoutCatalog(t *testing.T) {
	dir := newSite(t)
	out, err := run(t, "gen")
	if err != nil {
		t.Fatalf("gen: %v", err)
	}
	// index, projects, repos, about, projects/page-1
	if !strings.Contains(out, "Generated 5 pages with 0 projects") {
		t.Fatalf("output = %s", out)
	}
	if !strings.Contains(out, "Configure the catalog backend") {
		t.Fatalf("missing catalog warning: %s", out)
	}
	b, err := os.ReadFile(filepath.Join(dir, "public", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "Welcome") {
		t.Fatal("home page content missing")
	}
}

func TestGenWithCatalog(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "anon" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"description":"Alpha.","links":["https://a.example"]},{"id":2,"description":"Beta"}]`))
	}))
	defer backend.Close()
	t.Setenv("FOLIO_CATALOG_URL", backend.URL)
	t.Setenv("FOLIO_CATALOG_ANON_KEY", "anon")

	dir := newSite(t)
	out, err := run(t, "gen")
	if err != nil {
		t.Fatalf("gen: %v", err)
	}
	// 4 sections, 1 page, 2 details
	if !strings.Contains(out, "Generated 7 pages with 2 projects") {
		t.Fatalf("output = %s", out)
	}
	b, err := os.ReadFile(filepath.Join(dir, "public", "projects.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "Alpha") || !strings.Contains(string(b), "Beta") {
		t.Fatal("projects missing from the generated page")
	}

	out, err = run(t, "ping")
	if err != nil || !strings.Contains(out, "answered") {
		t.Fatalf("ping: %v %s", err, out)
	}
}

func TestPingWithoutCatalog(t *testing.T) {
	newSite(t)
	if _, err := run(t, "ping"); err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("err = %v", err)
	}
}

func TestNewPage(t *testing.T) {
	dir := newSite(t)
	out, err := run(t, "new", "page", "Colophon")
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	if !strings.Contains(out, "colophon.md") {
		t.Fatalf("output = %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "content", "colophon.md")); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "new", "site"); err == nil {
		t.Fatal("new site without a name should fail")
	}
}
