package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"folio/internal/config"
	"folio/internal/task"

	"github.com/rs/zerolog"
)

const reposJSON = `[
  {"name": "folio", "description": "Portfolio site", "language": "Go",
   "html_url": "https://github.com/ana/folio", "updated_at": "2024-05-01T00:00:00Z",
   "owner": {"avatar_url": "https://avatars.example/ana"}},
  {"name": "dots", "description": null, "language": null,
   "html_url": "https://github.com/ana/dots", "owner": null}
]`

func TestFetchRepos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/ana/repos" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("sort") != "updated" || r.URL.Query().Get("per_page") != "30" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(reposJSON))
	}))
	defer srv.Close()

	c := NewClient(config.FeedConfig{APIURL: srv.URL, User: "ana", PerPage: 30, FallbackAvatar: "/avatar.jpg"}, srv.Client())
	repos, err := c.FetchRepos(context.Background())
	if err != nil {
		t.Fatalf("FetchRepos: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("repos = %d", len(repos))
	}
	if repos[0].Language != "Go" || repos[0].AvatarURL != "https://avatars.example/ana" || repos[0].Updated() == "" {
		t.Fatalf("first repo = %+v", repos[0])
	}
	if repos[1].Description != NoDescription || repos[1].AvatarURL != "/avatar.jpg" || repos[1].Updated() != "" {
		t.Fatalf("second repo = %+v", repos[1])
	}
}

func TestFetchReposCapsAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`[{"name": "a"}, {"name": "b"}, {"name": "c"}]`))
	}))
	defer srv.Close()

	c := NewClient(config.FeedConfig{APIURL: srv.URL, User: "ana", PerPage: 2, Token: "tok"}, srv.Client())
	repos, err := c.FetchRepos(context.Background())
	if err != nil {
		t.Fatalf("FetchRepos: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("repos = %d, want cap of 2", len(repos))
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", 150)
	if got := []rune(truncate(long, descriptionLimit)); len(got) != descriptionLimit {
		t.Fatalf("len = %d", len(got))
	}
	if truncate("short", descriptionLimit) != "short" {
		t.Fatal("short strings must be untouched")
	}
}

type fakeFetcher struct {
	repos []Repo
	err   error
	calls int
}

func (f *fakeFetcher) FetchRepos(context.Context) ([]Repo, error) {
	f.calls++
	return f.repos, f.err
}

func TestLoaderOnce(t *testing.T) {
	f := &fakeFetcher{err: errors.New("rate limited")}
	l := NewLoader(f, zerolog.Nop())
	if got := l.Load(context.Background()); got != task.Failed {
		t.Fatalf("Load = %v", got)
	}
	if v := l.View(); v.Message != LoadErrorMessage {
		t.Fatalf("view = %+v", v)
	}

	f.err, f.repos = nil, []Repo{{Name: "a"}}
	if got := l.Load(context.Background()); got != task.Succeeded {
		t.Fatalf("retry = %v", got)
	}
	if got := l.Load(context.Background()); got != task.AlreadyDone {
		t.Fatalf("third = %v", got)
	}
	if f.calls != 2 {
		t.Fatalf("calls = %d", f.calls)
	}
	if v := l.View(); len(v.Repos) != 1 || v.Loading {
		t.Fatalf("view = %+v", v)
	}
}

func TestLoaderEmpty(t *testing.T) {
	l := NewLoader(nil, zerolog.Nop())
	if v := l.View(); !v.Loading {
		t.Fatalf("before load = %+v", v)
	}
	l.Load(context.Background())
	if v := l.View(); v.Message != NoReposMessage {
		t.Fatalf("after load = %+v", v)
	}
}
