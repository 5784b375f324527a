// internal/feed/feed.go

// Package feed lists the public repositories shown in the repos section.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"folio/internal/config"
	"folio/internal/logging"
	"folio/internal/task"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Messages shown in the repos section.
const (
	LoadingMessage     = "Loading repositories..."
	LoadErrorMessage   = "Could not load the repositories."
	NoReposMessage     = "No public repositories yet."
	NoDescription      = "No description"
	descriptionLimit   = 110
	defaultUserAgent   = "folio"
	githubAcceptHeader = "application/vnd.github+json"
)

// Repo is one entry of the feed.
type Repo struct {
	Name        string
	Description string
	Language    string
	HTMLURL     string
	AvatarURL   string
	UpdatedAt   time.Time
}

// Updated is the humanized time since the last push.
func (r Repo) Updated() string {
	if r.UpdatedAt.IsZero() {
		return ""
	}
	return humanize.Time(r.UpdatedAt)
}

// Fetcher lists repositories.
type Fetcher interface {
	FetchRepos(ctx context.Context) ([]Repo, error)
}

// Client reads a user's repositories from the GitHub REST API.
type Client struct {
	apiURL         string
	user           string
	perPage        int
	fallbackAvatar string
	http           *http.Client
}

// NewClient builds a client for cfg. With a token the requests are
// authenticated, which raises the API rate limit.
func NewClient(cfg config.FeedConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
		authed.Timeout = httpClient.Timeout
		httpClient = authed
	}
	return &Client{
		apiURL:         strings.TrimRight(cfg.APIURL, "/"),
		user:           cfg.User,
		perPage:        cfg.PerPage,
		fallbackAvatar: cfg.FallbackAvatar,
		http:           httpClient,
	}
}

type apiRepo struct {
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Language    *string   `json:"language"`
	HTMLURL     string    `json:"html_url"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       *struct {
		AvatarURL string `json:"avatar_url"`
	} `json:"owner"`
}

// FetchRepos returns the most recently updated repositories, at most
// per_page of them.
func (c *Client) FetchRepos(ctx context.Context) ([]Repo, error) {
	q := url.Values{}
	q.Set("sort", "updated")
	q.Set("per_page", strconv.Itoa(c.perPage))
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.apiURL, url.PathEscape(c.user), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", githubAcceptHeader)
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list repos of %s: %w", c.user, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("list repos of %s: status %d", c.user, resp.StatusCode)
	}

	var raw []apiRepo
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode repos: %w", err)
	}
	if c.perPage > 0 && len(raw) > c.perPage {
		raw = raw[:c.perPage]
	}
	repos := make([]Repo, 0, len(raw))
	for _, r := range raw {
		repos = append(repos, c.toRepo(r))
	}
	return repos, nil
}

func (c *Client) toRepo(r apiRepo) Repo {
	repo := Repo{
		Name:        r.Name,
		Description: NoDescription,
		HTMLURL:     r.HTMLURL,
		AvatarURL:   c.fallbackAvatar,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Description != nil && *r.Description != "" {
		repo.Description = truncate(*r.Description, descriptionLimit)
	}
	if r.Language != nil {
		repo.Language = *r.Language
	}
	if r.Owner != nil && r.Owner.AvatarURL != "" {
		repo.AvatarURL = r.Owner.AvatarURL
	}
	return repo
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// View is what the repos section renders.
type View struct {
	Loading bool
	Message string
	Repos   []Repo
}

// Loader loads the feed once per session.
type Loader struct {
	fetcher Fetcher
	log     zerolog.Logger
	guard   task.Guard

	mu    sync.Mutex
	repos []Repo
	err   string
}

// NewLoader wraps fetcher. A nil fetcher leaves the feed empty.
func NewLoader(fetcher Fetcher, logger zerolog.Logger) *Loader {
	return &Loader{fetcher: fetcher, log: logging.For(logger, "feed")}
}

// Load fetches the feed unless it is loaded or loading.
func (l *Loader) Load(ctx context.Context) task.Outcome {
	ok, outcome := l.guard.Begin()
	if !ok {
		return outcome
	}
	var repos []Repo
	var err error
	if l.fetcher != nil {
		repos, err = l.fetcher.FetchRepos(ctx)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.err = LoadErrorMessage
		l.log.Error().Err(err).Msg("could not load repositories")
		return l.guard.End(false)
	}
	l.repos, l.err = repos, ""
	l.log.Info().Int("repos", len(repos)).Msg("feed loaded")
	return l.guard.End(true)
}

// Loaded reports whether the feed has been loaded.
func (l *Loader) Loaded() bool { return l.guard.Done() }

// View renders the loader state.
func (l *Loader) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case l.guard.Running():
		return View{Loading: true, Message: LoadingMessage}
	case l.err != "":
		return View{Message: l.err}
	case !l.guard.Done():
		return View{Loading: true, Message: LoadingMessage}
	case len(l.repos) == 0:
		return View{Message: NoReposMessage}
	}
	return View{Repos: append([]Repo(nil), l.repos...)}
}
