// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"folio/internal/builder"
	"folio/internal/catalog"
	"folio/internal/config"
	"folio/internal/feed"
	"folio/internal/keepalive"
	"folio/internal/logging"
	"folio/internal/metrics"
	"folio/internal/radio"
	"folio/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Options locate the site on disk and tune the server.
type Options struct {
	Site        config.SiteConfig
	TemplateDir string
	ContentDir  string
	StaticDir   string
	Build       builder.BuildOptions
	// Watch enables the file watcher and the live-reload socket.
	Watch bool
}

// Deps are the collaborators of the server. A nil Source or Fetcher leaves
// that part of the site unconfigured; a nil Pinger disables keep-alive.
type Deps struct {
	Source  catalog.Source
	Fetcher feed.Fetcher
	Pinger  keepalive.Pinger
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// site is the part of the server a rebuild replaces.
type site struct {
	renderer *builder.Renderer
	content  map[string]builder.Page
}

// Server serves the site with one session per visitor.
type Server struct {
	opts     Options
	deps     Deps
	log      zerolog.Logger
	metrics  *metrics.Metrics
	sessions *Sessions
	activity *keepalive.Activity
	hub      *Hub
	static   fs.FS
	site     atomic.Pointer[site]
}

// New loads the theme and the content and prepares the session registry.
func New(opts Options, deps Deps) (*Server, error) {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	s := &Server{
		opts:     opts,
		deps:     deps,
		log:      logging.For(deps.Logger, "server"),
		metrics:  deps.Metrics,
		activity: &keepalive.Activity{},
		static:   staticFS(opts.StaticDir),
	}
	s.hub = newHub(s.log)
	s.sessions = NewSessions(opts.Site.Server.MaxSessions, opts.Site.Server.SessionTTL, s.newSession, s.metrics.Sessions, s.log)
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// reload parses the theme and the content again and swaps them in.
func (s *Server) reload() error {
	tmpl, err := builder.LoadTemplates(s.opts.TemplateDir, s.opts.Site.Template)
	if err != nil {
		return fmt.Errorf("could not load templates: %w", err)
	}
	content, err := builder.LoadContent(s.opts.ContentDir, s.opts.Build)
	if err != nil {
		return fmt.Errorf("could not load content: %w", err)
	}
	s.site.Store(&site{
		renderer: builder.NewRenderer(tmpl),
		content:  content,
	})
	return nil
}

func (s *Server) newSession(id string) *session.Session {
	logger := s.deps.Logger.With().Str(logging.Session, id).Logger()
	return session.New(id,
		catalog.NewStore(s.deps.Source, logger),
		feed.NewLoader(s.deps.Fetcher, logger),
		radio.New(s.opts.Site.Radio, logger),
	)
}

// Sessions exposes the registry.
func (s *Server) Sessions() *Sessions { return s.sessions }

// Activity is the last-visitor-activity clock read by keep-alive.
func (s *Server) Activity() *keepalive.Activity { return s.activity }

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", s.metrics.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))
	if s.opts.Watch {
		r.Handle("/ws", s.hub)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.touch)
		r.Use(s.sessions.Middleware)
		if s.opts.Watch {
			r.Use(liveReloadWrapper)
		}

		r.Get("/", s.handleIndex)
		r.Get("/sections/{id}", s.handleSection)
		r.Get("/projects", s.handleProjects)
		r.Post("/projects/search", s.handleSearch)
		r.Post("/projects/page", s.handlePage)
		r.Post("/projects/select", s.handleSelect)
		r.Post("/projects/clear", s.handleClear)
		r.Get("/repos", s.handleRepos)
		r.Post("/radio/{action}", s.handleRadio)
	})
	return r
}

// Run serves on the configured port until ctx is cancelled. It also runs
// the keep-alive monitor and, with Watch, the file watcher.
func (s *Server) Run(ctx context.Context) error {
	if s.deps.Pinger != nil {
		ka := s.opts.Site.KeepAlive
		monitor := keepalive.NewMonitor(s.deps.Pinger, s.activity, ka.Idle, ka.Interval, s.deps.Logger,
			keepalive.WithPingHook(s.metrics.Ping))
		monitor.Start()
		defer monitor.Stop()
	}

	g, ctx := errgroup.WithContext(ctx)
	if s.opts.Watch {
		w, err := s.newWatcher()
		if err != nil {
			return err
		}
		defer w.Close()
		g.Go(func() error { return s.watch(ctx, w) })
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.opts.Site.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	g.Go(func() error {
		s.log.Info().Str("addr", "http://localhost"+srv.Addr).Bool("watch", s.opts.Watch).Msg("serving site")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// touch records visitor activity for keep-alive.
func (s *Server) touch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.activity.Touch()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// staticFS serves dir with the built-in assets underneath, so a site only
// needs to ship the files it overrides.
func staticFS(dir string) fs.FS {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return builder.ThemeStatic()
	}
	return overlayFS{top: os.DirFS(dir), bottom: builder.ThemeStatic()}
}

type overlayFS struct {
	top, bottom fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.top.Open(name)
	if err == nil {
		return f, nil
	}
	return o.bottom.Open(name)
}
