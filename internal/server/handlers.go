// internal/server/handlers.go
package server

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"folio/internal/builder"
	"folio/internal/config"
	"folio/internal/logging"
	"folio/internal/session"

	"github.com/go-chi/chi/v5"
)

// baseHref is the root every link of a served page is relative to.
const baseHref = "/"

// loadContext detaches a lazy load from the request: the result lands in
// the session even if the visitor navigates away mid-fetch.
func loadContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func isHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

func (s *Server) pageData(sess *session.Session) builder.PageData {
	st := s.site.Load()
	section := sess.Section()
	data := builder.NewPageData(s.opts.Site, st.content, section, baseHref, false)
	data.Projects = builder.NewProjectsData(sess.Catalog.View(), baseHref, false, s.opts.Build)
	data.Repos = sess.Feed.View()
	data.Radio = sess.Radio.State()
	return data
}

func (s *Server) navigate(r *http.Request, sess *session.Session, id string) {
	ctx, cancel := context.WithTimeout(loadContext(r), s.loadTimeout(id))
	defer cancel()
	nav := sess.Navigate(ctx, id)
	if !nav.Triggered {
		return
	}
	s.log.Debug().
		Str(logging.Session, sess.ID).
		Str(logging.Section, nav.Section).
		Stringer(logging.Outcome, nav.Load).
		Msg("section load")
	switch nav.Section {
	case session.Projects:
		s.metrics.CatalogLoad(nav.Load)
	case session.Repos:
		s.metrics.FeedLoad(nav.Load)
	}
}

func (s *Server) loadTimeout(id string) time.Duration {
	d := s.opts.Site.Catalog.Timeout
	if session.Resolve(id) == session.Repos {
		d = s.opts.Site.Feed.Timeout
	}
	if d <= 0 {
		return config.DefaultHTTPTimeout
	}
	return d
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := FromContext(r.Context())
	s.navigate(r, sess, r.URL.Query().Get("section"))
	s.renderPage(w, sess)
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	sess := FromContext(r.Context())
	s.navigate(r, sess, chi.URLParam(r, "id"))
	if !isHTMX(r) {
		s.renderPage(w, sess)
		return
	}
	s.render(w, "section", s.pageData(sess))
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	s.renderProjects(w, FromContext(r.Context()))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := FromContext(r.Context())
	sess.Catalog.Filter(r.Form.Get("q"))
	s.metrics.Searches.Inc()
	s.renderProjects(w, sess)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	page, err := strconv.Atoi(r.Form.Get("page"))
	if err != nil {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	sess := FromContext(r.Context())
	sess.Catalog.SetPage(page)
	s.renderProjects(w, sess)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := FromContext(r.Context())
	sess.Catalog.Select(r.Form.Get("id"))
	s.renderProjects(w, sess)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess := FromContext(r.Context())
	sess.Catalog.Clear()
	s.renderProjects(w, sess)
}

func (s *Server) handleRepos(w http.ResponseWriter, r *http.Request) {
	sess := FromContext(r.Context())
	s.render(w, "repos", sess.Feed.View())
}

func (s *Server) handleRadio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := FromContext(r.Context())
	widget := sess.Radio
	switch chi.URLParam(r, "action") {
	case "next":
		widget.Next()
	case "prev":
		widget.Prev()
	case "play":
		widget.Play()
	case "pause":
		widget.Pause()
	case "toggle":
		widget.Toggle()
	case "mute":
		widget.ToggleMute()
	case "failed":
		widget.PlaybackFailed(r.Form.Get("reason"))
	case "volume":
		v, err := strconv.ParseFloat(r.Form.Get("v"), 64)
		if err != nil {
			http.Error(w, "invalid volume", http.StatusBadRequest)
			return
		}
		widget.SetVolume(v)
	default:
		http.NotFound(w, r)
		return
	}
	data := builder.PageData{BaseHref: baseHref, Radio: widget.State()}
	s.render(w, "radio", data)
}

func (s *Server) renderProjects(w http.ResponseWriter, sess *session.Session) {
	data := builder.NewProjectsData(sess.Catalog.View(), baseHref, false, s.opts.Build)
	s.render(w, "projects", data)
}

func (s *Server) renderPage(w http.ResponseWriter, sess *session.Session) {
	var buf bytes.Buffer
	if err := s.site.Load().renderer.Page(&buf, s.pageData(sess)); err != nil {
		s.renderError(w, "main", err)
		return
	}
	writeHTML(w, buf.Bytes())
}

// render writes one fragment. Fragments the theme does not define come out
// empty.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.site.Load().renderer.Partial(&buf, name, data); err != nil {
		s.renderError(w, name, err)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) renderError(w http.ResponseWriter, name string, err error) {
	s.log.Error().Err(err).Str("template", name).Msg("render failed")
	http.Error(w, "could not render page", http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
