// internal/server/sessions.go
package server

import (
	"context"
	"net/http"
	"time"

	"folio/internal/logging"
	"folio/internal/session"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "folio_session"

type contextKey string

const sessionKey contextKey = "session"

// Sessions maps session cookies to visitor sessions. Sessions are dropped
// when the least recently used one has to make room or when they have been
// idle for the TTL.
type Sessions struct {
	cache   *expirable.LRU[string, *session.Session]
	newFunc func(id string) *session.Session
	ttl     time.Duration
	gauge   prometheus.Gauge
	log     zerolog.Logger
}

// NewSessions builds a registry holding at most size sessions. newFunc
// creates the session for a fresh id.
func NewSessions(size int, ttl time.Duration, newFunc func(id string) *session.Session, gauge prometheus.Gauge, logger zerolog.Logger) *Sessions {
	s := &Sessions{
		newFunc: newFunc,
		ttl:     ttl,
		gauge:   gauge,
		log:     logger,
	}
	// The callback runs under the cache lock, so the gauge is moved by one
	// instead of being read back from Len.
	s.cache = expirable.NewLRU[string, *session.Session](size, func(id string, sess *session.Session) {
		if s.gauge != nil {
			s.gauge.Dec()
		}
		s.log.Debug().Str(logging.Session, id).Dur("age", time.Since(sess.Created)).Msg("session evicted")
	}, ttl)
	return s
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int { return s.cache.Len() }

// Lookup returns the session of r, creating one when r has none or it has
// expired. Every hit restarts the idle clock and sends the cookie again, so
// the cookie expires together with the session.
func (s *Sessions) Lookup(w http.ResponseWriter, r *http.Request) *session.Session {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			if sess, ok := s.cache.Get(id.String()); ok {
				s.cache.Add(sess.ID, sess)
				s.setCookie(w, sess.ID)
				return sess
			}
		}
	}

	id := uuid.NewString()
	sess := s.newFunc(id)
	s.cache.Add(id, sess)
	if s.gauge != nil {
		s.gauge.Inc()
	}
	s.setCookie(w, id)
	s.log.Debug().Str(logging.Session, id).Msg("session created")
	return sess
}

func (s *Sessions) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware attaches the visitor's session to the request context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.Lookup(w, r)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

// FromContext returns the session attached by Middleware.
func FromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}
