// internal/server/reload.go
package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// newWatcher watches the content, template and static directories. Every
// subdirectory is added since fsnotify is not recursive.
func (s *Server) newWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	watched := make(map[string]bool)
	addWatch := func(dir string) {
		dir = filepath.Clean(dir)
		if watched[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			s.log.Warn().Err(err).Str("dir", dir).Msg("could not watch directory")
			return
		}
		s.log.Debug().Str("dir", dir).Msg("watching directory")
		watched[dir] = true
	}

	for _, root := range []string{s.opts.ContentDir, s.opts.TemplateDir, s.opts.StaticDir} {
		info, err := os.Stat(root)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("could not stat path %s: %w", root, err)
		}
		if !info.IsDir() {
			// Editors that save through a swap file replace the file, so
			// the parent is watched instead.
			addWatch(filepath.Dir(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				addWatch(path)
			}
			return nil
		})
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", root, err)
		}
	}
	return watcher, nil
}

const debounceDuration = 500 * time.Millisecond

// watch reloads the theme and content after each burst of changes and
// tells the live-reload clients. It returns when ctx is done.
func (s *Server) watch(ctx context.Context, watcher *fsnotify.Watcher) error {
	var lastReload time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if time.Since(lastReload) < debounceDuration {
				continue
			}
			// Let the editor finish writing.
			time.Sleep(100 * time.Millisecond)
			s.log.Info().Str("file", event.Name).Msg("change detected, reloading")
			if err := s.reload(); err != nil {
				s.log.Error().Err(err).Msg("reload failed")
			} else {
				s.hub.Broadcast([]byte("reload"))
			}
			lastReload = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// liveReloadWrapper disables caching and injects the reload script into
// full HTML pages. Fragments requested by htmx pass through untouched.
func liveReloadWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		if r.Method != http.MethodGet || isHTMX(r) {
			next.ServeHTTP(w, r)
			return
		}

		iw := newInterceptingWriter()
		next.ServeHTTP(iw, r)

		for key, values := range iw.Header() {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
		body := iw.body.Bytes()
		if iw.statusCode == http.StatusOK && strings.HasPrefix(iw.header.Get("Content-Type"), "text/html") {
			body = bytes.Replace(body, []byte("</body>"), []byte(liveReloadScript+"</body>"), 1)
		}
		w.Header().Set("Content-Length", fmt.Sprint(len(body)))
		w.WriteHeader(iw.statusCode)
		_, _ = w.Write(body)
	})
}

// interceptingWriter buffers a response so it can be rewritten.
type interceptingWriter struct {
	body       *bytes.Buffer
	statusCode int
	header     http.Header
}

func newInterceptingWriter() *interceptingWriter {
	return &interceptingWriter{
		body:       new(bytes.Buffer),
		header:     make(http.Header),
		statusCode: http.StatusOK,
	}
}

func (iw *interceptingWriter) Header() http.Header { return iw.header }

func (iw *interceptingWriter) Write(b []byte) (int, error) { return iw.body.Write(b) }

func (iw *interceptingWriter) WriteHeader(statusCode int) { iw.statusCode = statusCode }

const liveReloadScript = `
<script>
  (function() {
    var scheme = window.location.protocol === "https:" ? "wss://" : "ws://";
    var socket = new WebSocket(scheme + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection lost. Restart 'folio serve --watch'.");
    };
  })();
</script>
`
