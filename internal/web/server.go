// Package web implements the browser viewer: a small net/http server
// that renders the fleet view model through embedded HTML templates. The
// snapshot is reloaded on every request; when a reload fails the last
// good fleet stays up, marked as stale.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/ma3ke/mu/internal/errors"
	"github.com/ma3ke/mu/internal/logger"
	"github.com/ma3ke/mu/internal/snapshot"
	"github.com/ma3ke/mu/internal/view"
)

// DefaultListenAddr is where `mu web` serves unless overridden.
const DefaultListenAddr = "127.0.0.1:5172"

//go:embed templates/*.html
var templatesFS embed.FS

// Server serves the fleet dashboard over HTTP.
type Server struct {
	path string
	log  logger.Logger
	tmpl *template.Template

	mu   sync.Mutex
	last *view.Fleet
}

// pageData is what the templates render.
type pageData struct {
	Fleet *view.Fleet
	// Stale is set when the last reload failed and Fleet is old data.
	Stale bool
	Age   string
}

// NewServer creates a server reading the cluster snapshot at path.
func NewServer(path string, log logger.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrView,
			"Embedded templates don't parse", "")
	}
	if log == nil {
		log = logger.Default()
	}
	return &Server{path: path, log: log, tmpl: tmpl}, nil
}

// Handler returns the route table: the full page on / and the machine
// table partial on /machines.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		s.render(w, "index.html")
	})
	mux.HandleFunc("/machines", func(w http.ResponseWriter, r *http.Request) {
		s.render(w, "machines.html")
	})
	return mux
}

// ListenAndServe blocks serving the dashboard on addr.
func (s *Server) ListenAndServe(addr string) error {
	if addr == "" {
		addr = DefaultListenAddr
	}
	s.log.Info("Serving on http://%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) render(w http.ResponseWriter, name string) {
	data, ok := s.reload()
	if !ok {
		http.Error(w, "no snapshot data available yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("rendering %s: %v", name, err)
	}
}

// reload reads the snapshot fresh for this request. A read failure
// degrades to the previous fleet; only the very first request can end up
// with nothing to show.
func (s *Server) reload() (pageData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stale := false
	cluster, err := snapshot.Read(s.path)
	if err != nil {
		s.log.Warn("reading snapshot: %v", err)
		stale = true
	} else {
		fleet := view.BuildFleet(cluster)
		s.last = &fleet
	}

	if s.last == nil {
		return pageData{}, false
	}
	age := time.Since(time.Unix(int64(s.last.Timestamp), 0))
	return pageData{
		Fleet: s.last,
		Stale: stale,
		Age:   fmt.Sprintf("%.0f s ago", age.Seconds()),
	}, true
}
