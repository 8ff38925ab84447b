// Package server provides the template playground: an HTTP server that
// parses, binds, and renders message templates on demand, lists the loaded
// catalog, and pushes catalog-reload notifications to websocket clients.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/conneroisu/mtempl/internal/cache"
	"github.com/conneroisu/mtempl/internal/capture"
	"github.com/conneroisu/mtempl/internal/catalog"
	"github.com/conneroisu/mtempl/internal/config"
	mterrors "github.com/conneroisu/mtempl/internal/errors"
	"github.com/conneroisu/mtempl/internal/format"
	"github.com/conneroisu/mtempl/internal/logging"
	"github.com/conneroisu/mtempl/internal/render"
)

// Server is the playground HTTP server.
type Server struct {
	cfg       *config.Config
	store     *cache.Store
	formatter *format.Formatter
	logger    logging.Logger
	hub       *hub

	catalogMu sync.RWMutex
	catalog   *catalog.Catalog

	httpServer *http.Server
}

// New creates a playground server. The catalog may be nil when no catalog
// paths are configured.
func New(cfg *config.Config, store *cache.Store, cat *catalog.Catalog, logger logging.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		formatter: format.ForLocale(cfg.Render.Locale),
		logger:    logger.WithComponent("server"),
		catalog:   cat,
		hub:       newHub(logger.WithComponent("websocket")),
	}
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /api/templates", s.handleTemplates)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.hub.run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "playground listening", "addr", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// ReloadCatalog replaces the served catalog and notifies websocket clients.
// It is wired as a watcher change handler.
func (s *Server) ReloadCatalog() error {
	cat, err := catalog.LoadPaths(s.cfg.Catalog.Paths, s.cfg.Catalog.ExcludePatterns, s.store)
	if err != nil {
		return fmt.Errorf("reloading catalog: %w", err)
	}
	s.catalogMu.Lock()
	s.catalog = cat
	s.catalogMu.Unlock()

	s.logger.Info(context.Background(), "catalog reloaded",
		"templates", cat.Len(), "invalid", len(cat.Invalid().Errors()))
	s.hub.broadcast(reloadMessage{Type: "catalog_reloaded", Templates: cat.Len()})
	return nil
}

func (s *Server) currentCatalog() *catalog.Catalog {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	return s.catalog
}

// renderRequest is the POST /api/render body. Exactly one of Template and
// Name must be set; Name looks the template up in the catalog.
type renderRequest struct {
	Template string `json:"template,omitempty"`
	Name     string `json:"name,omitempty"`
	Args     []any  `json:"args"`
	Locale   string `json:"locale,omitempty"`
}

// renderResponse is the POST /api/render reply.
type renderResponse struct {
	Rendered   string          `json:"rendered"`
	Mode       string          `json:"mode"`
	Event      json.RawMessage `json:"event"`
	Error      string          `json:"error,omitempty"`
	Suggestion string          `json:"suggestion,omitempty"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	raw := req.Template
	if req.Name != "" {
		cat := s.currentCatalog()
		if cat == nil {
			http.Error(w, "no catalog loaded", http.StatusNotFound)
			return
		}
		entry, ok := cat.Get(req.Name)
		if !ok {
			http.Error(w, "unknown template name: "+req.Name, http.StatusNotFound)
			return
		}
		raw = entry.Raw
	}

	tmpl, err := s.store.GetOrParse(raw)
	if err != nil {
		resp := renderResponse{Error: err.Error()}
		var ge *mterrors.GrammarError
		if errors.As(err, &ge) {
			resp.Suggestion = ge.Suggestion()
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	formatter := s.formatter
	if req.Locale != "" {
		formatter = format.ForLocale(req.Locale)
	}

	event := capture.Bind(tmpl, req.Args...)
	rendered := render.RenderWith(event, formatter.Format, s.renderOptions())

	eventJSON, err := json.Marshal(event)
	if err != nil {
		// Unmarshalable argument values (e.g. channels) degrade to the
		// template-only event shape rather than failing the render.
		eventJSON, _ = json.Marshal(map[string]string{"template": tmpl.Raw()})
	}
	writeJSON(w, http.StatusOK, renderResponse{
		Rendered: rendered,
		Mode:     tmpl.Mode().String(),
		Event:    eventJSON,
	})
}

func (s *Server) renderOptions() render.Options {
	opts := render.Options{}
	if s.cfg.Render.UnboundPolicy == "sentinel" {
		opts.Unbound = render.UnboundSentinel
		opts.Sentinel = s.cfg.Render.Sentinel
	}
	return opts
}

// templateInfo is one catalog entry in the GET /api/templates reply.
type templateInfo struct {
	Name       string `json:"name"`
	Raw        string `json:"raw"`
	File       string `json:"file"`
	Mode       string `json:"mode,omitempty"`
	Holes      int    `json:"holes"`
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	cat := s.currentCatalog()
	if cat == nil {
		writeJSON(w, http.StatusOK, []templateInfo{})
		return
	}
	infos := make([]templateInfo, 0, cat.Len())
	for _, entry := range cat.Entries() {
		info := templateInfo{
			Name:  entry.Name,
			Raw:   entry.Raw,
			File:  entry.File,
			Valid: entry.Valid(),
		}
		if entry.Valid() {
			info.Mode = entry.Template.Mode().String()
			info.Holes = len(entry.Template.Properties())
		} else {
			info.Error = entry.Err.Error()
			info.Suggestion = entry.Err.Suggestion()
		}
		infos = append(infos, info)
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	hits, misses := s.store.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"cache_size":   s.store.Len(),
		"cache_hits":   hits,
		"cache_misses": misses,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
