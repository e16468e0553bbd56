// Package server serves rendered module help pages over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yaklabco/gomdhelp/internal/logging"
	"github.com/yaklabco/gomdhelp/pkg/config"
	"github.com/yaklabco/gomdhelp/pkg/modules"
	"github.com/yaklabco/gomdhelp/pkg/readme"
)

const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
)

// Renderer converts a module README into a page.
type Renderer interface {
	ConvertFile(ctx context.Context, req readme.Request) (*readme.Page, error)
}

// TopicLister lists the modules offering help.
type TopicLister interface {
	Topics() []modules.Module
}

// Options configures a Server.
type Options struct {
	// Addr is the listen address.
	Addr string

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// Language is used when a request does not carry a lang parameter.
	Language string

	Logger *log.Logger
}

// Server is the help page HTTP server.
type Server struct {
	renderer Renderer
	topics   TopicLister
	opts     Options
	logger   *log.Logger
	router   chi.Router
}

// New builds a server. Zero option fields take the config defaults.
func New(renderer Renderer, topics TopicLister, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = config.DefaultServerAddr
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = config.DefaultShutdownTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	s := &Server{
		renderer: renderer,
		topics:   topics,
		opts:     opts,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/topics", s.handleTopicsJSON)

	r.Route("/help", func(r chi.Router) {
		r.Get("/", s.handleIndex)
		r.Get("/{name}", s.handlePage)
	})

	return r
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		BaseContext: func(net.Listener) context.Context {
			return logging.WithLogger(context.WithoutCancel(ctx), s.logger)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", logging.FieldAddr, ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := s.logger.With(logging.FieldRequestID, middleware.GetReqID(r.Context()))
		next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), logger)))

		logger.Info("request",
			logging.FieldMethod, r.Method,
			logging.FieldPath, r.URL.Path,
			logging.FieldStatus, ww.Status(),
			logging.FieldBytes, ww.BytesWritten(),
			logging.FieldDuration, time.Since(start),
		)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var topics []modules.Module
	if s.topics != nil {
		topics = s.topics.Topics()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, topics); err != nil {
		logging.FromContext(r.Context()).Error("render index", logging.FieldError, err)
	}
}

func (s *Server) handleTopicsJSON(w http.ResponseWriter, _ *http.Request) {
	topics := []modules.Module{}
	if s.topics != nil {
		topics = append(topics, s.topics.Topics()...)
	}
	writeJSON(w, http.StatusOK, topics)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = s.opts.Language
	}

	page, err := s.renderer.ConvertFile(r.Context(), readme.Request{
		Module:   name,
		Host:     requestHost(r),
		Language: lang,
	})
	switch {
	case errors.Is(err, readme.ErrUnknownModule):
		http.Error(w, "unknown module", http.StatusNotFound)
		return
	case err != nil:
		logging.FromContext(r.Context()).Error("render page",
			logging.FieldModule, name,
			logging.FieldError, err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if !page.ModTime.IsZero() {
		w.Header().Set("Last-Modified", page.ModTime.UTC().Format(http.TimeFormat))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, pageData{
		Title: name,
		Body:  template.HTML(page.Markup), //nolint:gosec // Markup is sanitized by the converter.
	}); err != nil {
		logging.FromContext(r.Context()).Error("render page", logging.FieldError, err)
	}
}

// requestHost returns scheme://host for r, honouring X-Forwarded-Proto.
func requestHost(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	return scheme + "://" + strings.TrimSuffix(r.Host, "/")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
