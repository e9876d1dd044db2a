// Package web serves the checklist as server-rendered HTML plus a small JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"atomic-checklist/internal/checklist"

	"github.com/CAFxX/httpcompression"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Config struct {
	Addr string
	// AllowAllOrigins opens CORS to any origin; otherwise only localhost.
	AllowAllOrigins bool
	Title           string
	Logger          *log.Logger
	Now             func() time.Time
}

// Server serializes every controller access behind mu.
type Server struct {
	mu  sync.Mutex
	ctl *checklist.Controller

	cfg       Config
	log       *log.Logger
	page      *template.Template
	reset     *template.Template
	summaries []template.HTML
	handler   http.Handler
}

func New(cfg Config, ctl *checklist.Controller) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if ctl == nil {
		return nil, errors.New("web: controller is nil")
	}
	if strings.TrimSpace(cfg.Title) == "" {
		cfg.Title = "Atomic Checklist"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	reset, err := template.New("reset").Parse(resetTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse reset template: %w", err)
	}

	s := &Server{ctl: ctl, cfg: cfg, log: logger, page: page, reset: reset}

	// Summaries are static; render them once.
	for _, ch := range ctl.Document().Chapters {
		html, err := renderMarkdownHTML(ch.Summary)
		if err != nil {
			logger.Warn("chapter summary render failed", "chapter", ch.Title, "err", err)
		}
		s.summaries = append(s.summaries, html)
	}

	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		return nil, fmt.Errorf("compression adapter: %w", err)
	}
	s.handler = compress(s.buildRouter())
	return s, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", s.handleHealth)

	r.Get("/", s.handleHome)
	r.Get("/reset", s.handleResetGet)
	r.Group(func(r chi.Router) {
		r.Use(sameOrigin)
		r.Post("/items/toggle", s.handleToggleForm)
		r.Post("/reset", s.handleResetPost)
	})
	r.Get("/export", s.handleExportDownload)

	r.Route("/api", func(r chi.Router) {
		r.Get("/progress", s.handleAPIProgress)
		r.Delete("/progress", s.handleAPIReset)
		r.Put("/items/{key}", s.handleAPISetItem)
		r.Get("/export", s.handleAPIExport)
	})
	return r
}

// sameOrigin rejects browser form posts whose Origin or Referer names another
// host. Requests carrying neither header pass, so scripted clients still work.
func sameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		src := r.Header.Get("Origin")
		if src == "" {
			src = r.Header.Get("Referer")
		}
		if src != "" {
			u, err := url.Parse(src)
			if err != nil || !strings.EqualFold(u.Host, r.Host) {
				http.Error(w, "cross-origin form post rejected", http.StatusForbidden)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("web server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("web: shutdown: %w", err)
		}
		return nil
	}
}
