package http

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sitemapcmd "github.com/soygarfield/go-editorial/internal/commands/sitemap"
	"github.com/soygarfield/go-editorial/internal/logging"
	"github.com/soygarfield/go-editorial/internal/pages"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

// Config wires the server dependencies. Only Pages is required.
type Config struct {
	Pages    pages.Service
	SiteName string
	// SitemapPath is the file served at /sitemap.xml.
	SitemapPath string
	// Regenerate handles POST /hooks/sitemap; the route is disabled when nil
	// or when HookToken is empty.
	Regenerate command.Commander[sitemapcmd.GenerateCommand]
	HookToken  string
	Gatherer   prometheus.Gatherer
	Logger     interfaces.Logger
}

type server struct {
	cfg    Config
	logger interfaces.Logger
}

// NewRouter builds the chi router for cfg.
func NewRouter(cfg Config) chi.Router {
	s := &server{cfg: cfg, logger: cfg.Logger}
	if s.logger == nil {
		s.logger = logging.NoOp()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", s.home)
	r.Get("/article/{slug}", s.article)
	r.Get("/glosario/{slug}", s.glossary)
	if cfg.SitemapPath != "" {
		r.Get("/sitemap.xml", s.sitemap)
	}
	if cfg.Regenerate != nil && cfg.HookToken != "" {
		r.With(bearerAuth(cfg.HookToken)).Post("/hooks/sitemap", s.regenerate)
	}

	r.NotFound(s.notFound)
	return r
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) home(w http.ResponseWriter, r *http.Request) {
	page, err := s.cfg.Pages.Home(r.Context())
	if err != nil {
		s.writePageError(w, r, err)
		return
	}
	s.renderHTML(w, http.StatusOK, "home", homeView{Title: s.cfg.SiteName, Page: page})
}

func (s *server) article(w http.ResponseWriter, r *http.Request) {
	page, err := s.cfg.Pages.Article(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.writePageError(w, r, err)
		return
	}
	s.renderHTML(w, http.StatusOK, "article", page)
}

func (s *server) glossary(w http.ResponseWriter, r *http.Request) {
	page, err := s.cfg.Pages.Glossary(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.writePageError(w, r, err)
		return
	}
	s.renderHTML(w, http.StatusOK, "glossary", page)
}

func (s *server) sitemap(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.cfg.SitemapPath); err != nil {
		s.notFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	http.ServeFile(w, r, s.cfg.SitemapPath)
}

func (s *server) regenerate(w http.ResponseWriter, r *http.Request) {
	msg := sitemapcmd.GenerateCommand{
		Trigger:   sitemapcmd.TriggerHTTP,
		RequestID: middleware.GetReqID(r.Context()),
	}
	if err := s.cfg.Regenerate.Execute(r.Context(), msg); err != nil {
		status := http.StatusBadGateway
		if goerrors.IsCategory(err, goerrors.CategoryValidation) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": "sitemap_failed", "message": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "regenerated"})
}

func (s *server) notFound(w http.ResponseWriter, _ *http.Request) {
	s.renderHTML(w, http.StatusNotFound, "notfound", nil)
}

func (s *server) writePageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, pages.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	s.logger.Error("page render failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
}

func (s *server) renderHTML(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template execution failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			given := strings.TrimPrefix(auth, "Bearer ")
			if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
