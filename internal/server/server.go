// Package server exposes the assessment pipeline as a JSON API for
// the browser UI.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/BobbyForshell/time-span-estimator/internal/catalog"
	"github.com/BobbyForshell/time-span-estimator/internal/config"
	"github.com/BobbyForshell/time-span-estimator/internal/i18n"
	"github.com/BobbyForshell/time-span-estimator/internal/session"
)

// Server wires the question bank, text catalog, and session store
// behind the HTTP API.
type Server struct {
	cfg      *config.Config
	sessions *session.Store
	texts    *i18n.Catalog
	router   *chi.Mux
}

// New creates the API server.
func New(cfg *config.Config, sessions *session.Store, texts *i18n.Catalog) *Server {
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		texts:    texts,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/languages", s.handleLanguages)
		r.Get("/purposes", s.handlePurposes)
		r.Get("/questions", s.handleQuestions)
		r.Post("/score", s.handleScore)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/answers", s.handleAnswer)
				r.Post("/restart", s.handleRestart)
				r.Get("/result", s.handleResult)
				r.Get("/export", s.handleExport)
			})
		})
	})

	s.router = r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// lang normalizes the requested locale: empty or unknown codes fall
// back to the configured default.
func (s *Server) lang(r *http.Request) string {
	code := r.URL.Query().Get("lang")
	if code == "" || !s.texts.Supported(code) {
		return s.cfg.DefaultLanguage
	}
	return code
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, error, message string) {
	writeJSON(w, status, apiError{Error: error, Message: message})
}

// Start loads configuration and runs the HTTP server.
func Start() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	texts, err := i18n.Load()
	if err != nil {
		return err
	}
	// Surface a broken embedded question bank at startup, not on the
	// first request.
	if _, err := catalog.Load(); err != nil {
		return err
	}

	sessions := session.NewStore(cfg.Session.TTL)
	go sweepLoop(sessions, cfg.Session.SweepInterval)

	srv := New(cfg, sessions, texts)
	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	slog.Info("listening", "addr", cfg.Addr(), "questions", catalog.Count())
	return httpServer.ListenAndServe()
}

func sweepLoop(sessions *session.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if n := sessions.Sweep(time.Now()); n > 0 {
			slog.Info("idle sessions removed", "count", n)
		}
	}
}
