// Package handler serves the generator page, the generation API and the
// document renderers.
package handler

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/mockpaper/internal/handler/views"
	"github.com/pavelanni/mockpaper/internal/metrics"
	"github.com/pavelanni/mockpaper/internal/model"
	"github.com/pavelanni/mockpaper/internal/ratelimit"
	"github.com/pavelanni/mockpaper/internal/store"
)

//go:embed static
var staticFS embed.FS

// DefaultGenerateTimeout bounds a single generation service call.
const DefaultGenerateTimeout = 60 * time.Second

// Completer sends a prompt to the generation service and returns its reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds handler settings.
type Config struct {
	GenerateTimeout time.Duration
	// AdminPasswordHash is a bcrypt hash. The admin routes are mounted only
	// when it is set.
	AdminPasswordHash []byte
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store   *store.Store
	llm     Completer
	limiter ratelimit.Limiter
	metrics *metrics.Metrics
	config  Config
	now     func() time.Time
}

// New creates a new Handler. s and m may be nil; generated papers are then
// not stored and no metrics are recorded.
func New(s *store.Store, l Completer, lim ratelimit.Limiter, m *metrics.Metrics, cfg Config) *Handler {
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = DefaultGenerateTimeout
	}
	return &Handler{
		store:   s,
		llm:     l,
		limiter: lim,
		metrics: m,
		config:  cfg,
		now:     time.Now,
	}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Use(h.observe)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", h.handleIndex)
	r.Get("/healthz", h.handleHealth)
	r.Post("/api/generate", h.handleGenerate)
	r.Post("/render/exam", h.handleRenderExam)
	r.Post("/render/markscheme", h.handleRenderMarkScheme)

	if len(h.config.AdminPasswordHash) > 0 {
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Get("/papers", h.handleAdminPapers)
			r.Get("/papers/{paperID}", h.handleAdminPaper)
			r.Get("/stats", h.handleAdminStats)
		})
	}
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.IndexPage(model.DefaultExamConfig()).Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
