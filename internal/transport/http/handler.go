// Package httptransport exposes the engine over a JSON API. Handlers decode
// and validate input, call one engine operation and encode its result; no
// custody logic lives here.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"keywatch/internal/engine"
	"keywatch/internal/engine/command"
	"keywatch/internal/menu"
	"keywatch/internal/platform/metrics"
	"keywatch/internal/platform/middleware"
	"keywatch/internal/presence/models"
	id "keywatch/pkg/domain"
	"keywatch/pkg/platform/httputil"
	"keywatch/pkg/platform/middleware/requesttime"
)

// EngineService is the subset of the engine the API drives.
type EngineService interface {
	Register(ctx context.Context, memberID id.MemberID, displayName string) (models.Member, bool)
	OnPresenceReport(ctx context.Context, memberID id.MemberID, displayNameIfNew string, loc id.Location) (engine.PresenceResult, error)
	OnRoomVacated(ctx context.Context, memberID id.MemberID, loc id.Location) (engine.PresenceResult, error)
	SetNotifications(ctx context.Context, memberID id.MemberID, enabled bool) error
	OnConfirmationAnswer(ctx context.Context, memberID id.MemberID, keyID id.KeyID, yes bool, confirmationID id.ConfirmationID) (engine.AnswerResult, error)
	OnKeyStatusQuery(ctx context.Context, memberID id.MemberID, keyID id.KeyID) (engine.KeyQueryResult, error)
	Execute(ctx context.Context, cmd command.Command) (engine.Result, error)
	OnDailyReset(ctx context.Context) engine.ResetResult
	QueryStatus(ctx context.Context) engine.Status
	Roster(ctx context.Context) string
	MenuState(ctx context.Context, memberID id.MemberID) (menu.State, error)
	Menu(ctx context.Context, memberID id.MemberID) (menu.Variant, error)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	engine   EngineService
	logger   *slog.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	checks   map[string]HealthCheck
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(h *Handler) {
		h.metrics = m
		h.gatherer = gatherer
	}
}

// WithHealthCheck adds a named dependency check to /healthz.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *Handler) {
		h.checks[name] = check
	}
}

func New(eng EngineService, opts ...Option) *Handler {
	h := &Handler{
		engine:   eng,
		logger:   slog.Default(),
		gatherer: prometheus.DefaultGatherer,
		checks:   map[string]HealthCheck{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router builds the chi router with the shared middleware stack.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestContext)
	r.Use(requesttime.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Latency(h.metrics))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	h.Register(r)
	return r
}

// Register mounts the API routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/members", func(r chi.Router) {
		r.Post("/", h.handleRegister)
		r.Post("/{id}/presence", h.handlePresence)
		r.Post("/{id}/notifications", h.handleNotifications)
		r.Post("/{id}/vacate", h.handleVacate)
		r.Get("/{id}/menu", h.handleMenu)
	})
	r.Route("/keys/{key}", func(r chi.Router) {
		r.Post("/confirmation", h.handleConfirmation)
		r.Post("/query", h.handleKeyQuery)
	})
	r.Post("/commands", h.handleCommand)
	r.Get("/status", h.handleStatus)
	r.Get("/status/roster", h.handleRoster)
	r.Post("/admin/reset", h.handleReset)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	for name, check := range h.checks {
		if err := check(r.Context()); err != nil {
			h.logger.WarnContext(r.Context(), "health check failed", "check", name, "error", err)
			status[name] = "unavailable"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "ok"
	}
	httputil.WriteJSON(w, code, status)
}

func memberParam(r *http.Request) (id.MemberID, error) {
	return id.ParseMemberID(chi.URLParam(r, "id"))
}
