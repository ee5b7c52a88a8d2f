// Package httpapi exposes the identity operations over HTTP and provides the
// authentication and role-gate middleware other subsystems mount.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/talentbridge/internal/logging"
	"github.com/dmitrijs2005/talentbridge/internal/server/models"
	"github.com/dmitrijs2005/talentbridge/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UserService is the subset of services.UserService the handlers use.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	VerifyOTP(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type Server struct {
	users    UserService
	cookie   CookieConfig
	metrics  *Metrics
	gatherer prometheus.Gatherer
	logger   logging.Logger
}

// NewServer builds the HTTP API. reg receives the auth event counters and
// is served on /metrics.
func NewServer(users UserService, cookie CookieConfig, reg *prometheus.Registry, logger logging.Logger) *Server {
	return &Server{
		users:    users,
		cookie:   cookie,
		metrics:  NewMetrics(reg),
		gatherer: reg,
		logger:   logger.With("module", "http"),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/verify-otp", s.handleVerifyOTP)
		r.Post("/resend-otp", s.handleResendOTP)
		r.Post("/login", s.handleLogin)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/reset-password", s.handleResetPassword)

		r.With(s.Authenticate).Post("/logout", s.handleLogout)
		r.With(s.Authenticate).Get("/current-user", s.handleCurrentUser)
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.With(s.Authenticate, RequireRoles(models.RoleAdmin)).Get("/ping", s.handlePing)
	})
	r.Route("/api/v1/manager", func(r chi.Router) {
		r.With(s.Authenticate, RequireRoles(models.RoleManager, models.RoleAdmin)).Get("/ping", s.handlePing)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
