package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hsglabs/launchcopy-backend/api/controllers"
	webhookcontrollers "github.com/hsglabs/launchcopy-backend/api/controllers/webhooks"
	"github.com/hsglabs/launchcopy-backend/api/middleware"
	"github.com/hsglabs/launchcopy-backend/internal/auth"
	"github.com/hsglabs/launchcopy-backend/internal/generation"
	stripewebhook "github.com/hsglabs/launchcopy-backend/internal/webhooks/stripe"
	"github.com/hsglabs/launchcopy-backend/pkg/auth/session"
	"github.com/hsglabs/launchcopy-backend/pkg/config"
	"github.com/hsglabs/launchcopy-backend/pkg/db"
	"github.com/hsglabs/launchcopy-backend/pkg/logger"
	"github.com/hsglabs/launchcopy-backend/pkg/redis"
	"github.com/hsglabs/launchcopy-backend/pkg/stripe"
)

type sessionManager interface {
	session.AccessSessionChecker
	Revoke(context.Context, string) error
}

type RouterParams struct {
	Config               *config.Config
	Logger               *logger.Logger
	DB                   db.Pinger
	Redis                *redis.Client
	SessionManager       sessionManager
	AuthService          auth.Service
	RegisterService      auth.RegisterService
	GenerationService    generation.Service
	StripeClient         *stripe.Client
	StripeWebhookService *stripewebhook.Service
	StripeWebhookGuard   *stripewebhook.IdempotencyGuard
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(),
		middleware.SecurityHeaders(cfg.CSP),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, params.DB, params.Redis, logg))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.With(middleware.AuthRateLimit(registerPolicy, params.Redis, logg)).
		Post("/register", controllers.Register(params.RegisterService, logg))
	r.With(middleware.AuthRateLimit(loginPolicy, params.Redis, logg)).
		Post("/login", controllers.Login(params.AuthService, logg))
	r.Post("/logout", controllers.Logout(params.SessionManager, cfg.JWT, logg))

	r.Post("/billing", webhookcontrollers.StripeWebhook(params.StripeWebhookService, params.StripeClient, params.StripeWebhookGuard, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, params.SessionManager, logg))
		r.Get("/status", controllers.Status(logg))
		r.Post("/generate", controllers.Generate(params.GenerationService, logg))
	})

	return r
}
