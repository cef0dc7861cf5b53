package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velvethq/velvet-backend/api/controllers"
	"github.com/velvethq/velvet-backend/api/middleware"
	"github.com/velvethq/velvet-backend/internal/closeout"
	"github.com/velvethq/velvet-backend/pkg/config"
	"github.com/velvethq/velvet-backend/pkg/enums"
	"github.com/velvethq/velvet-backend/pkg/logger"
	pkgredis "github.com/velvethq/velvet-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	closeoutService closeout.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbClient, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/events/{eventId}/closeout", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg,
				enums.ActorRoleAdmin.String(),
				enums.ActorRoleVenueManager.String(),
			))
			r.Post("/", controllers.ApplyCloseout(closeoutService, logg))
			r.Post("/reconcile", controllers.ReconcileCloseout(closeoutService, logg))
			r.Post("/payouts/preview", controllers.PreviewCloseoutPayouts(closeoutService, logg))
		})
	})

	return r
}
