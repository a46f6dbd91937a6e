package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozyhq/kozy-review-backend/api/controllers"
	"github.com/kozyhq/kozy-review-backend/api/middleware"
	"github.com/kozyhq/kozy-review-backend/internal/comments"
	"github.com/kozyhq/kozy-review-backend/internal/projects"
	"github.com/kozyhq/kozy-review-backend/pkg/config"
	"github.com/kozyhq/kozy-review-backend/pkg/logger"
	"github.com/kozyhq/kozy-review-backend/pkg/redis"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	DBPinger    controllers.Pinger
	StorePinger controllers.Pinger
	Projects    projects.Service
	Comments    comments.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// a typed nil *redis.Client must not reach the Pinger interface
	var redisPinger controllers.Pinger
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}

	resolvePolicy := middleware.NewResolveRateLimitPolicy(
		cfg.ResolveRateLimit.Window,
		cfg.ResolveRateLimit.IPLimit,
		cfg.ResolveRateLimit.TokenLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, redisPinger, deps.StorePinger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/projects", controllers.ProjectCreate(deps.Projects, cfg.Media.MaxUploadMB, logg))
		r.Delete("/projects/current", controllers.ProjectDeactivate(deps.Projects, logg))

		r.Route("/review", func(r chi.Router) {
			r.Use(middleware.ResolveRateLimit(resolvePolicy, deps.Redis, logg))

			r.Get("/", controllers.ReviewResolve(deps.Projects, logg))
			r.Get("/artifact", controllers.ReviewArtifact(deps.Projects, logg))
			r.Post("/complete", controllers.ReviewComplete(deps.Projects, deps.Comments, logg))

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", controllers.CommentsList(deps.Projects, deps.Comments, logg))
				r.Post("/", controllers.CommentAdd(deps.Projects, deps.Comments, logg))
				r.Post("/{commentId}/toggle", controllers.CommentToggle(deps.Projects, deps.Comments, logg))
				r.Delete("/{commentId}", controllers.CommentDelete(deps.Projects, deps.Comments, logg))
			})
		})
	})

	return r
}
