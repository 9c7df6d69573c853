package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"meshforge/internal/http/handlers"
	"meshforge/internal/infra"
	"meshforge/internal/middleware"
)

func NewRouter(cfg *infra.Config, app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(strings.Split(cfg.AllowedOrigins, ",")),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))

		r.Route("/v1/jobs", func(r chi.Router) {
			r.Post("/", app.CreateJob)
			r.Get("/{job_id}", app.GetJob)
			r.Get("/{job_id}/download", app.DownloadJob)
		})
		r.Post("/v1/uploads", app.CreateUploadTicket)
		r.Get("/v1/models", app.ListModels)
	})

	return r
}
