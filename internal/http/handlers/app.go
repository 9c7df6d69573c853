package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"meshforge/internal/domain"
	"meshforge/internal/infra/geoip"
	"meshforge/internal/middleware"
	"meshforge/internal/queue"
	"meshforge/internal/storage"
)

// App bundles the handler dependencies. One instance serves all routes.
type App struct {
	Jobs          domain.JobStore
	Models        domain.ModelStore
	Events        domain.EventStore
	Queue         queue.Publisher
	Blob          storage.BlobStore
	GeoIP         geoip.CountryResolver
	Logger        zerolog.Logger
	Validate      *validator.Validate
	PresignExpiry time.Duration
}

func NewApp(
	jobs domain.JobStore,
	models domain.ModelStore,
	events domain.EventStore,
	publisher queue.Publisher,
	blob storage.BlobStore,
	resolver geoip.CountryResolver,
	logger zerolog.Logger,
	presignExpiry time.Duration,
) *App {
	return &App{
		Jobs:          jobs,
		Models:        models,
		Events:        events,
		Queue:         publisher,
		Blob:          blob,
		GeoIP:         resolver,
		Logger:        logger,
		Validate:      validator.New(),
		PresignExpiry: presignExpiry,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"code": code, "message": message})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
