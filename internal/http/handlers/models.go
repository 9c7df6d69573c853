package handlers

import (
	"net/http"
	"time"
)

type modelResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// ListModels returns the active generation models clients may submit against.
func (a *App) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := a.Models.ListActive(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("list models failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not list models")
		return
	}
	out := make([]modelResponse, 0, len(models))
	for _, m := range models {
		out = append(out, modelResponse{
			ID:        m.ID,
			Name:      m.Name,
			Kind:      string(m.Kind),
			CreatedAt: m.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"models": out})
}
