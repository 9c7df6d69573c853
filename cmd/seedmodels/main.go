package main

import (
	"context"

	"github.com/joho/godotenv"

	"meshforge/internal/adapter/repo"
	"meshforge/internal/domain"
	"meshforge/internal/infra"
)

// seedmodels registers the built-in generation models. Safe to re-run.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "seedmodels")

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("seedmodels: db connection failed")
	}
	defer pool.Close()

	models := repo.NewModelStore(pool)
	seed := []domain.GenerationModel{
		{ID: "sf3d-v1", Name: "Stable Fast 3D", Kind: domain.ModelImageTo3D, Active: true},
		{ID: "dreamfusion-sd", Name: "DreamFusion (Stable Diffusion)", Kind: domain.ModelTextTo3D, Active: true},
	}
	for i := range seed {
		if err := models.Upsert(ctx, &seed[i]); err != nil {
			logger.Fatal().Err(err).Str("model_id", seed[i].ID).Msg("seedmodels: upsert failed")
		}
		logger.Info().Str("model_id", seed[i].ID).Msg("seedmodels: model registered")
	}
}
