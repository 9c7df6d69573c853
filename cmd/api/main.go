package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"meshforge/internal/adapter/repo"
	"meshforge/internal/http/handlers"
	"meshforge/internal/http/httpapi"
	"meshforge/internal/infra"
	"meshforge/internal/infra/geoip"
	"meshforge/internal/queue"
	"meshforge/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: db connection failed")
	}
	defer pool.Close()

	blob, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: storage setup failed")
	}

	publisher, err := queue.NewRabbitMQ(cfg.AMQPURL, cfg.QueueName, cfg.JobTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: queue connection failed")
	}
	defer publisher.Close()

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("api: geoip disabled")
	}
	if resolver != nil {
		defer resolver.Close()
	}

	app := handlers.NewApp(
		repo.NewJobStore(pool),
		repo.NewModelStore(pool),
		repo.NewEventStore(pool),
		publisher,
		blob,
		resolver,
		logger,
		cfg.PresignExpiry,
	)
	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(cfg, app))

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func newBlobStore(ctx context.Context, cfg *infra.Config) (storage.BlobStore, error) {
	if cfg.StorageDriver == "filesystem" {
		return storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	}
	return storage.NewMinioStore(ctx, storage.MinioOptions{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		Secure:    cfg.MinioSecure,
	})
}
