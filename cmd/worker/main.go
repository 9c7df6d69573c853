package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"meshforge/internal/adapter/repo"
	"meshforge/internal/executor"
	"meshforge/internal/infra"
	"meshforge/internal/queue"
	"meshforge/internal/storage"
	"meshforge/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	blob, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: storage setup failed")
	}

	consumer, err := queue.NewRabbitMQ(cfg.AMQPURL, cfg.QueueName, cfg.JobTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: queue connection failed")
	}
	defer consumer.Close()

	exec := executor.New(logger)
	exec.Register("sf3d-v1", &executor.SF3D{
		Command: cfg.SF3DCommand,
		Blob:    blob,
		Logger:  logger,
	})
	exec.Register("dreamfusion-sd", &executor.DreamFusion{
		Command: cfg.DreamFusionCommand,
		Logger:  logger,
	})

	jobs := repo.NewJobStore(pool)
	events := repo.NewEventStore(pool)

	monitor := &worker.StaleMonitor{
		Jobs:    jobs,
		Events:  events,
		Timeout: cfg.JobTimeout,
		Logger:  logger,
	}
	cronRunner, err := monitor.Start(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: monitor setup failed")
	}
	defer cronRunner.Stop()

	w := &worker.Worker{
		Jobs:        jobs,
		Events:      events,
		Queue:       consumer,
		Exec:        exec,
		Blob:        blob,
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
	}
	if err := w.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("worker: run failed")
	}
	logger.Info().Msg("worker stopped")
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
