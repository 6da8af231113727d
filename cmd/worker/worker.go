package main

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/septivank/babybeat/internal/config"
	"github.com/septivank/babybeat/internal/mq"
	"github.com/septivank/babybeat/internal/service"
)

func startWorker(
	lc fx.Lifecycle,
	conn *mq.Connection,
	cfg *config.Config,
	logger *zap.Logger,
	importer *service.ImportService,
) (*mq.Consumer, error) {
	// Create context for consumer that will be cancelled on shutdown
	ctx, cancel := context.WithCancel(context.Background())

	consumer, err := mq.NewConsumer(conn, cfg.RabbitMQ, logger, importer.ProcessMessage)
	if err != nil {
		cancel()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			logger.Info("starting import consumer",
				zap.String("queue", cfg.RabbitMQ.ImportQueue),
				zap.String("dlq", cfg.RabbitMQ.DLQQueue),
				zap.Int("prefetch", cfg.RabbitMQ.PrefetchCount))
			return consumer.Start(ctx)
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			if err := consumer.Close(); err != nil {
				logger.Error("failed to close consumer", zap.Error(err))
				return err
			}
			logger.Info("worker stopped gracefully")
			return nil
		},
	})

	return consumer, nil
}

// ProvideImportService creates a new import service instance
func ProvideImportService(events *service.EventService, logger *zap.Logger) *service.ImportService {
	return service.NewImportService(events, logger)
}

// ProvideMQConnection creates a new RabbitMQ connection instance
func ProvideMQConnection(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (*mq.Connection, error) {
	if err := cfg.RequireRabbitMQ(); err != nil {
		return nil, err
	}
	return mq.NewConnection(lc, logger, cfg.RabbitMQ)
}
