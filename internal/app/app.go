// Package app holds the fx providers shared by the HTTP server and the
// import worker.
package app

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/septivank/babybeat/internal/aggregation"
	"github.com/septivank/babybeat/internal/config"
	"github.com/septivank/babybeat/internal/db"
	"github.com/septivank/babybeat/internal/logging"
	"github.com/septivank/babybeat/internal/repository"
	"github.com/septivank/babybeat/internal/service"
	"github.com/septivank/babybeat/internal/storage/memory"
	"github.com/septivank/babybeat/internal/validator"
)

// Core provides configuration, logging, the event store and the event service
var Core = fx.Options(
	fx.Provide(
		config.Load,
		NewLogger,
		ProvideEventStore,
		ProvideValidator,
		ProvideEngine,
		ProvideEventService,
	),
)

// NewLogger creates the service logger from configuration
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.ServiceName, cfg.LogLevel)
}

// ProvideEventStore creates the event store selected by STORAGE_BACKEND
func ProvideEventStore(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (service.EventStore, error) {
	switch cfg.Database.Backend {
	case config.BackendPostgres:
		pool, err := db.NewPool(lc, logger, cfg.Database)
		if err != nil {
			return nil, err
		}
		return repository.NewRepository(pool), nil
	case config.BackendMemory:
		logger.Warn("using in-memory event store, events are lost on restart")
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Database.Backend)
	}
}

// ProvideValidator creates a new validator instance
func ProvideValidator() *validator.Validator {
	return validator.NewValidator()
}

// ProvideEngine creates the aggregation engine cutting weeks in the
// configured time zone
func ProvideEngine(store service.EventStore, cfg *config.Config) (*aggregation.Engine, error) {
	loc, err := cfg.Events.Location()
	if err != nil {
		return nil, err
	}
	return aggregation.NewEngine(store, loc), nil
}

// ProvideEventService creates a new event service instance
func ProvideEventService(
	store service.EventStore,
	validator *validator.Validator,
	engine *aggregation.Engine,
	cfg *config.Config,
	logger *zap.Logger,
) *service.EventService {
	return service.NewEventService(store, validator, engine, cfg.Events.DefaultLimit, logger)
}
