package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"pos/internal/adapters/out/postgres/eventstore"
	"pos/internal/adapters/out/rabbitmq"
	"pos/internal/core/application/actor"
	"pos/internal/jobs"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	notifier   *rabbitmq.KitchenNotifier
	registry   *actor.Registry
	jobManager *jobs.JobManager
}

func NewCompositionRoot(configs Config, logger *slog.Logger) (*CompositionRoot, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		configs.DBHost, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBPort, configs.DBSslMode)

	// TranslateError maps driver duplicate-key errors to
	// gorm.ErrDuplicatedKey, which the event store relies on to detect
	// version conflicts.
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := eventstore.Migrate(gormDB); err != nil {
		return nil, fmt.Errorf("migrate event store: %w", err)
	}

	notifier, err := rabbitmq.NewKitchenNotifier(configs.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("connect kitchen notifier: %w", err)
	}

	opts := make([]actor.RegistryOption, 0, 1)
	if configs.ActorIdleTTL != "" {
		ttl, err := time.ParseDuration(configs.ActorIdleTTL)
		if err != nil {
			return nil, fmt.Errorf("parse ACTOR_IDLE_TTL: %w", err)
		}
		opts = append(opts, actor.WithIdleTTL(ttl))
	}

	store := eventstore.NewGormEventStore(gormDB)
	registry := actor.NewRegistry(store, notifier, logger, opts...)

	return &CompositionRoot{
		gormDB:     gormDB,
		notifier:   notifier,
		registry:   registry,
		jobManager: jobs.NewJobManager(registry, logger),
	}, nil
}

// Registry exposes the order actor registry for inbound adapters.
func (c *CompositionRoot) Registry() *actor.Registry {
	return c.registry
}

// JobManager exposes the scheduled jobs for lifecycle control.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}

// Shutdown stops jobs, drains resident actors and closes the broker.
func (c *CompositionRoot) Shutdown() {
	c.jobManager.StopAll()
	c.registry.Shutdown()
	c.notifier.Close()
}
