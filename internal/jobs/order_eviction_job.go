package jobs

import (
	"context"
	"log/slog"

	"pos/internal/core/application/actor"

	"github.com/robfig/cron/v3"
)

// OrderEvictionJob periodically evicts idle order actors from the registry.
// Runs every minute; actors past the registry's idle TTL are stopped so cold
// orders do not hold goroutines and memory between services.
type OrderEvictionJob struct {
	registry *actor.Registry
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOrderEvictionJob creates a new job for evicting idle order actors.
func NewOrderEvictionJob(registry *actor.Registry, logger *slog.Logger) *OrderEvictionJob {
	return &OrderEvictionJob{
		registry: registry,
		cron:     cron.New(),
		logger:   logger.With("component", "order_eviction_job"),
	}
}

// Start begins the eviction job to run every minute.
func (j *OrderEvictionJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		if evicted := j.registry.EvictIdle(); evicted > 0 {
			j.logger.InfoContext(ctx, "Evicted idle order actors",
				"evicted", evicted,
				"resident", j.registry.ResidentCount())
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order eviction job started (running every minute)")
	return nil
}

// Stop stops the eviction job.
func (j *OrderEvictionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order eviction job stopped")
}
