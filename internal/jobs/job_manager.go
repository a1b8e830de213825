package jobs

import (
	"fmt"
	"log/slog"

	"pos/internal/core/application/actor"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	orderEvictionJob *OrderEvictionJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(registry *actor.Registry, logger *slog.Logger) *JobManager {
	return &JobManager{
		orderEvictionJob: NewOrderEvictionJob(registry, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.orderEvictionJob.Start(); err != nil {
		return fmt.Errorf("failed to start order eviction job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.orderEvictionJob.Stop()
}
