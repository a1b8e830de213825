// Package jobs provides scheduled background tasks for the point-of-sale
// service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic maintenance that the request path should not pay for.
//
// # Available Jobs
//
// 1. OrderEvictionJob - Runs every minute to stop order actors that have
// been idle past the registry's TTL
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with the actor registry
//	jobManager := jobs.NewJobManager(registry, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Eviction is best effort: an evicted actor is rebuilt from its event log
// on the next command, so a missed tick only delays reclamation.
package jobs
