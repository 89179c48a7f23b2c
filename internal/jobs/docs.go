// Package jobs provides scheduled background tasks for the order portal.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the portal.
//
// # Available Jobs
//
// 1. StaleOrderReminderJob - Runs hourly to emit reminder events for orders
// sitting in a non-terminal status longer than the configured age
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(staleOrdersHandler, publisher, engine, staleAge, logger)
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
// Reminder emission is best effort: a failed run logs the error and the
// next run retries from scratch. Failed job starts will stop any already
// running jobs.
package jobs
