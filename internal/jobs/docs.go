// Package jobs provides scheduled background tasks for the delivery state
// service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. OperatorAttentionJob - Runs every minute and logs a digest of how many
// deliveries are failed or pending operator action, so operators notice a
// growing backlog without polling the API.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(countDeliveriesInStatusHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The attention job logs query failures and keeps running; one failed tick
// does not stop the schedule.
package jobs
