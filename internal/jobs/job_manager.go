package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	operatorAttentionJob *OperatorAttentionJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(counter DeliveryCounter, logger *slog.Logger) *JobManager {
	return &JobManager{
		operatorAttentionJob: NewOperatorAttentionJob(counter, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.operatorAttentionJob.Start(); err != nil {
		return fmt.Errorf("failed to start operator attention job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.operatorAttentionJob.Stop()
}
