package jobs

import (
	"fmt"

	"github.com/andrescamacho/starport-go/internal/application/common"
)

// JobManager coordinates the scheduled jobs of the daemon.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs []*FlushJob
}

// NewJobManager creates the journal flush jobs: ledger transactions and delivery records.
// schedule is a cron spec with seconds, e.g. "*/5 * * * * *".
func NewJobManager(mediator common.Mediator, schedule string, logger common.Logger) *JobManager {
	return &JobManager{
		jobs: []*FlushJob{
			NewTransactionFlushJob(mediator, schedule, logger),
			NewDeliveryFlushJob(mediator, schedule, logger),
		},
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start; jobs already started are stopped again.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", job.name, err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully
func (jm *JobManager) StopAll() {
	for _, job := range jm.jobs {
		job.Stop()
	}
}

// RunAll runs every job once, synchronously. Used on shutdown so nothing stays unpersisted.
func (jm *JobManager) RunAll() {
	for _, job := range jm.jobs {
		job.run()
	}
}
