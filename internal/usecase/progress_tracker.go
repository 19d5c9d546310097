package usecase

import (
	"sync"
	"time"

	"aerofare-service/internal/domain/entity"
)

// How long a terminal job entry stays pollable before removal.
const progressRetention = 5 * time.Minute

// ProgressTracker is the process-wide registry of live bulk-job
// progress. A single mutex guards all reads and writes; updates are
// frequent and small.
type ProgressTracker struct {
	mu        sync.Mutex
	jobs      map[string]entity.JobProgress
	retention time.Duration
}

// NewProgressTracker creates an empty tracker
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		jobs:      make(map[string]entity.JobProgress),
		retention: progressRetention,
	}
}

// Set stores the progress snapshot for a job
func (t *ProgressTracker) Set(progress entity.JobProgress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[progress.JobID] = progress
}

// Get returns a copy of the job's progress and whether it exists
func (t *ProgressTracker) Get(jobID string) (entity.JobProgress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	progress, ok := t.jobs[jobID]
	return progress, ok
}

// ScheduleCleanup removes the job after the retention window. The
// removal is delayed, not synchronous, so a final poll after the job
// ends still observes the terminal state.
func (t *ProgressTracker) ScheduleCleanup(jobID string) {
	time.AfterFunc(t.retention, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.jobs, jobID)
	})
}
