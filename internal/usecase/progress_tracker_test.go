package usecase

import (
	"sync"
	"testing"
	"time"

	"aerofare-service/internal/domain/entity"
)

func TestProgressTrackerSetGet(t *testing.T) {
	tracker := NewProgressTracker()

	if _, ok := tracker.Get("missing"); ok {
		t.Fatalf("Get on unknown job must report not found")
	}

	tracker.Set(entity.JobProgress{JobID: "job-1", Status: entity.JobRunning, Progress: 25})

	got, ok := tracker.Get("job-1")
	if !ok {
		t.Fatalf("job not found after Set")
	}
	if got.Status != entity.JobRunning || got.Progress != 25 {
		t.Errorf("got %+v, want RUNNING at 25%%", got)
	}
}

func TestProgressTrackerDelayedCleanup(t *testing.T) {
	tracker := NewProgressTracker()
	tracker.retention = 20 * time.Millisecond

	tracker.Set(entity.JobProgress{JobID: "job-1", Status: entity.JobCompleted, Progress: 100})
	tracker.ScheduleCleanup("job-1")

	// A final poll right after completion still observes the terminal
	// state.
	got, ok := tracker.Get("job-1")
	if !ok || got.Status != entity.JobCompleted {
		t.Fatalf("terminal state must stay pollable before the retention window elapses")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := tracker.Get("job-1"); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job entry not removed after retention window")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestProgressTrackerConcurrentAccess(t *testing.T) {
	tracker := NewProgressTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tracker.Set(entity.JobProgress{JobID: "job-1", Status: entity.JobRunning, DatesProcessed: n})
			tracker.Get("job-1")
		}(i)
	}
	wg.Wait()

	if _, ok := tracker.Get("job-1"); !ok {
		t.Fatalf("job missing after concurrent updates")
	}
}
