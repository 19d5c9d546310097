package usecase

import (
	"context"
	"time"

	"aerofare-service/internal/domain/entity"

	"github.com/google/uuid"
)

// StartBulkJob launches a multi-route collection on a detached
// goroutine and returns immediately with the job id. Routes run
// strictly sequentially; the progress tracker entry is the only
// communication path back to pollers.
func (s *ScrapeService) StartBulkJob(routes []RoutePair, startDate, endDate time.Time, credential, runType string) string {
	jobID := uuid.NewString()

	s.tracker.Set(entity.JobProgress{
		JobID:       jobID,
		Status:      entity.JobRunning,
		TotalRoutes: len(routes),
	})

	go s.runBulkJob(jobID, routes, startDate, endDate, credential, runType)

	return jobID
}

func (s *ScrapeService) runBulkJob(jobID string, routes []RoutePair, startDate, endDate time.Time, credential, runType string) {
	ctx := context.Background()
	defer s.tracker.ScheduleCleanup(jobID)

	totalRecords := 0
	for i, route := range routes {
		result, err := s.Run(ctx, RunParams{
			Origin:      route.Origin,
			Destination: route.Destination,
			StartDate:   startDate,
			EndDate:     endDate,
			Credential:  credential,
			RunType:     runType,
			Progress: &ProgressRef{
				JobID:       jobID,
				RouteIndex:  i,
				TotalRoutes: len(routes),
			},
		})
		if err != nil {
			s.logger.Error("Bulk job failed", "job_id", jobID, "route", route.Code(), "error", err)
			s.tracker.Set(entity.JobProgress{
				JobID:        jobID,
				Status:       entity.JobFailed,
				CurrentRoute: route.Code(),
				RouteIndex:   i,
				TotalRoutes:  len(routes),
				TotalRecords: totalRecords,
				Error:        err.Error(),
			})
			return
		}
		totalRecords += result.TotalRecords
	}

	s.tracker.Set(entity.JobProgress{
		JobID:        jobID,
		Status:       entity.JobCompleted,
		Progress:     100,
		RouteIndex:   len(routes),
		TotalRoutes:  len(routes),
		TotalRecords: totalRecords,
	})
}
