package entity

// Job lifecycle states
const (
	JobRunning   = "RUNNING"
	JobCompleted = "COMPLETED"
	JobFailed    = "FAILED"
)

// JobProgress is the live, process-local progress of an asynchronous
// multi-route job. Percentage is computed across every (route, date)
// unit in the job, not just the current route.
type JobProgress struct {
	JobID          string  `json:"job_id"`
	Status         string  `json:"status"`
	Progress       float64 `json:"progress"`
	CurrentRoute   string  `json:"current_route"`
	RouteIndex     int     `json:"route_index"`
	TotalRoutes    int     `json:"total_routes"`
	DatesProcessed int     `json:"dates_processed"`
	TotalDates     int     `json:"total_dates"`
	TotalRecords   int     `json:"total_records"`
	Error          string  `json:"error,omitempty"`
}
