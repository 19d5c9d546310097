package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/internal/domain/repository"
	"aerofare-service/internal/usecase"
	"aerofare-service/pkg/logger"

	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

// Handler exposes the collection core over HTTP.
type Handler struct {
	service   *usecase.ScrapeService
	tracker   *usecase.ProgressTracker
	scheduler *usecase.ScrapeScheduler
	settings  *usecase.SettingsService
	notifRepo repository.NotificationRepository
	logger    logger.Logger
}

// NewHandler creates the REST handler
func NewHandler(
	service *usecase.ScrapeService,
	tracker *usecase.ProgressTracker,
	scheduler *usecase.ScrapeScheduler,
	settings *usecase.SettingsService,
	notifRepo repository.NotificationRepository,
	log logger.Logger,
) *Handler {
	return &Handler{
		service:   service,
		tracker:   tracker,
		scheduler: scheduler,
		settings:  settings,
		notifRepo: notifRepo,
		logger:    log,
	}
}

// Register mounts all routes on the router
func (h *Handler) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/scrape", h.runScrape).Methods(http.MethodPost)
	api.HandleFunc("/scrape/bulk", h.startBulkJob).Methods(http.MethodPost)
	api.HandleFunc("/scrape/jobs/{id}", h.getJobProgress).Methods(http.MethodGet)

	api.HandleFunc("/scheduler/status", h.schedulerStatus).Methods(http.MethodGet)
	api.HandleFunc("/scheduler/trigger", h.triggerScheduler).Methods(http.MethodPost)

	api.HandleFunc("/settings/{key}", h.getSetting).Methods(http.MethodGet)
	api.HandleFunc("/settings/{key}", h.putSetting).Methods(http.MethodPut)

	api.HandleFunc("/notifications", h.listNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", h.markNotificationRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/read-all", h.markAllNotificationsRead).Methods(http.MethodPost)
}

type scrapeRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	CitilinkToken string `json:"citilink_token,omitempty"`
	RunType       string `json:"run_type,omitempty"`
}

type bulkScrapeRequest struct {
	Routes        []usecase.RoutePair `json:"routes"`
	StartDate     string              `json:"start_date"`
	EndDate       string              `json:"end_date"`
	CitilinkToken string              `json:"citilink_token,omitempty"`
	RunType       string              `json:"run_type,omitempty"`
}

// runScrape handles the synchronous single-route invocation
func (h *Handler) runScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Origin == "" || req.Destination == "" {
		h.writeError(w, http.StatusBadRequest, "origin and destination are required")
		return
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Run(r.Context(), usecase.RunParams{
		Origin:      req.Origin,
		Destination: req.Destination,
		StartDate:   startDate,
		EndDate:     endDate,
		Credential:  req.CitilinkToken,
		RunType:     runType(req.RunType),
	})
	if err != nil {
		h.logger.Error("Scrape run failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "scrape run failed")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// startBulkJob handles the asynchronous multi-route invocation
func (h *Handler) startBulkJob(w http.ResponseWriter, r *http.Request) {
	var req bulkScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Routes) == 0 {
		h.writeError(w, http.StatusBadRequest, "at least one route is required")
		return
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobID := h.service.StartBulkJob(req.Routes, startDate, endDate, req.CitilinkToken, runType(req.RunType))

	h.writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

// getJobProgress returns the live progress of a bulk job
func (h *Handler) getJobProgress(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	progress, ok := h.tracker.Get(jobID)
	if !ok {
		h.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	h.writeJSON(w, http.StatusOK, progress)
}

func (h *Handler) schedulerStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.scheduler.Status())
}

// triggerScheduler fires the scheduled job on demand, without waiting
// for it to finish
func (h *Handler) triggerScheduler(w http.ResponseWriter, r *http.Request) {
	go h.scheduler.TriggerNow()
	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "triggered"})
}

func (h *Handler) getSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	value, err := h.settings.Get(r.Context(), key)
	if err != nil {
		h.logger.Error("Failed to read setting", "key", key, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to read setting")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

// putSetting stores a setting; a schedule time change restarts the
// scheduler so the new time takes effect without a redeploy
func (h *Handler) putSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.settings.Put(r.Context(), key, req.Value); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if key == entity.SettingScheduleTime {
		if err := h.scheduler.Restart(r.Context()); err != nil {
			h.logger.Error("Failed to restart scheduler", "error", err)
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	notifs, err := h.notifRepo.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list notifications", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	h.writeJSON(w, http.StatusOK, notifs)
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.notifRepo.MarkRead(r.Context(), uint(id)); err != nil {
		h.logger.Error("Failed to mark notification read", "id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifRepo.MarkAllRead(r.Context()); err != nil {
		h.logger.Error("Failed to mark notifications read", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidDate("start_date", start)
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidDate("end_date", end)
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, errRange(start, end)
	}
	return startDate, endDate, nil
}

func runType(v string) string {
	if v == entity.RunScheduled {
		return entity.RunScheduled
	}
	return entity.RunManual
}

type requestError string

func (e requestError) Error() string { return string(e) }

func errInvalidDate(field, value string) error {
	return requestError(field + " must be YYYY-MM-DD, got " + value)
}

func errRange(start, end string) error {
	return requestError("end_date " + end + " is before start_date " + start)
}
