package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ahmethakanbesel/similarity-api/internal/apperror"
	"github.com/ahmethakanbesel/similarity-api/internal/job"
)

type handler struct {
	jobSvc *job.Service
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createJobResponse acknowledges a queued job; callers poll the status
// endpoint for progress.
type createJobResponse struct {
	ID      string     `json:"id"`
	Status  job.Status `json:"status"`
	Message string     `json:"message"`
}

func (h *handler) createJob(w http.ResponseWriter, r *http.Request) {
	var req job.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	j, err := h.jobSvc.Create(req)
	if err != nil {
		if ae, ok := err.(*apperror.AppError); ok {
			writeError(w, ae.HTTPStatus(), ae.Message())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, createJobResponse{
		ID:      j.ID,
		Status:  j.Status,
		Message: fmt.Sprintf("job created, poll /api/v1/jobs/%s for progress", j.ID),
	})
}

func (h *handler) getJob(w http.ResponseWriter, r *http.Request) {
	req := job.GetJobRequest{ID: r.PathValue("id")}
	if appErr := req.Validate(); appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	j, err := h.jobSvc.Get(req)
	if err != nil {
		if ae, ok := err.(*apperror.AppError); ok {
			writeError(w, ae.HTTPStatus(), ae.Message())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, j)
}

func (h *handler) listJobs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.jobSvc.List())
}

func (h *handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	req := job.GetJobRequest{ID: r.PathValue("id")}
	if appErr := req.Validate(); appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	if err := h.jobSvc.Delete(req); err != nil {
		if ae, ok := err.(*apperror.AppError); ok {
			writeError(w, ae.HTTPStatus(), ae.Message())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": req.ID})
}
