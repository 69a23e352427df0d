package handlers

import (
	"context"
	"net/http"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/models"
)

type AdminServiceI interface {
	Stats(ctx context.Context, caller access.Caller) (models.JobStats, error)
	UnassignedJobs(ctx context.Context, caller access.Caller) ([]models.Job, error)
	Reviewers(ctx context.Context, caller access.Caller) ([]models.ReviewerWorkload, error)
}

type AdminHandler struct {
	service AdminServiceI
}

func NewAdminHandler(service AdminServiceI) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	stats, err := h.service.Stats(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) UnassignedJobs(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	jobs, err := h.service.UnassignedJobs(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *AdminHandler) Reviewers(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	reviewers, err := h.service.Reviewers(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewers)
}
