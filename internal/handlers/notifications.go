package handlers

import (
	"context"
	"net/http"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/go-chi/chi/v5"
)

type NotificationServiceI interface {
	List(ctx context.Context, caller access.Caller) ([]models.Notification, error)
	MarkRead(ctx context.Context, caller access.Caller, id string) error
}

type NotificationsHandler struct {
	service NotificationServiceI
}

func NewNotificationsHandler(service NotificationServiceI) *NotificationsHandler {
	return &NotificationsHandler{service: service}
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	list, err := h.service.List(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	if err := h.service.MarkRead(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
