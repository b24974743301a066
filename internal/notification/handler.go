package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/middleware"
	"github.com/sandesh691/agribid-sub001/internal/respond"
)

type NotificationHandler struct {
	repo NotificationRepository
}

func NewNotificationHandler(repo NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

func (nh *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	ns, err := nh.repo.ListForUser(r.Context(), middleware.GetUserID(r.Context()), unreadOnly)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, ns)
}

func (nh *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("invalid notification id"))
		return
	}

	if err := nh.repo.MarkRead(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "read"})
}
