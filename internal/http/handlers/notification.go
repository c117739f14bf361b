package handlers

import (
	"net/http"
	"strings"
	"time"

	"admitdesk/internal/app"
	"admitdesk/internal/common"
	"admitdesk/internal/domain/notification"
	"admitdesk/internal/http/response"
)

type NotificationHandler struct {
	notifications *app.NotificationService
}

func NewNotificationHandler(notifications *app.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type createNotificationRequest struct {
	UserID   string            `json:"user_id"`
	Channel  string            `json:"channel"`
	Message  string            `json:"message"`
	SendAt   *time.Time        `json:"send_at"`
	Metadata map[string]string `json:"metadata"`
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	sendAt := time.Now()
	if req.SendAt != nil {
		sendAt = *req.SendAt
	}
	created, err := h.notifications.Enqueue(r.Context(), app.EnqueueNotificationInput{
		UserID:   req.UserID,
		Channel:  notification.Channel(strings.ToLower(strings.TrimSpace(req.Channel))),
		Message:  req.Message,
		SendAt:   sendAt,
		Metadata: req.Metadata,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

// List serves pending items or a user's history. Admins can read anything;
// everyone else only their own.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	query := r.URL.Query()
	if query.Get("pending") == "true" {
		if !actor.Admin {
			response.Error(w, common.NewError(common.CodeForbidden, "admin only", nil))
			return
		}
		items, err := h.notifications.ListPending(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}

	userID := strings.TrimSpace(query.Get("userId"))
	if userID == "" {
		userID = actor.UID
	}
	if userID != actor.UID && !actor.Admin {
		response.Error(w, common.NewError(common.CodeForbidden, "not your notifications", nil))
		return
	}
	items, err := h.notifications.ListByUser(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// Dispatch pushes out every due pending notification. Hit by an external
// scheduler, admin only.
func (h *NotificationHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	sent, err := h.notifications.DispatchDue(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]int{"sent": sent})
}
