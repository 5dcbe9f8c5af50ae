package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/notification"
)

// NotificationHandler handles notification HTTP requests. All operations
// are scoped to the authenticated actor's own notifications.
type NotificationHandler struct {
	directory *notification.Directory
	logger    *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(directory *notification.Directory, log *slog.Logger) *NotificationHandler {
	if log == nil {
		log = slog.Default()
	}
	return &NotificationHandler{
		directory: directory,
		logger:    log.With(slog.String("component", "notification_handler")),
	}
}

// ListNotifications handles GET /notifications. The unread_only query
// parameter narrows the result to unread records. Order is newest first.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.GetActor(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	unreadOnly := false
	if raw := r.URL.Query().Get("unread_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid unread_only value")
			return
		}
		unreadOnly = parsed
	}

	notifications := h.directory.ListForUser(actor.ID, unreadOnly)
	shared.RespondWithJSON(w, r, http.StatusOK, notifications)
}

// UnreadCount handles GET /notifications/unread-count.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.GetActor(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UnreadCountResponse{
		UnreadCount: h.directory.UnreadCount(actor.ID),
	})
}

// MarkRead handles PUT /notifications/{id}/read. A notification owned by
// another user is reported as not found rather than forbidden, so IDs
// cannot be probed across accounts.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.GetActor(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	notificationID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid notification ID format")
		return
	}

	if !h.directory.MarkRead(notificationID, actor.ID) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles PUT /notifications/read-all and reports how many
// records the sweep flipped to read.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.GetActor(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	marked := h.directory.MarkAllRead(actor.ID)
	h.logger.Debug("marked notifications read",
		slog.String("user_id", actor.ID.String()),
		slog.Int("count", marked))
	shared.RespondWithJSON(w, r, http.StatusOK, MarkAllReadResponse{MarkedRead: marked})
}
