package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/grocery-pos/internal/notification/usecase/command"
	"github.com/tair/grocery-pos/internal/notification/usecase/query"
	"github.com/tair/grocery-pos/pkg/middleware"
	"github.com/tair/grocery-pos/pkg/response"
)

// NotificationHandler serves the notification inbox of the calling user
type NotificationHandler struct {
	markReadHandler *command.MarkReadHandler
	deleteHandler   *command.DeleteNotificationHandler
	listHandler     *query.ListNotificationsHandler
	getHandler      *query.GetNotificationHandler
}

func NewNotificationHandler(
	markReadHandler *command.MarkReadHandler,
	deleteHandler *command.DeleteNotificationHandler,
	listHandler *query.ListNotificationsHandler,
	getHandler *query.GetNotificationHandler,
) *NotificationHandler {
	return &NotificationHandler{
		markReadHandler: markReadHandler,
		deleteHandler:   deleteHandler,
		listHandler:     listHandler,
		getHandler:      getHandler,
	}
}

func (h *NotificationHandler) RegisterRoutes(router *mux.Router, authn *middleware.Authenticator) {
	anyUser := authn.RequireRoles()

	router.HandleFunc("/api/notifications", anyUser(h.ListNotifications)).Methods("GET")
	router.HandleFunc("/api/notifications/unread-count", anyUser(h.UnreadCount)).Methods("GET")
	router.HandleFunc("/api/notifications/read-all", anyUser(h.MarkAllRead)).Methods("PUT")
	router.HandleFunc("/api/notifications/{id:[0-9]+}", anyUser(h.GetNotification)).Methods("GET")
	router.HandleFunc("/api/notifications/{id:[0-9]+}/read", anyUser(h.MarkRead)).Methods("PUT")
	router.HandleFunc("/api/notifications/{id:[0-9]+}", anyUser(h.DeleteNotification)).Methods("DELETE")
}

// ListNotifications godoc
// @Summary List my notifications
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Param limit query int false "Limit (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response
// @Router /api/notifications [get]
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	unread, err := response.QueryBool(r, "unread")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	page, err := h.listHandler.Handle(r.Context(), query.ListNotificationsQuery{
		UserID:     actor.ID,
		UnreadOnly: unread != nil && *unread,
		Limit:      response.QueryInt(r, "limit", 0),
		Offset:     response.QueryInt(r, "offset", 0),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", page)
}

// UnreadCount godoc
// @Summary Count my unread notifications
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	n, err := h.listHandler.UnreadCount(r.Context(), actor.ID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", map[string]int64{"unread": n})
}

// GetNotification godoc
// @Summary Get one of my notifications
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/notifications/{id} [get]
func (h *NotificationHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	n, err := h.getHandler.Handle(r.Context(), id, actor.ID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", n)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	if err := h.markReadHandler.Handle(r.Context(), id, actor.ID); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllRead godoc
// @Summary Mark all my notifications as read
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	n, err := h.markReadHandler.All(r.Context(), actor.ID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Notifications marked as read", map[string]int64{"updated": n})
}

// DeleteNotification godoc
// @Summary Delete one of my notifications
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), id, actor.ID); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Notification deleted", nil)
}
