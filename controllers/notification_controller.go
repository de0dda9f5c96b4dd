package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/helpers"
	"ideaswipe_server/middleware"
	"ideaswipe_server/services"
)

// NotificationController exposes the derived notification feed
type NotificationController struct {
	NotificationService *services.NotificationService
	log                 *zap.SugaredLogger
}

func NewNotificationController(service *services.NotificationService, log *zap.SugaredLogger) *NotificationController {
	return &NotificationController{NotificationService: service, log: log}
}

func (c *NotificationController) GetNotifications(w http.ResponseWriter, r *http.Request) {
	feed, err := c.NotificationService.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, feed)
}

func (c *NotificationController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	cleared, err := c.NotificationService.MarkAllRead(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]int{"cleared": cleared})
}

// MarkRead resolves one notification; ?type= is request, request_accepted or message.
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	err := c.NotificationService.MarkRead(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["id"], r.URL.Query().Get("type"))
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteNotification maps onto the underlying record: a request is rejected, a
// conversation is caught up.
func (c *NotificationController) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	err := c.NotificationService.Delete(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["id"], r.URL.Query().Get("type"))
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
