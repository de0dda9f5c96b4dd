package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/controllers"
	"ideaswipe_server/services"
)

// RegisterNotificationRoutes sets up routes under /notifications
func RegisterNotificationRoutes(r *mux.Router, notificationService *services.NotificationService, log *zap.SugaredLogger) {
	controller := controllers.NewNotificationController(notificationService, log)

	notificationRouter := r.PathPrefix("/notifications").Subrouter()
	notificationRouter.HandleFunc("", controller.GetNotifications).Methods(http.MethodGet)
	notificationRouter.HandleFunc("/read-all", controller.MarkAllRead).Methods(http.MethodPost)
	notificationRouter.HandleFunc("/{id}/read", controller.MarkRead).Methods(http.MethodPost)
	notificationRouter.HandleFunc("/{id}", controller.DeleteNotification).Methods(http.MethodDelete)
}
