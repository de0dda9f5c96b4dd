package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/controllers"
	"ideaswipe_server/services"
)

// RegisterRequestRoutes sets up routes under /requests
func RegisterRequestRoutes(r *mux.Router, requestService *services.RequestService, log *zap.SugaredLogger) {
	controller := controllers.NewRequestController(requestService, log)

	requestRouter := r.PathPrefix("/requests").Subrouter()
	requestRouter.HandleFunc("", controller.CreateRequest).Methods(http.MethodPost)
	requestRouter.HandleFunc("/received", controller.ListReceived).Methods(http.MethodGet)
	requestRouter.HandleFunc("/sent", controller.ListSent).Methods(http.MethodGet)
	requestRouter.HandleFunc("/{id}/accept", controller.AcceptRequest).Methods(http.MethodPost)
	requestRouter.HandleFunc("/{id}/reject", controller.RejectRequest).Methods(http.MethodPost)
}
