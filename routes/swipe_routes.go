package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/controllers"
	"ideaswipe_server/services"
)

// RegisterSwipeRoutes sets up /swipes and the idea tally read
func RegisterSwipeRoutes(r *mux.Router, swipeService *services.SwipeService, log *zap.SugaredLogger) {
	controller := controllers.NewSwipeController(swipeService, log)

	r.HandleFunc("/swipes", controller.RecordSwipe).Methods(http.MethodPost)
	r.HandleFunc("/swipes", controller.ListSwipes).Methods(http.MethodGet)
	r.HandleFunc("/ideas/{ideaId}/tally", controller.GetTally).Methods(http.MethodGet)
}
