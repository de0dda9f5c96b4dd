package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/controllers"
	"ideaswipe_server/services"
)

// RegisterMatchRoutes sets up routes for match-related operations under /matches
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, log *zap.SugaredLogger) {
	controller := controllers.NewMatchController(matchService, log)

	matchRouter := r.PathPrefix("/matches").Subrouter()
	matchRouter.HandleFunc("", controller.GetMatches).Methods(http.MethodGet)
	matchRouter.HandleFunc("/{id}", controller.GetMatch).Methods(http.MethodGet)
	matchRouter.HandleFunc("/{id}/read", controller.MarkViewed).Methods(http.MethodPost)
}
