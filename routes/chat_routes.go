package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/controllers"
	"ideaswipe_server/services"
)

// RegisterChatRoutes sets up the conversation of a match under /matches/{id}/messages
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, log *zap.SugaredLogger) {
	controller := controllers.NewChatController(chatService, log)

	r.HandleFunc("/matches/{id}/messages", controller.HandleGetMessages).Methods(http.MethodGet)
	r.HandleFunc("/matches/{id}/messages", controller.HandleSendMessage).Methods(http.MethodPost)
}
