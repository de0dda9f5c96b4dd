package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/helpers"
	"ideaswipe_server/middleware"
	"ideaswipe_server/services"
)

// ChatController struct
type ChatController struct {
	ChatService *services.ChatService
	log         *zap.SugaredLogger
}

// NewChatController initializes the chat controller
func NewChatController(service *services.ChatService, log *zap.SugaredLogger) *ChatController {
	return &ChatController{ChatService: service, log: log}
}

type sendMessagePayload struct {
	Content       string `json:"content" validate:"max=4000"`
	AttachmentKey string `json:"attachmentKey"`
}

// HandleGetMessages returns the latest messages of a match, oldest first (?limit, default 50)
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]
	messages, err := c.ChatService.ListMessages(r.Context(), matchID, middleware.UserID(r.Context()), queryInt(r, "limit", 0))
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// HandleSendMessage posts a message to a match over HTTP
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload sendMessagePayload
	if err := helpers.DecodeAndValidate(r, &payload); err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}

	msg, err := c.ChatService.SendMessage(r.Context(), mux.Vars(r)["id"], middleware.UserID(r.Context()), payload.Content, payload.AttachmentKey)
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusCreated, msg)
}
