package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/helpers"
	"ideaswipe_server/middleware"
	"ideaswipe_server/services"
)

// MatchController handles HTTP requests for match-related actions
type MatchController struct {
	MatchService *services.MatchService
	log          *zap.SugaredLogger
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService, log *zap.SugaredLogger) *MatchController {
	return &MatchController{MatchService: matchService, log: log}
}

// GetMatches returns the caller's matches, newest first
func (c *MatchController) GetMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := c.MatchService.ListForUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// GetMatch returns one match the caller is part of
func (c *MatchController) GetMatch(w http.ResponseWriter, r *http.Request) {
	match, err := c.MatchService.GetForParticipant(r.Context(), mux.Vars(r)["id"], middleware.UserID(r.Context()))
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, match)
}

// MarkViewed catches the caller up on the conversation
func (c *MatchController) MarkViewed(w http.ResponseWriter, r *http.Request) {
	marked, err := c.MatchService.MarkViewed(r.Context(), mux.Vars(r)["id"], middleware.UserID(r.Context()))
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]int{"marked": marked})
}
