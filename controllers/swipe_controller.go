package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/helpers"
	"ideaswipe_server/middleware"
	"ideaswipe_server/models"
	"ideaswipe_server/services"
)

// SwipeController handles like/pass decisions on ideas
type SwipeController struct {
	SwipeService *services.SwipeService
	log          *zap.SugaredLogger
}

func NewSwipeController(swipeService *services.SwipeService, log *zap.SugaredLogger) *SwipeController {
	return &SwipeController{SwipeService: swipeService, log: log}
}

type swipeRequest struct {
	IdeaID    string `json:"ideaId" validate:"required"`
	Direction string `json:"direction" validate:"required,oneof=left right"`
}

// RecordSwipe stores a swipe and reports the match it formed, if any.
func (c *SwipeController) RecordSwipe(w http.ResponseWriter, r *http.Request) {
	var payload swipeRequest
	if err := helpers.DecodeAndValidate(r, &payload); err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}

	match, err := c.SwipeService.RecordSwipe(r.Context(), middleware.UserID(r.Context()), payload.IdeaID, payload.Direction)
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, struct {
		Matched bool              `json:"matched"`
		Match   *models.MatchView `json:"match"`
	}{Matched: match != nil, Match: match})
}

// ListSwipes returns the caller's swipe history.
func (c *SwipeController) ListSwipes(w http.ResponseWriter, r *http.Request) {
	swipes, err := c.SwipeService.ListSwipes(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"swipes": swipes})
}

// GetTally returns the like/pass counters of an idea.
func (c *SwipeController) GetTally(w http.ResponseWriter, r *http.Request) {
	tally, err := c.SwipeService.GetTally(r.Context(), mux.Vars(r)["ideaId"])
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, tally)
}
