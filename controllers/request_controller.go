package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/helpers"
	"ideaswipe_server/middleware"
	"ideaswipe_server/services"
)

// RequestController handles collaboration requests
type RequestController struct {
	RequestService *services.RequestService
	log            *zap.SugaredLogger
}

func NewRequestController(requestService *services.RequestService, log *zap.SugaredLogger) *RequestController {
	return &RequestController{RequestService: requestService, log: log}
}

type createRequestPayload struct {
	IdeaID  string `json:"ideaId" validate:"required"`
	Message string `json:"message" validate:"max=500"`
}

// CreateRequest files a request on someone else's idea
func (c *RequestController) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var payload createRequestPayload
	if err := helpers.DecodeAndValidate(r, &payload); err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}

	req, err := c.RequestService.Create(r.Context(), middleware.UserID(r.Context()), payload.IdeaID, payload.Message)
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusCreated, req)
}

// ListReceived returns requests on the caller's ideas
func (c *RequestController) ListReceived(w http.ResponseWriter, r *http.Request) {
	reqs, err := c.RequestService.ListReceived(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"requests": reqs})
}

// ListSent returns requests the caller filed
func (c *RequestController) ListSent(w http.ResponseWriter, r *http.Request) {
	reqs, err := c.RequestService.ListSent(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"requests": reqs})
}

// AcceptRequest approves a pending request and returns the resulting match
func (c *RequestController) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	match, err := c.RequestService.Accept(r.Context(), mux.Vars(r)["id"], middleware.UserID(r.Context()))
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"match": match})
}

// RejectRequest declines a pending request
func (c *RequestController) RejectRequest(w http.ResponseWriter, r *http.Request) {
	if err := c.RequestService.Reject(r.Context(), mux.Vars(r)["id"], middleware.UserID(r.Context())); err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
