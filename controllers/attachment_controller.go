package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/helpers"
	"ideaswipe_server/middleware"
	"ideaswipe_server/services"
)

// AttachmentController issues presigned S3 URLs for chat attachments
type AttachmentController struct {
	AttachmentService *services.AttachmentService
	log               *zap.SugaredLogger
}

func NewAttachmentController(service *services.AttachmentService, log *zap.SugaredLogger) *AttachmentController {
	return &AttachmentController{AttachmentService: service, log: log}
}

type uploadPayload struct {
	FileName string `json:"fileName" validate:"required,max=200"`
	FileType string `json:"fileType" validate:"required"`
}

// GeneratePresignedURL returns a PUT URL and the key to send with the message
func (c *AttachmentController) GeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	var payload uploadPayload
	if err := helpers.DecodeAndValidate(r, &payload); err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}

	ticket, err := c.AttachmentService.UploadURL(r.Context(), mux.Vars(r)["id"], middleware.UserID(r.Context()), payload.FileName, payload.FileType)
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	c.log.Debugw("presigned upload issued", "matchId", mux.Vars(r)["id"], "key", ticket.Key)
	helpers.WriteJSONResponse(w, http.StatusOK, ticket)
}

// GetPresignedReadURL returns a GET URL for an attachment of the match
func (c *AttachmentController) GetPresignedReadURL(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	url, err := c.AttachmentService.ReadURL(r.Context(), vars["id"], middleware.UserID(r.Context()), vars["key"])
	if err != nil {
		helpers.WriteError(w, c.log, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"url": url})
}
