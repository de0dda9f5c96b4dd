package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/controllers"
	"ideaswipe_server/services"
)

// RegisterS3Routes sets up presigned attachment URLs scoped to a match
func RegisterS3Routes(r *mux.Router, attachmentService *services.AttachmentService, log *zap.SugaredLogger) {
	controller := controllers.NewAttachmentController(attachmentService, log)

	r.HandleFunc("/matches/{id}/attachments", controller.GeneratePresignedURL).Methods(http.MethodPost)
	r.HandleFunc("/matches/{id}/attachments/{key:.+}", controller.GetPresignedReadURL).Methods(http.MethodGet)
}
