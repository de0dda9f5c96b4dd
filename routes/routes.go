package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/controllers"
	"ideaswipe_server/middleware"
	"ideaswipe_server/services"
)

// Services is everything the HTTP surface is built from.
type Services struct {
	Swipes        *services.SwipeService
	Requests      *services.RequestService
	Matches       *services.MatchService
	Chat          *services.ChatService
	Notifications *services.NotificationService
	Attachments   *services.AttachmentService
}

// RegisterRoutes sets up the routes for the application. Everything under /api
// requires a bearer token. Request logging is scoped to these routes so other
// handlers on r, such as the socket.io endpoint, get the raw ResponseWriter.
func RegisterRoutes(r *mux.Router, svc Services, verifier middleware.TokenVerifier, log *zap.SugaredLogger) {
	web := r.NewRoute().Subrouter()
	web.Use(middleware.RequestLogger(log))
	web.HandleFunc("/health", controllers.HealthCheckHandler).Methods(http.MethodGet)
	web.HandleFunc("/", controllers.WelcomeHandler).Methods(http.MethodGet)

	api := web.PathPrefix("/api").Subrouter()
	api.Use(middleware.Authenticate(verifier, log))

	RegisterSwipeRoutes(api, svc.Swipes, log)
	RegisterRequestRoutes(api, svc.Requests, log)
	RegisterMatchRoutes(api, svc.Matches, log)
	RegisterChatRoutes(api, svc.Chat, log)
	RegisterNotificationRoutes(api, svc.Notifications, log)
	RegisterS3Routes(api, svc.Attachments, log)
}
