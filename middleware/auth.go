package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ideaswipe_server/auth"
	"ideaswipe_server/helpers"
)

type ctxKey struct{}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// WithUserID stores the authenticated user id on ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the authenticated user id, or "" outside an authenticated route.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Authenticate rejects requests without a valid bearer token.
func Authenticate(verifier TokenVerifier, log *zap.SugaredLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ParseBearerToken(r.Header.Get("Authorization"))
			if err != nil {
				helpers.WriteError(w, log, r, err)
				return
			}
			userID, err := verifier.Verify(token)
			if err != nil {
				log.Debugw("token rejected", "path", r.URL.Path, "error", err)
				helpers.WriteError(w, log, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
