package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/transport"
	"github.com/frahmantamala/recruitment-performance/pkg/logger"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*internal.Actor, error)
}

type Handler struct {
	*transport.BaseHandler
	Service Authenticator
}

func NewHandler(baseHandler *transport.BaseHandler, service Authenticator) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// AuthMiddleware puts the authenticated actor on the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeInvalidToken))
			return
		}

		actor, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithActor(r.Context(), actor)
		ctx = logger.With(ctx, "user_id", actor.ID, "user_role", actor.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
