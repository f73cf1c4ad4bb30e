package health

import (
	"context"
	"net/http"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/transport"
)

type ServiceAPI interface {
	ClientHealth(ctx context.Context, clientID int64) (*ClientHealth, error)
	AccountManagerHealth(ctx context.Context, accountManagerID int64) ([]*ClientHealth, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetClientHealth handles GET /client-health?client_id or ?account_manager_id
func (h *Handler) GetClientHealth(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.RequireActor(w, r); !ok {
		return
	}

	clientID, err := h.QueryInt64(r, "client_id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	amID, err := h.QueryInt64(r, "account_manager_id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	switch {
	case clientID != nil:
		result, err := h.Service.ClientHealth(r.Context(), *clientID)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, result)
	case amID != nil:
		result, err := h.Service.AccountManagerHealth(r.Context(), *amID)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"account_manager_id": *amID,
			"clients":            result,
		})
	default:
		h.HandleServiceError(w, internal.NewValidationFieldError("client_id", "client_id or account_manager_id is required", internal.ErrCodeValidationFailed))
	}
}
