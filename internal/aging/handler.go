package aging

import (
	"context"
	"net/http"

	"github.com/frahmantamala/recruitment-performance/internal/role"
	"github.com/frahmantamala/recruitment-performance/internal/transport"
)

type ServiceAPI interface {
	Report(ctx context.Context, scope role.Scope, limit int) (*Report, error)
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

// GetAging handles GET /aging?client_id|team_id|account_manager_id&limit
func (h *Handler) GetAging(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.RequireActor(w, r); !ok {
		return
	}

	var scope role.Scope
	var err error
	if scope.ClientID, err = h.QueryInt64(r, "client_id"); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if scope.TeamID, err = h.QueryInt64(r, "team_id"); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if scope.AccountManagerID, err = h.QueryInt64(r, "account_manager_id"); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	limit, err := h.QueryInt64(r, "limit")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	n := 0
	if limit != nil {
		n = int(*limit)
	}

	report, err := h.Service.Report(r.Context(), scope, n)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}
