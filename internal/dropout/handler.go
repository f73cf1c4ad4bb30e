package dropout

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *internal.Actor, dto CreateDropoutDTO) (*Request, error)
	Acknowledge(ctx context.Context, actor *internal.Actor, id int64, dto AcknowledgeDTO) (*Request, error)
	Decide(ctx context.Context, actor *internal.Actor, id int64, dto DecideDTO) (*Request, error)
	Get(ctx context.Context, id int64) (*Request, error)
	List(ctx context.Context, filter ListFilter) ([]*Request, error)
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

func (h *Handler) requestID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid dropout request ID")
		return 0, false
	}
	return id, true
}

// CreateDropout handles POST /dropout-requests
func (h *Handler) CreateDropout(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto CreateDropoutDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateDropout: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, req)
}

// GetDropout handles GET /dropout-requests/{id}
func (h *Handler) GetDropout(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.RequireActor(w, r); !ok {
		return
	}
	id, ok := h.requestID(w, r)
	if !ok {
		return
	}

	req, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

// ListDropouts handles GET /dropout-requests?state&role_id&recruiter_id&limit&offset
func (h *Handler) ListDropouts(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.RequireActor(w, r); !ok {
		return
	}

	var filter ListFilter
	var err error
	if s := r.URL.Query().Get("state"); s != "" {
		state := State(s)
		filter.State = &state
	}
	if filter.RoleID, err = h.QueryInt64(r, "role_id"); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if filter.RecruiterID, err = h.QueryInt64(r, "recruiter_id"); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	limit, err := h.QueryInt64(r, "limit")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	offset, err := h.QueryInt64(r, "offset")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if limit != nil {
		filter.Limit = int(*limit)
	}
	if offset != nil {
		filter.Offset = int(*offset)
	}

	requests, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Requests: requests, Limit: filter.Limit, Offset: filter.Offset})
}

// AcknowledgeDropout handles PUT /dropout-requests/{id}/acknowledge
func (h *Handler) AcknowledgeDropout(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.requestID(w, r)
	if !ok {
		return
	}

	var dto AcknowledgeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AcknowledgeDropout: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.Acknowledge(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

// DecideDropout handles PUT /dropout-requests/{id}/decide
func (h *Handler) DecideDropout(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.requestID(w, r)
	if !ok {
		return
	}

	var dto DecideDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("DecideDropout: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.Decide(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}
