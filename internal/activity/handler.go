package activity

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/transport"
)

type ServiceAPI interface {
	Record(ctx context.Context, actor *internal.Actor, dto RecordEntryDTO) (*Entry, error)
	ListForRecruiter(ctx context.Context, recruiterID int64, w internal.Window) ([]*Entry, error)
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

// RecordEntry handles POST /activities
func (h *Handler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto RecordEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RecordEntry: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.Record(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, entry)
}

// ListEntries handles GET /activities?recruiter_id&start&end
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	recruiterID, err := h.QueryInt64(r, "recruiter_id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	id := actor.ID
	if recruiterID != nil {
		id = *recruiterID
	}

	q := r.URL.Query()
	window, err := internal.ParseWindow(q.Get("start"), q.Get("end"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	entries, err := h.Service.ListForRecruiter(r.Context(), id, window)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EntriesResponse{
		Entries: entries,
		Start:   window.Start.Format(internal.DateLayout),
		End:     window.End.Format(internal.DateLayout),
	})
}
