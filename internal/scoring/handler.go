package scoring

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/transport"
)

type ServiceAPI interface {
	ComputeScore(ctx context.Context, recruiterID int64, start, end time.Time) (*Score, error)
	ComputeScopeScore(ctx context.Context, scope Scope, start, end time.Time) (*ScopeScore, error)
	Leaderboard(ctx context.Context, teamID int64, start, end time.Time) ([]*LeaderboardEntry, error)
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

type LeaderboardResponse struct {
	TeamID  int64               `json:"team_id"`
	Start   string              `json:"start"`
	End     string              `json:"end"`
	Entries []*LeaderboardEntry `json:"entries"`
}

func parseWindow(r *http.Request) (internal.Window, error) {
	q := r.URL.Query()
	return internal.ParseWindow(q.Get("start"), q.Get("end"))
}

// GetScore handles GET /scores?recruiter_id&start&end. recruiter_id defaults to the caller.
func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
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

	window, err := parseWindow(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	score, err := h.Service.ComputeScore(r.Context(), id, window.Start, window.End)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"recruiter_id":      id,
		"score":             score.Score,
		"performance_label": score.PerformanceLabel,
		"start":             score.Start,
		"end":               score.End,
		"totals":            score.Totals,
	})
}

// GetScopeScore handles GET /scores/scope?team_id|account_manager_id&start&end
func (h *Handler) GetScopeScore(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.RequireActor(w, r); !ok {
		return
	}

	teamID, err := h.QueryInt64(r, "team_id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	amID, err := h.QueryInt64(r, "account_manager_id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	window, err := parseWindow(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	score, err := h.Service.ComputeScopeScore(r.Context(), Scope{TeamID: teamID, AccountManagerID: amID}, window.Start, window.End)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, score)
}

// GetLeaderboard handles GET /teams/{id}/leaderboard?start&end
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.RequireActor(w, r); !ok {
		return
	}

	teamID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid team ID")
		return
	}

	window, err := parseWindow(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	entries, err := h.Service.Leaderboard(r.Context(), teamID, window.Start, window.End)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, LeaderboardResponse{
		TeamID:  teamID,
		Start:   window.Start.Format(internal.DateLayout),
		End:     window.End.Format(internal.DateLayout),
		Entries: entries,
	})
}
