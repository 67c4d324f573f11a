package api

import (
	"net/http"

	"github.com/okian/pennant/internal/domain/catalog"
)

type standingsResponse struct {
	Season  int              `json:"season"`
	League  catalog.League   `json:"league"`
	Entries []StandingsEntry `json:"entries"`
}

// PredictionsHandler serves everyone's submitted standings.
type PredictionsHandler struct {
	deps PredictionDependencies
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps PredictionDependencies) *PredictionsHandler {
	return &PredictionsHandler{deps: deps}
}

// HandleList handles GET /predictions?league=.
func (h *PredictionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_predictions"
	league, err := catalog.ParseLeague(r.URL.Query().Get("league"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	entries, err := h.deps.Standings(r.Context(), league)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	if entries == nil {
		entries = []StandingsEntry{}
	}
	writeJSON(w, http.StatusOK, standingsResponse{Season: h.deps.Season(), League: league, Entries: entries})
}
