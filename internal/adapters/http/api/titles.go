package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/titles"
)

type boardsResponse struct {
	Season int            `json:"season"`
	Boards []titles.Board `json:"boards"`
}

// TitlesHandler serves award predictions.
type TitlesHandler struct {
	deps PredictionDependencies
}

// NewTitlesHandler creates a new titles handler.
func NewTitlesHandler(deps PredictionDependencies) *TitlesHandler {
	return &TitlesHandler{deps: deps}
}

// HandleGetSheet handles GET /titles/me.
func (h *TitlesHandler) HandleGetSheet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_title_sheet"
	sheet, err := h.deps.TitleSheet(r.Context(), ownerFrom(r))
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

// HandlePutSheet handles PUT /titles/me. The body has the sheet's shape:
// league -> title -> player. Blank entries are skipped.
func (h *TitlesHandler) HandlePutSheet(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_title_sheet"
	var body map[string]map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sheet := titles.NewSheet()
	for name, row := range body {
		league, err := catalog.ParseLeague(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		for title, player := range row {
			if err := sheet.Set(league, title, player); err != nil {
				writeServiceError(w, Wrap(op, err))
				return
			}
		}
	}
	if err := h.deps.SaveTitleSheet(r.Context(), ownerFrom(r), sheet); err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

// HandleBoards handles GET /titles.
func (h *TitlesHandler) HandleBoards(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_title_boards"
	boards, err := h.deps.TitleBoards(r.Context())
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	if boards == nil {
		boards = []titles.Board{}
	}
	writeJSON(w, http.StatusOK, boardsResponse{Season: h.deps.Season(), Boards: boards})
}
