package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/standings"
)

type openSessionRequest struct {
	League string `json:"league"`
}

// moveRequest places item_id at rank; rank 0 or pool=true returns it to
// the pool.
type moveRequest struct {
	ItemID string `json:"item_id"`
	Rank   int    `json:"rank"`
	Pool   bool   `json:"pool"`
}

func (m moveRequest) validate() error {
	if strings.TrimSpace(m.ItemID) == "" {
		return errors.New("missing item_id")
	}
	return nil
}

func (m moveRequest) destination() standings.Destination {
	if m.Pool || m.Rank == 0 {
		return standings.Pool
	}
	return standings.Rank(m.Rank)
}

// SessionsHandler handles editor session requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleOpen handles POST /sessions.
func (h *SessionsHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	const op = "api.open_session"
	var req openSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	league, err := catalog.ParseLeague(req.League)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	view, err := h.deps.OpenSession(r.Context(), ownerFrom(r), league)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"
	view, err := h.deps.Session(r.Context(), r.PathValue("id"), ownerFrom(r))
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleMove handles POST /sessions/{id}/moves. A move the standings rules
// reject is a 200 with applied=false.
func (h *SessionsHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	const op = "api.move"
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Move(r.Context(), r.PathValue("id"), ownerFrom(r), req.ItemID, req.destination())
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleSubmit handles POST /sessions/{id}/submit.
func (h *SessionsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit"
	view, err := h.deps.Submit(r.Context(), r.PathValue("id"), ownerFrom(r))
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleClose handles DELETE /sessions/{id}.
func (h *SessionsHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	const op = "api.close_session"
	if err := h.deps.CloseSession(r.Context(), r.PathValue("id"), ownerFrom(r)); err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
