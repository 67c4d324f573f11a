package api

import (
	"net/http"

	"github.com/okian/pennant/internal/domain/catalog"
)

type catalogResponse struct {
	League catalog.League `json:"league"`
	Name   string         `json:"name"`
	Items  []catalog.Item `json:"items"`
}

// CatalogHandler serves the fixed team lists.
type CatalogHandler struct{}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler() *CatalogHandler { return &CatalogHandler{} }

// HandleGetCatalog handles GET /catalog/{league}.
func (h *CatalogHandler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_catalog"
	league, err := catalog.ParseLeague(r.PathValue("league"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
		return
	}
	cat, err := catalog.ForLeague(league)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{League: league, Name: league.DisplayName(), Items: cat.Items()})
}
